package domain

// ActionKind represents the economic effect of a lending-protocol transaction.
type ActionKind string

const (
	ActionDeposit         ActionKind = "deposit"
	ActionBorrow          ActionKind = "borrow"
	ActionRepay           ActionKind = "repay"
	ActionRedeem          ActionKind = "redeem"
	ActionLiquidationCall ActionKind = "liquidationcall"
	// ActionOther is the catch-all bucket for action strings outside the
	// recognized set. Unknown actions are never rejected.
	ActionOther ActionKind = "other"
)

// String returns the string representation of ActionKind.
func (a ActionKind) String() string {
	return string(a)
}

// IsValid checks if the action kind is a recognized value (including other).
func (a ActionKind) IsValid() bool {
	switch a {
	case ActionDeposit, ActionBorrow, ActionRepay, ActionRedeem, ActionLiquidationCall, ActionOther:
		return true
	}
	return false
}

// AllActionKinds lists every recognized action kind in stable order.
// Used for deterministic iteration over action tallies.
var AllActionKinds = []ActionKind{
	ActionDeposit,
	ActionBorrow,
	ActionRepay,
	ActionRedeem,
	ActionLiquidationCall,
	ActionOther,
}

// TransactionRecord represents one decoded lending-protocol transaction.
// Corresponds to transactions table in PostgreSQL.
// Records are immutable after decoding.
type TransactionRecord struct {
	RecordID  string     // deterministic hash, PRIMARY KEY
	Wallet    string     // EVM wallet address (lowercase hex)
	Action    ActionKind // deposit | borrow | repay | redeem | liquidationcall | other
	Asset     string     // asset symbol (e.g. "USDC")
	Amount    float64    // non-negative amount in base units
	Timestamp int64      // Unix timestamp in seconds
}
