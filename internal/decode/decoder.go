// Package decode translates raw lending-protocol transaction JSON into
// domain records. It is the single boundary where action strings and
// wallet addresses are validated; nothing downstream re-parses raw input.
package decode

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/idhash"
)

// RawActionData carries the protocol-specific payload of a raw transaction.
type RawActionData struct {
	Amount      string `json:"amount"`
	AssetSymbol string `json:"assetSymbol"`
}

// RawTransaction mirrors one entry of the raw transaction JSON feed.
type RawTransaction struct {
	UserWallet string        `json:"userWallet"`
	Action     string        `json:"action"`
	Timestamp  int64         `json:"timestamp"`
	ActionData RawActionData `json:"actionData"`
}

// DropReason classifies why a raw record was dropped during decoding.
type DropReason string

const (
	DropMissingWallet    DropReason = "missing_wallet"
	DropInvalidWallet    DropReason = "invalid_wallet"
	DropMissingTimestamp DropReason = "missing_timestamp"
)

// DropStats tallies records dropped during decoding.
// Dropped records are a warning condition, never a fatal one: a single bad
// record must not abort the run.
type DropStats struct {
	ByReason map[DropReason]int
}

// NewDropStats creates an empty tally.
func NewDropStats() *DropStats {
	return &DropStats{ByReason: make(map[DropReason]int)}
}

// Total returns the total number of dropped records.
func (d *DropStats) Total() int {
	n := 0
	for _, c := range d.ByReason {
		n += c
	}
	return n
}

// Warnings returns human-readable warning lines, one per drop reason,
// in stable order for deterministic report output.
func (d *DropStats) Warnings() []string {
	var out []string
	for _, reason := range []DropReason{DropMissingWallet, DropInvalidWallet, DropMissingTimestamp} {
		if c := d.ByReason[reason]; c > 0 {
			out = append(out, fmt.Sprintf("dropped %d record(s): %s", c, reason))
		}
	}
	return out
}

// ParseAction maps a raw action string onto the closed ActionKind set.
// Unrecognized strings land in ActionOther so new protocol actions never
// break decoding.
func ParseAction(raw string) domain.ActionKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "deposit", "supply":
		return domain.ActionDeposit
	case "borrow":
		return domain.ActionBorrow
	case "repay":
		return domain.ActionRepay
	case "redeem", "redeemunderlying", "withdraw":
		return domain.ActionRedeem
	case "liquidationcall":
		return domain.ActionLiquidationCall
	default:
		return domain.ActionOther
	}
}

// Record decodes a single raw transaction. Returns the record and true when
// the record is usable, or a drop reason and false when it must be skipped.
func Record(raw RawTransaction) (domain.TransactionRecord, DropReason, bool) {
	wallet := strings.TrimSpace(raw.UserWallet)
	if wallet == "" {
		return domain.TransactionRecord{}, DropMissingWallet, false
	}
	if !common.IsHexAddress(wallet) {
		return domain.TransactionRecord{}, DropInvalidWallet, false
	}
	if raw.Timestamp <= 0 {
		return domain.TransactionRecord{}, DropMissingTimestamp, false
	}

	// Canonical lowercase form so grouping is case-insensitive.
	wallet = strings.ToLower(wallet)

	action := ParseAction(raw.Action)

	// Unparseable amounts decode to 0 rather than dropping the record.
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw.ActionData.Amount), 64)
	if err != nil || amount < 0 {
		amount = 0
	}

	return domain.TransactionRecord{
		RecordID:  idhash.ComputeRecordID(wallet, raw.Timestamp, action.String(), raw.ActionData.AssetSymbol, amount),
		Wallet:    wallet,
		Action:    action,
		Asset:     raw.ActionData.AssetSymbol,
		Amount:    amount,
		Timestamp: raw.Timestamp,
	}, "", true
}

// Records decodes a batch of raw transactions, tallying drops.
func Records(raws []RawTransaction) ([]domain.TransactionRecord, *DropStats) {
	stats := NewDropStats()
	records := make([]domain.TransactionRecord, 0, len(raws))

	for _, raw := range raws {
		rec, reason, ok := Record(raw)
		if !ok {
			stats.ByReason[reason]++
			continue
		}
		records = append(records, rec)
	}

	return records, stats
}

// FromJSON decodes a raw transaction JSON array from r.
// A malformed stream is a fatal input error owned by the caller.
func FromJSON(r io.Reader) ([]domain.TransactionRecord, *DropStats, error) {
	var raws []RawTransaction
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, nil, fmt.Errorf("decode transaction json: %w", err)
	}
	records, stats := Records(raws)
	return records, stats, nil
}
