package ingestion

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"wallet-credit-lab/internal/decode"
	"wallet-credit-lab/internal/storage/memory"
)

// stubSource streams a fixed set of raw transactions.
type stubSource struct {
	raws []decode.RawTransaction
}

func (s *stubSource) Subscribe(ctx context.Context) (<-chan decode.RawTransaction, error) {
	ch := make(chan decode.RawTransaction, len(s.raws))
	for _, raw := range s.raws {
		ch <- raw
	}
	close(ch)
	return ch, nil
}

func validRaw(wallet string, ts int64, action, amount, asset string) decode.RawTransaction {
	return decode.RawTransaction{
		UserWallet: wallet,
		Action:     action,
		Timestamp:  ts,
		ActionData: decode.RawActionData{Amount: amount, AssetSymbol: asset},
	}
}

func TestRunner_Run(t *testing.T) {
	source := &stubSource{raws: []decode.RawTransaction{
		validRaw("0x00000000000000000000000000000000000000aa", 1000, "deposit", "100", "USDC"),
		validRaw("0x00000000000000000000000000000000000000bb", 2000, "borrow", "50", "DAI"),
		validRaw("", 3000, "repay", "25", "DAI"),                // dropped: missing wallet
		validRaw("not-an-address", 4000, "deposit", "1", "ETH"), // dropped: invalid wallet
	}}

	store := memory.NewTransactionStore()
	runner := NewRunner(RunnerOptions{Source: source, Store: store, BatchSize: 2})

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 stored records, got %d", count)
	}

	stats := runner.Stats()
	if stats.RecordsReceived != 4 {
		t.Errorf("expected 4 received, got %d", stats.RecordsReceived)
	}
	if stats.RecordsStored != 2 {
		t.Errorf("expected 2 stored, got %d", stats.RecordsStored)
	}
	if stats.RecordsDropped != 2 {
		t.Errorf("expected 2 dropped, got %d", stats.RecordsDropped)
	}

	drops := runner.DropStats()
	if drops.ByReason[decode.DropMissingWallet] != 1 {
		t.Errorf("expected 1 missing_wallet drop, got %d", drops.ByReason[decode.DropMissingWallet])
	}
	if drops.ByReason[decode.DropInvalidWallet] != 1 {
		t.Errorf("expected 1 invalid_wallet drop, got %d", drops.ByReason[decode.DropInvalidWallet])
	}
}

func TestRunner_ReplayIsIdempotent(t *testing.T) {
	raws := []decode.RawTransaction{
		validRaw("0x00000000000000000000000000000000000000aa", 1000, "deposit", "100", "USDC"),
		validRaw("0x00000000000000000000000000000000000000aa", 2000, "borrow", "50", "DAI"),
	}
	store := memory.NewTransactionStore()

	first := NewRunner(RunnerOptions{Source: &stubSource{raws: raws}, Store: store})
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	second := NewRunner(RunnerOptions{Source: &stubSource{raws: raws}, Store: store})
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 records after replay, got %d", count)
	}
	if second.Stats().Duplicates != 2 {
		t.Errorf("expected 2 duplicates on replay, got %d", second.Stats().Duplicates)
	}
}

func TestRunner_IntraBatchDuplicate(t *testing.T) {
	// Same raw transaction twice in one batch: idhash collides, bulk insert
	// falls back to per-record inserts and one copy survives.
	raw := validRaw("0x00000000000000000000000000000000000000aa", 1000, "deposit", "100", "USDC")
	source := &stubSource{raws: []decode.RawTransaction{raw, raw}}

	store := memory.NewTransactionStore()
	runner := NewRunner(RunnerOptions{Source: source, Store: store})

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record after dedup, got %d", count)
	}
	if runner.Stats().Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", runner.Stats().Duplicates)
	}
}

func TestParseFeedMessage(t *testing.T) {
	logger := zap.NewNop()

	single := []byte(`{"userWallet": "0x00000000000000000000000000000000000000aa", "action": "deposit", "timestamp": 1, "actionData": {"amount": "1", "assetSymbol": "USDC"}}`)
	if got := parseFeedMessage(single, logger); len(got) != 1 {
		t.Errorf("expected 1 transaction from object message, got %d", len(got))
	}

	batch := []byte(`[{"userWallet": "0xaa", "action": "deposit", "timestamp": 1, "actionData": {}}, {"userWallet": "0xbb", "action": "borrow", "timestamp": 2, "actionData": {}}]`)
	if got := parseFeedMessage(batch, logger); len(got) != 2 {
		t.Errorf("expected 2 transactions from array message, got %d", len(got))
	}

	if got := parseFeedMessage([]byte(`"just a string"`), logger); got != nil {
		t.Errorf("expected nil for non-transaction message, got %v", got)
	}
}
