package pipeline

import (
	"wallet-credit-lab/internal/decode"
)

// SampleRawTransactions returns a small fixture feed for demo runs and
// tests: an established depositor, a mixed borrower, a liquidated wallet
// and a one-shot wallet. Timestamps are seconds and span several UTC days.
func SampleRawTransactions() []decode.RawTransaction {
	const (
		day = 86400
		t0  = 1629072000 // 2021-08-16T00:00:00Z
	)

	raw := func(wallet string, ts int64, action, amount, asset string) decode.RawTransaction {
		return decode.RawTransaction{
			UserWallet: wallet,
			Action:     action,
			Timestamp:  ts,
			ActionData: decode.RawActionData{Amount: amount, AssetSymbol: asset},
		}
	}

	const (
		depositor  = "0x00000000000000000000000000000000000000a1"
		borrower   = "0x00000000000000000000000000000000000000b2"
		liquidated = "0x00000000000000000000000000000000000000c3"
		oneShot    = "0x00000000000000000000000000000000000000d4"
	)

	txs := []decode.RawTransaction{
		// Established depositor: daily deposits over a week, three assets.
		raw(depositor, t0+0*day, "deposit", "1000", "USDC"),
		raw(depositor, t0+1*day, "deposit", "500", "DAI"),
		raw(depositor, t0+2*day, "deposit", "2", "WETH"),
		raw(depositor, t0+3*day, "deposit", "250", "USDC"),
		raw(depositor, t0+4*day, "deposit", "250", "USDC"),
		raw(depositor, t0+5*day, "redeemunderlying", "100", "DAI"),
		raw(depositor, t0+6*day, "deposit", "750", "USDC"),

		// Mixed borrower: borrows against deposits, repays on time.
		raw(borrower, t0+0*day, "deposit", "5000", "USDC"),
		raw(borrower, t0+0*day+3600, "borrow", "2000", "DAI"),
		raw(borrower, t0+2*day, "repay", "1000", "DAI"),
		raw(borrower, t0+4*day, "repay", "1000", "DAI"),
		raw(borrower, t0+4*day+7200, "redeemunderlying", "2500", "USDC"),

		// Liquidated wallet: over-leveraged, hit twice.
		raw(liquidated, t0+0*day, "deposit", "100", "WETH"),
		raw(liquidated, t0+0*day+600, "borrow", "9000", "USDC"),
		raw(liquidated, t0+1*day, "liquidationcall", "40", "WETH"),
		raw(liquidated, t0+1*day+1800, "liquidationcall", "35", "WETH"),

		// One-shot wallet: single deposit, never seen again.
		raw(oneShot, t0+3*day, "deposit", "10", "USDT"),
	}

	return txs
}
