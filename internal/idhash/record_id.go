package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRecordID computes a deterministic record_id using SHA256.
// Formula: SHA256(wallet|timestamp|action|asset|amount)
// Returns hex-encoded hash (64 characters).
//
// Identical raw records map to the same ID, which gives store-level
// dedup when a feed delivers the same transaction twice.
func ComputeRecordID(wallet string, timestamp int64, action, asset string, amount float64) string {
	data := fmt.Sprintf("%s|%d|%s|%s|%.12g",
		wallet,
		timestamp,
		action,
		asset,
		amount,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
