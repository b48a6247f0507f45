package idhash

import "testing"

func TestComputeRecordID_Deterministic(t *testing.T) {
	id1 := ComputeRecordID("0xabc", 1629178166, "deposit", "USDC", 2000.0)
	id2 := ComputeRecordID("0xabc", 1629178166, "deposit", "USDC", 2000.0)

	if id1 != id2 {
		t.Errorf("expected identical IDs, got %s and %s", id1, id2)
	}
	if len(id1) != 64 {
		t.Errorf("expected 64-character hex hash, got %d characters", len(id1))
	}
}

func TestComputeRecordID_DiffersPerField(t *testing.T) {
	base := ComputeRecordID("0xabc", 1629178166, "deposit", "USDC", 2000.0)

	variants := []string{
		ComputeRecordID("0xdef", 1629178166, "deposit", "USDC", 2000.0),
		ComputeRecordID("0xabc", 1629178167, "deposit", "USDC", 2000.0),
		ComputeRecordID("0xabc", 1629178166, "borrow", "USDC", 2000.0),
		ComputeRecordID("0xabc", 1629178166, "deposit", "DAI", 2000.0),
		ComputeRecordID("0xabc", 1629178166, "deposit", "USDC", 2000.5),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d: expected different ID than base", i)
		}
	}
}
