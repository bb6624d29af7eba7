package internal

import "testing"

func TestEnsureClientID_StableAcrossCalls(t *testing.T) {
	db := newTestDB(t)

	first := EnsureClientID(db)
	if first == "" {
		t.Fatal("EnsureClientID() returned empty id")
	}

	second := EnsureClientID(db)
	if second != first {
		t.Errorf("EnsureClientID() = %q, want stable %q", second, first)
	}
}

func TestEnsureClientID_KeepsExisting(t *testing.T) {
	db := newTestDB(t)
	if err := SetValue(db, KeyClientID, "pre-existing"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	if got := EnsureClientID(db); got != "pre-existing" {
		t.Errorf("EnsureClientID() = %q, want stored id", got)
	}
}
