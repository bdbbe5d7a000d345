package results

import "testing"

func TestNewArtifactStore_Validation(t *testing.T) {
	if _, err := NewArtifactStore(nil, "bucket"); err == nil {
		t.Fatalf("NewArtifactStore() expected error for nil client")
	}
}

func TestHistoryObjectKey(t *testing.T) {
	got := historyObjectKey("sweep-1", "run-1")
	if got != "sweeps/sweep-1/run-1/history.json" {
		t.Fatalf("historyObjectKey()=%q", got)
	}
}
