package domain

import "testing"

func TestBestEpoch(t *testing.T) {
	history := History{
		"val_dice": {0.1, 0.5, 0.3},
	}
	best, err := history.BestEpoch(MetricValDice)
	if err != nil {
		t.Fatalf("BestEpoch() err=%v", err)
	}
	if best != 1 {
		t.Fatalf("BestEpoch()=%d, want 1", best)
	}
}

func TestBestEpoch_TiesResolveToEarliest(t *testing.T) {
	history := History{
		"val_dice": {0.2, 0.6, 0.6, 0.1},
	}
	best, err := history.BestEpoch(MetricValDice)
	if err != nil {
		t.Fatalf("BestEpoch() err=%v", err)
	}
	if best != 1 {
		t.Fatalf("BestEpoch()=%d, want 1", best)
	}
}

func TestBestEpoch_MissingMetric(t *testing.T) {
	history := History{}
	if _, err := history.BestEpoch(MetricValDice); err == nil {
		t.Fatalf("BestEpoch() expected error for missing metric")
	}
}

func TestBestEpoch_EmptySeries(t *testing.T) {
	history := History{"val_dice": {}}
	if _, err := history.BestEpoch(MetricValDice); err == nil {
		t.Fatalf("BestEpoch() expected error for empty series")
	}
}

func TestAt_OutOfRange(t *testing.T) {
	history := History{"val_loss": {0.4, 0.3}}
	if _, err := history.At(MetricValLoss, 2); err == nil {
		t.Fatalf("At() expected error for out-of-range epoch")
	}
	if _, err := history.At(MetricValLoss, -1); err == nil {
		t.Fatalf("At() expected error for negative epoch")
	}
}

func TestScaleCropKeys(t *testing.T) {
	if got := ValLossCropKey(4.0); got != "val_lossC4.0" {
		t.Fatalf("ValLossCropKey()=%q, want val_lossC4.0", got)
	}
	if got := ValDiceCropKey(2.5); got != "val_diC2.5" {
		t.Fatalf("ValDiceCropKey()=%q, want val_diC2.5", got)
	}
}
