package domain

import "fmt"

// History maps a metric name to its per-epoch values, as reported by the
// trainer for one run. Scale-crop variants carry a one-decimal suffix in the
// key, e.g. "val_lossC4.0".
type History map[string][]float64

const (
	MetricValLoss = "val_loss"
	MetricValDice = "val_dice"
)

// ValLossCropKey returns the scale-crop parameterized loss key.
func ValLossCropKey(scaleCrop float64) string {
	return fmt.Sprintf("val_lossC%.1f", scaleCrop)
}

// ValDiceCropKey returns the scale-crop parameterized dice key.
func ValDiceCropKey(scaleCrop float64) string {
	return fmt.Sprintf("val_diC%.1f", scaleCrop)
}

// Series returns the per-epoch values for one metric.
func (h History) Series(name string) ([]float64, error) {
	values, ok := h[name]
	if !ok {
		return nil, fmt.Errorf("history metric missing: %s", name)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("history metric empty: %s", name)
	}
	return values, nil
}

// BestEpoch returns the epoch index at which a metric is maximal. Ties
// resolve to the earliest epoch.
func (h History) BestEpoch(name string) (int, error) {
	values, err := h.Series(name)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best, nil
}

// At returns the value of a metric at one epoch index.
func (h History) At(name string, epoch int) (float64, error) {
	values, err := h.Series(name)
	if err != nil {
		return 0, err
	}
	if epoch < 0 || epoch >= len(values) {
		return 0, fmt.Errorf("epoch %d out of range for %s (%d epochs)", epoch, name, len(values))
	}
	return values[epoch], nil
}
