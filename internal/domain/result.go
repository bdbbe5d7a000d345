package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunResult is the best-epoch summary derived from one run's History: the
// epoch index at which validation dice peaked, and the four metric values
// read at that index.
type RunResult struct {
	BestEpoch   int     `json:"best_epoch"`
	ValLoss     float64 `json:"val_loss"`
	ValLossCrop float64 `json:"val_loss_crop"`
	ValDice     float64 `json:"val_dice"`
	ValDiceCrop float64 `json:"val_dice_crop"`
}

// Reduce resolves the best validation-dice epoch of a History and reads the
// summary metrics at that index.
func Reduce(history History, scaleCrop float64) (RunResult, error) {
	best, err := history.BestEpoch(MetricValDice)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{BestEpoch: best}
	if result.ValLoss, err = history.At(MetricValLoss, best); err != nil {
		return RunResult{}, err
	}
	if result.ValLossCrop, err = history.At(ValLossCropKey(scaleCrop), best); err != nil {
		return RunResult{}, err
	}
	if result.ValDice, err = history.At(MetricValDice, best); err != nil {
		return RunResult{}, err
	}
	if result.ValDiceCrop, err = history.At(ValDiceCropKey(scaleCrop), best); err != nil {
		return RunResult{}, err
	}
	return result, nil
}

const (
	RunStatusSucceeded         = "succeeded"
	RunStatusResourceExhausted = "resource_exhausted"
)

// RunRecord is the persisted form of one sweep point.
type RunRecord struct {
	ID             string
	SweepID        string
	InputChannels  string
	SyntheticRatio float64
	Status         string
	Error          string
	Result         *RunResult
	History        History
	StartedAt      time.Time
	EndedAt        time.Time
}

func (r RunRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("run id is required")
	}
	if strings.TrimSpace(r.SweepID) == "" {
		return errors.New("sweep id is required")
	}
	if strings.TrimSpace(r.InputChannels) == "" {
		return errors.New("input channels specifier is required")
	}
	if r.SyntheticRatio < 0 || r.SyntheticRatio > 1 {
		return errors.New("synthetic ratio must be within [0, 1]")
	}
	switch r.Status {
	case RunStatusSucceeded:
		if r.Result == nil {
			return errors.New("succeeded run requires a result")
		}
	case RunStatusResourceExhausted:
	default:
		return fmt.Errorf("unknown run status: %q", r.Status)
	}
	if r.StartedAt.IsZero() {
		return errors.New("started at is required")
	}
	return nil
}
