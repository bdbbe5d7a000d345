package results

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/neuroseg-labs/segsweep/internal/domain"
)

// NDJSONExporter appends one JSON line per completed sweep point.
type NDJSONExporter struct {
	enc *json.Encoder
}

func NewNDJSONExporter(w io.Writer) *NDJSONExporter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	return &NDJSONExporter{enc: enc}
}

func (e *NDJSONExporter) RecordRun(ctx context.Context, record domain.RunRecord) error {
	return e.enc.Encode(exportRunFromRecord(record))
}

type exportRun struct {
	RunID          string   `json:"run_id"`
	SweepID        string   `json:"sweep_id"`
	InputChannels  string   `json:"input_channels"`
	SyntheticRatio float64  `json:"synthetic_ratio"`
	Status         string   `json:"status"`
	Error          string   `json:"error,omitempty"`
	BestEpoch      *int     `json:"best_epoch,omitempty"`
	ValLoss        *float64 `json:"val_loss,omitempty"`
	ValLossCrop    *float64 `json:"val_loss_crop,omitempty"`
	ValDice        *float64 `json:"val_dice,omitempty"`
	ValDiceCrop    *float64 `json:"val_dice_crop,omitempty"`
	StartedAt      string   `json:"started_at"`
	EndedAt        string   `json:"ended_at"`
}

func exportRunFromRecord(record domain.RunRecord) exportRun {
	out := exportRun{
		RunID:          record.ID,
		SweepID:        record.SweepID,
		InputChannels:  record.InputChannels,
		SyntheticRatio: record.SyntheticRatio,
		Status:         record.Status,
		Error:          record.Error,
		StartedAt:      record.StartedAt.UTC().Format(time.RFC3339Nano),
		EndedAt:        record.EndedAt.UTC().Format(time.RFC3339Nano),
	}
	if record.Result != nil {
		result := *record.Result
		out.BestEpoch = &result.BestEpoch
		out.ValLoss = &result.ValLoss
		out.ValLossCrop = &result.ValLossCrop
		out.ValDice = &result.ValDice
		out.ValDiceCrop = &result.ValDiceCrop
	}
	return out
}
