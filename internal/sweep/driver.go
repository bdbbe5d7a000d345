// Package sweep drives the hyperparameter grid search: one training run per
// (input channels, synthetic ratio) pair, strictly sequential, with a
// human-readable report on a single writer.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neuroseg-labs/segsweep/internal/domain"
	"github.com/neuroseg-labs/segsweep/internal/trainer"
	"github.com/neuroseg-labs/segsweep/internal/unet"
)

// Params are the sweep axes and the per-run epoch count, passed explicitly
// so the driver stays reentrant.
type Params struct {
	Epochs   int
	Channels []string
	Ratios   []float64
}

func DefaultParams() Params {
	return Params{
		Epochs:   10,
		Channels: []string{"R", "RG"},
		Ratios:   []float64{0.0, 0.25, 0.5, 0.75, 1.0},
	}
}

func (p Params) Validate() error {
	if p.Epochs < 1 {
		return errors.New("epochs must be >= 1")
	}
	if len(p.Channels) == 0 {
		return errors.New("at least one channel specifier is required")
	}
	for _, channels := range p.Channels {
		if strings.TrimSpace(channels) == "" {
			return errors.New("channel specifier must not be empty")
		}
	}
	if len(p.Ratios) == 0 {
		return errors.New("at least one synthetic ratio is required")
	}
	for _, ratio := range p.Ratios {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("synthetic ratio %v outside [0, 1]", ratio)
		}
	}
	return nil
}

// BaseConfiguration returns the fixed per-run defaults. Synthetic data and
// augmentation are enabled once here, before any sweep begins; the driver
// only varies the two swept fields between runs.
func BaseConfiguration() domain.RunConfiguration {
	return domain.RunConfiguration{
		BatchSize:     32,
		DataAug:       true,
		DataDir:       "/data/talabot/dataset_cv-annotated/",
		EvalTest:      false,
		InputChannels: "R",
		LearningRate:  0.001,
		NoGPU:         false,
		SaveFig:       false,
		ScaleCrop:     4.0,
		Seed:          1,
		SyntheticData: true,
		SyntheticOnly: false,
		Timeit:        false,
		UseMasks:      false,
		Verbose:       false,
	}
}

// ModelFactory builds a fresh model for one run; the input channel count is
// the length of the channel specifier.
type ModelFactory func(inChannels int) (unet.Model, error)

// DefaultModelFactory builds the 4-level U-Net with 16 first-stage output
// channels and batch normalization.
func DefaultModelFactory(inChannels int) (unet.Model, error) {
	return unet.New(inChannels, 4, 16, true)
}

// Recorder receives the outcome of each completed sweep point. Recorder
// failures are logged and never abort the sweep.
type Recorder interface {
	RecordRun(ctx context.Context, record domain.RunRecord) error
}

// Driver executes the grid search against one trainer.
type Driver struct {
	trainer   trainer.Trainer
	factory   ModelFactory
	out       io.Writer
	logger    *slog.Logger
	recorders []Recorder
	now       func() time.Time
	newID     func() string
}

type Option func(*Driver)

func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

func WithModelFactory(factory ModelFactory) Option {
	return func(d *Driver) { d.factory = factory }
}

func WithRecorder(r Recorder) Option {
	return func(d *Driver) { d.recorders = append(d.recorders, r) }
}

func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

func WithIDs(newID func() string) Option {
	return func(d *Driver) { d.newID = newID }
}

func NewDriver(t trainer.Trainer, opts ...Option) (*Driver, error) {
	if t == nil {
		return nil, errors.New("trainer is required")
	}
	d := &Driver{
		trainer: t,
		factory: DefaultModelFactory,
		out:     os.Stdout,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run executes the full sweep: outer loop over channel specifiers, inner
// loop over synthetic ratios, one fresh model per point. A backend
// resource-exhaustion failure is reported inline and the sweep continues;
// any other error aborts immediately. The trailing summary is only printed
// on normal completion; an external interruption between runs skips it too
// (known limitation, kept from the historical reports).
func (d *Driver) Run(ctx context.Context, base domain.RunConfiguration, params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	base.Epochs = params.Epochs
	if err := base.Validate(); err != nil {
		return err
	}

	sweepID := d.newID()
	start := d.now()
	fmt.Fprintf(d.out, "Starting on %s\n\nResults over validation data (%d epochs):\n\n", start.Format(time.ANSIC), params.Epochs)
	if base.DataAug {
		fmt.Fprintf(d.out, "Data augmentation is enabled.\n\n")
	}

	for i, channels := range params.Channels {
		if i > 0 {
			fmt.Fprintln(d.out)
		}
		fmt.Fprintf(d.out, "Input channels: %s\n", channels)
		cfg := base.WithInputChannels(channels)
		for _, ratio := range params.Ratios {
			if err := d.runOne(ctx, sweepID, cfg.WithSyntheticRatio(ratio)); err != nil {
				return err
			}
		}
	}

	end := d.now()
	fmt.Fprintf(d.out, "\nEnding on %s\n", end.Format(time.ANSIC))
	fmt.Fprintf(d.out, "Script duration: %s.\n", formatDuration(end.Sub(start)))
	return nil
}

func (d *Driver) runOne(ctx context.Context, sweepID string, cfg domain.RunConfiguration) error {
	fmt.Fprintf(d.out, "synth_ratio=%s", formatRatio(cfg.SyntheticRatio))

	record := domain.RunRecord{
		ID:             d.newID(),
		SweepID:        sweepID,
		InputChannels:  cfg.InputChannels,
		SyntheticRatio: cfg.SyntheticRatio,
		StartedAt:      d.now().UTC(),
	}

	model, err := d.factory(len(cfg.InputChannels))
	if err != nil {
		return fmt.Errorf("construct model: %w", err)
	}

	history, err := d.trainer.Train(ctx, cfg, model)
	if err != nil {
		if !trainer.IsResourceExhausted(err) {
			return err
		}
		msg := exhaustionMessage(err)
		fmt.Fprintf(d.out, " | RuntimeError (%s)\n", msg)
		record.Status = domain.RunStatusResourceExhausted
		record.Error = msg
		record.EndedAt = d.now().UTC()
		d.record(ctx, record)
		return nil
	}

	result, err := domain.Reduce(history, cfg.ScaleCrop)
	if err != nil {
		return fmt.Errorf("reduce history: %w", err)
	}
	fmt.Fprintf(d.out, " | loss=%.6f - lossC%.1f=%.6f - dice=%.6f - diC%.1f=%.6f\n",
		result.ValLoss, cfg.ScaleCrop, result.ValLossCrop,
		result.ValDice, cfg.ScaleCrop, result.ValDiceCrop)

	record.Status = domain.RunStatusSucceeded
	record.Result = &result
	record.History = history
	record.EndedAt = d.now().UTC()
	d.record(ctx, record)
	return nil
}

func (d *Driver) record(ctx context.Context, record domain.RunRecord) {
	for _, r := range d.recorders {
		if err := r.RecordRun(ctx, record); err != nil {
			d.logger.Error("record run failed", "run_id", record.ID, "error", err)
		}
	}
}

func exhaustionMessage(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, trainer.ErrResourceExhausted.Error()+": ")
}

// formatRatio renders a ratio with at least one decimal, left-justified to
// the historical four-column field.
func formatRatio(ratio float64) string {
	s := strconv.FormatFloat(ratio, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return fmt.Sprintf("%-4s", s)
}

func formatDuration(elapsed time.Duration) string {
	secs := int64(elapsed.Seconds())
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%dh %02dmin %02ds", secs/3600, (secs/60)%60, secs%60)
}
