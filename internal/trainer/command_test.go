package trainer

import (
	"context"
	"testing"

	"github.com/neuroseg-labs/segsweep/internal/domain"
	"github.com/neuroseg-labs/segsweep/internal/unet"
)

func commandModel(t *testing.T) unet.Model {
	t.Helper()
	model, err := unet.New(1, 4, 16, true)
	if err != nil {
		t.Fatalf("unet.New() err=%v", err)
	}
	return model
}

func commandConfig() domain.RunConfiguration {
	return domain.RunConfiguration{
		BatchSize:     32,
		DataDir:       "/data/segmentation",
		Epochs:        1,
		InputChannels: "R",
		LearningRate:  0.001,
		ScaleCrop:     4.0,
		SyntheticData: true,
	}
}

func TestNewCommand_MissingBinary(t *testing.T) {
	if _, err := NewCommand(""); err == nil {
		t.Fatalf("NewCommand() expected error for empty binary")
	}
	if _, err := NewCommand("definitely-not-a-real-trainer-binary"); err == nil {
		t.Fatalf("NewCommand() expected error for unknown binary")
	}
}

func TestCommandTrain(t *testing.T) {
	cmd, err := NewCommand("sh", "-c", `cat >/dev/null; echo '{"val_dice":[0.2,0.6],"val_loss":[0.5,0.4],"val_lossC4.0":[0.45,0.35],"val_diC4.0":[0.25,0.65]}'`)
	if err != nil {
		t.Fatalf("NewCommand() err=%v", err)
	}
	history, err := cmd.Train(context.Background(), commandConfig(), commandModel(t))
	if err != nil {
		t.Fatalf("Train() err=%v", err)
	}
	best, err := history.BestEpoch(domain.MetricValDice)
	if err != nil {
		t.Fatalf("BestEpoch() err=%v", err)
	}
	if best != 1 {
		t.Fatalf("BestEpoch()=%d, want 1", best)
	}
}

func TestCommandTrain_ResourceExhausted(t *testing.T) {
	cmd, err := NewCommand("sh", "-c", `cat >/dev/null; echo "RuntimeError: CUDA out of memory" >&2; exit 1`)
	if err != nil {
		t.Fatalf("NewCommand() err=%v", err)
	}
	_, err = cmd.Train(context.Background(), commandConfig(), commandModel(t))
	if !IsResourceExhausted(err) {
		t.Fatalf("Train() err=%v, want resource exhaustion", err)
	}
}

func TestCommandTrain_OtherFailureIsFatal(t *testing.T) {
	cmd, err := NewCommand("sh", "-c", `cat >/dev/null; echo "FileNotFoundError: /data/missing" >&2; exit 1`)
	if err != nil {
		t.Fatalf("NewCommand() err=%v", err)
	}
	_, err = cmd.Train(context.Background(), commandConfig(), commandModel(t))
	if err == nil {
		t.Fatalf("Train() expected error")
	}
	if IsResourceExhausted(err) {
		t.Fatalf("fatal failure misclassified as resource exhaustion: %v", err)
	}
}

func TestCommandTrain_EmptyHistory(t *testing.T) {
	cmd, err := NewCommand("sh", "-c", `cat >/dev/null; echo '{}'`)
	if err != nil {
		t.Fatalf("NewCommand() err=%v", err)
	}
	if _, err := cmd.Train(context.Background(), commandConfig(), commandModel(t)); err == nil {
		t.Fatalf("Train() expected error for empty history")
	}
}

func TestIsOutOfMemoryText(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"RuntimeError: CUDA out of memory", true},
		{"cuda error: Out Of Memory on device 0", true},
		{"worker killed: oom-kill event", true},
		{"resource_exhausted: allocation failed", true},
		{"FileNotFoundError: /data/missing", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isOutOfMemoryText(tc.text); got != tc.want {
			t.Fatalf("isOutOfMemoryText(%q)=%v, want %v", tc.text, got, tc.want)
		}
	}
}
