package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/neuroseg-labs/segsweep/internal/domain"
	"github.com/neuroseg-labs/segsweep/internal/unet"
)

// Command invokes an external training program as a subprocess. The run
// request is written to the program's stdin as JSON and the History is
// decoded from its stdout. An out-of-memory signature on stderr is reported
// as ErrResourceExhausted.
type Command struct {
	bin  string
	args []string
}

func NewCommand(bin string, args ...string) (*Command, error) {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		return nil, errors.New("trainer binary is required")
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("trainer binary not found: %w", err)
	}
	return &Command{bin: bin, args: args}, nil
}

func (t *Command) Train(ctx context.Context, cfg domain.RunConfiguration, model unet.Model) (domain.History, error) {
	payload, err := json.Marshal(trainRequest{Config: cfg, Model: model})
	if err != nil {
		return nil, fmt.Errorf("encode train request: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.bin, t.args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		text := strings.TrimSpace(stderr.String())
		if isOutOfMemoryText(text) {
			return nil, fmt.Errorf("%w: %s", ErrResourceExhausted, lastLine(text))
		}
		return nil, fmt.Errorf("trainer command failed: %w: %s", err, text)
	}

	var history domain.History
	if err := json.Unmarshal(stdout.Bytes(), &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if len(history) == 0 {
		return nil, errors.New("trainer returned empty history")
	}
	return history, nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
