// Package trainer is the boundary to the external training routine: it
// submits one run configuration plus a freshly constructed model and returns
// the per-epoch validation History.
package trainer

import (
	"context"
	"errors"
	"strings"

	"github.com/neuroseg-labs/segsweep/internal/domain"
	"github.com/neuroseg-labs/segsweep/internal/unet"
)

// Trainer runs one training job to completion and reports its history.
// Implementations must not retain the configuration beyond the call.
type Trainer interface {
	Train(ctx context.Context, cfg domain.RunConfiguration, model unet.Model) (domain.History, error)
}

// ErrResourceExhausted marks the one recoverable training failure: the
// compute backend ran out of memory for this run. The sweep reports the
// point as failed and continues; every other error aborts the sweep.
var ErrResourceExhausted = errors.New("resource_exhausted")

func IsResourceExhausted(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}

type trainRequest struct {
	Config domain.RunConfiguration `json:"config"`
	Model  unet.Model              `json:"model"`
}

func isOutOfMemoryText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "out of memory") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "oom-kill")
}
