package results

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/neuroseg-labs/segsweep/internal/domain"
)

func TestNDJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewNDJSONExporter(&buf)

	success := sampleRecord()
	if err := exporter.RecordRun(context.Background(), success); err != nil {
		t.Fatalf("RecordRun() err=%v", err)
	}

	failed := sampleRecord()
	failed.ID = "run-2"
	failed.Status = domain.RunStatusResourceExhausted
	failed.Result = nil
	failed.History = nil
	failed.Error = "CUDA out of memory"
	if err := exporter.RecordRun(context.Background(), failed); err != nil {
		t.Fatalf("RecordRun() err=%v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first["run_id"] != "run-1" || first["status"] != domain.RunStatusSucceeded {
		t.Fatalf("unexpected first line: %v", first)
	}
	if first["best_epoch"] != float64(1) {
		t.Fatalf("unexpected best epoch: %v", first["best_epoch"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal second line: %v", err)
	}
	if second["status"] != domain.RunStatusResourceExhausted || second["error"] != "CUDA out of memory" {
		t.Fatalf("unexpected second line: %v", second)
	}
	if _, ok := second["best_epoch"]; ok {
		t.Fatalf("failed run must omit metrics: %v", second)
	}
}
