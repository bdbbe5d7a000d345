package results

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/neuroseg-labs/segsweep/internal/domain"
)

// ArtifactStore uploads each run's full History to object storage. Runs
// without a history (resource-exhausted points) are skipped.
type ArtifactStore struct {
	client *minio.Client
	bucket string
}

func NewArtifactStore(client *minio.Client, bucket string) (*ArtifactStore, error) {
	if client == nil {
		return nil, errors.New("minio client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	return &ArtifactStore{client: client, bucket: bucket}, nil
}

func (s *ArtifactStore) RecordRun(ctx context.Context, record domain.RunRecord) error {
	if s == nil || s.client == nil {
		return errors.New("artifact store not initialized")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if record.History == nil {
		return nil
	}

	body, err := json.Marshal(record.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	sum := sha256.Sum256(body)

	opts := minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"sha256": hex.EncodeToString(sum[:])},
	}
	key := historyObjectKey(record.SweepID, record.ID)
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), opts); err != nil {
		return fmt.Errorf("upload history %s: %w", key, err)
	}
	return nil
}

func historyObjectKey(sweepID, runID string) string {
	return fmt.Sprintf("sweeps/%s/%s/history.json", sweepID, runID)
}
