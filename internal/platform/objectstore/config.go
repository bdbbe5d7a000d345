package objectstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neuroseg-labs/segsweep/internal/platform/env"
)

type Config struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Region          string
	UseSSL          bool
	BucketArtifacts string
}

// ConfigFromEnv reads the artifact-store configuration. An empty
// SEGSWEEP_MINIO_ENDPOINT means history uploads are disabled.
func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("SEGSWEEP_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:        env.String("SEGSWEEP_MINIO_ENDPOINT", ""),
		AccessKey:       env.String("SEGSWEEP_MINIO_ACCESS_KEY", "segsweep"),
		SecretKey:       env.String("SEGSWEEP_MINIO_SECRET_KEY", "segsweepminio"),
		Region:          env.String("SEGSWEEP_MINIO_REGION", "us-east-1"),
		UseSSL:          useSSL,
		BucketArtifacts: env.String("SEGSWEEP_MINIO_BUCKET_ARTIFACTS", "sweep-artifacts"),
	}
	if !cfg.Enabled() {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Enabled reports whether an object-store endpoint was configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.BucketArtifacts) == "" {
		return errors.New("artifacts bucket is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}
