package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neuroseg-labs/segsweep/internal/platform/env"
	"github.com/neuroseg-labs/segsweep/internal/platform/objectstore"
	"github.com/neuroseg-labs/segsweep/internal/platform/postgres"
	"github.com/neuroseg-labs/segsweep/internal/results"
	"github.com/neuroseg-labs/segsweep/internal/sweep"
	"github.com/neuroseg-labs/segsweep/internal/trainer"
)

func main() {
	// stdout carries the sweep report; diagnostics go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	specPath := flag.String("sweep", env.String("SEGSWEEP_SWEEP_FILE", ""), "path to a sweep spec YAML (built-in defaults when empty)")
	flag.Parse()

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params := sweep.DefaultParams()
	base := sweep.BaseConfiguration()
	if *specPath != "" {
		spec, err := sweep.LoadSpec(*specPath)
		if err != nil {
			logger.Error("invalid sweep spec", "path", *specPath, "error", err)
			os.Exit(2)
		}
		params = spec.Params()
		base = spec.Apply(base)
	}

	epochs, err := env.Int("SEGSWEEP_EPOCHS", params.Epochs)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}
	params.Epochs = epochs
	params.Channels = env.Strings("SEGSWEEP_CHANNELS", params.Channels)
	params.Ratios, err = env.Floats("SEGSWEEP_SYNTH_RATIOS", params.Ratios)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	tr, err := buildTrainer(logger)
	if err != nil {
		logger.Error("trainer init failed", "error", err)
		os.Exit(2)
	}

	opts := []sweep.Option{sweep.WithLogger(logger)}

	dbCfg, err := postgres.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(2)
	}
	if dbCfg.Enabled() {
		db, err := postgres.Open(ctx, dbCfg)
		if err != nil {
			logger.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		store := results.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("schema init failed", "error", err)
			os.Exit(1)
		}
		opts = append(opts, sweep.WithRecorder(store))
	}

	storeCfg, err := objectstore.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid object store config", "error", err)
		os.Exit(2)
	}
	if storeCfg.Enabled() {
		client, err := objectstore.NewMinIOClient(storeCfg)
		if err != nil {
			logger.Error("object store client init failed", "error", err)
			os.Exit(2)
		}
		startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = objectstore.EnsureArtifactsBucket(startupCtx, client, storeCfg)
		cancel()
		if err != nil {
			logger.Error("object store unavailable", "error", err)
			os.Exit(1)
		}
		artifactStore, err := results.NewArtifactStore(client, storeCfg.BucketArtifacts)
		if err != nil {
			logger.Error("artifact store init failed", "error", err)
			os.Exit(2)
		}
		opts = append(opts, sweep.WithRecorder(artifactStore))
	}

	if resultsPath := env.String("SEGSWEEP_RESULTS_FILE", ""); resultsPath != "" {
		f, err := os.OpenFile(resultsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Error("open results file failed", "path", resultsPath, "error", err)
			os.Exit(2)
		}
		defer func() { _ = f.Close() }()
		opts = append(opts, sweep.WithRecorder(results.NewNDJSONExporter(f)))
	}

	driver, err := sweep.NewDriver(tr, opts...)
	if err != nil {
		logger.Error("driver init failed", "error", err)
		os.Exit(2)
	}
	if err := driver.Run(ctx, base, params); err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func buildTrainer(logger *slog.Logger) (trainer.Trainer, error) {
	if baseURL := env.String("SEGSWEEP_TRAINER_URL", ""); baseURL != "" {
		timeout, err := env.Duration("SEGSWEEP_TRAINER_TIMEOUT", 0)
		if err != nil {
			return nil, err
		}
		return trainer.NewClient(trainer.ClientConfig{
			BaseURL:           baseURL,
			Timeout:           timeout,
			InternalSecret:    env.String("SEGSWEEP_TRAINER_AUTH_SECRET", ""),
			OAuthTokenURL:     env.String("SEGSWEEP_TRAINER_OAUTH_TOKEN_URL", ""),
			OAuthClientID:     env.String("SEGSWEEP_TRAINER_OAUTH_CLIENT_ID", ""),
			OAuthClientSecret: env.String("SEGSWEEP_TRAINER_OAUTH_CLIENT_SECRET", ""),
		})
	}
	if bin := env.String("SEGSWEEP_TRAINER_CMD", ""); bin != "" {
		return trainer.NewCommand(bin, flag.Args()...)
	}
	logger.Info("no trainer configured", "env", "SEGSWEEP_TRAINER_CMD or SEGSWEEP_TRAINER_URL")
	return nil, errors.New("no trainer configured")
}
