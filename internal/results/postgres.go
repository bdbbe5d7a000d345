// Package results persists completed sweep points: a Postgres run ledger, an
// NDJSON export stream, and object-storage uploads of the full histories.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/neuroseg-labs/segsweep/internal/domain"
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store persists sweep runs into Postgres.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

const schema = `CREATE TABLE IF NOT EXISTS sweep_runs (
	run_id TEXT PRIMARY KEY,
	sweep_id TEXT NOT NULL,
	input_channels TEXT NOT NULL,
	synthetic_ratio DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	best_epoch INTEGER,
	val_loss DOUBLE PRECISION,
	val_loss_crop DOUBLE PRECISION,
	val_dice DOUBLE PRECISION,
	val_dice_crop DOUBLE PRECISION,
	history JSONB,
	started_at TIMESTAMPTZ NOT NULL,
	ended_at TIMESTAMPTZ NOT NULL
)`

func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("results store not initialized")
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure sweep_runs schema: %w", err)
	}
	return nil
}

func (s *Store) RecordRun(ctx context.Context, record domain.RunRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("results store not initialized")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	var historyJSON []byte
	if record.History != nil {
		encoded, err := json.Marshal(record.History)
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		historyJSON = encoded
	}

	var bestEpoch sql.NullInt64
	var valLoss, valLossCrop, valDice, valDiceCrop sql.NullFloat64
	if record.Result != nil {
		bestEpoch = sql.NullInt64{Int64: int64(record.Result.BestEpoch), Valid: true}
		valLoss = sql.NullFloat64{Float64: record.Result.ValLoss, Valid: true}
		valLossCrop = sql.NullFloat64{Float64: record.Result.ValLossCrop, Valid: true}
		valDice = sql.NullFloat64{Float64: record.Result.ValDice, Valid: true}
		valDiceCrop = sql.NullFloat64{Float64: record.Result.ValDiceCrop, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sweep_runs (
			run_id,
			sweep_id,
			input_channels,
			synthetic_ratio,
			status,
			error,
			best_epoch,
			val_loss,
			val_loss_crop,
			val_dice,
			val_dice_crop,
			history,
			started_at,
			ended_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		record.ID,
		record.SweepID,
		record.InputChannels,
		record.SyntheticRatio,
		record.Status,
		nullIfEmpty(record.Error),
		bestEpoch,
		valLoss,
		valLossCrop,
		valDice,
		valDiceCrop,
		historyJSON,
		record.StartedAt.UTC(),
		record.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert sweep run: %w", err)
	}
	return nil
}

func nullIfEmpty(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
