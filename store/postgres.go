// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package store

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/motiongranted/citeverify/gaps"
	"github.com/motiongranted/citeverify/grading"
	"github.com/motiongranted/citeverify/research"
	"github.com/motiongranted/citeverify/verification"
)

const (
	tableBatches       = "civ_research_batches"
	tableVerifications = "civ_verification_results"
	tableHardRules     = "civ_hard_rule_verdicts"
	tableGapOutcomes   = "civ_gap_resolutions"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableBatches + ` (
		id UUID PRIMARY KEY,
		order_id TEXT NOT NULL,
		element TEXT NOT NULL,
		motion_type TEXT NOT NULL,
		tier TEXT NOT NULL,
		jurisdiction TEXT NOT NULL,
		query TEXT NOT NULL,
		status TEXT NOT NULL,
		candidates JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_civ_batches_order ON ` + tableBatches + ` (order_id)`,
	`CREATE TABLE IF NOT EXISTS ` + tableVerifications + ` (
		id UUID PRIMARY KEY,
		order_id TEXT NOT NULL,
		citation_text TEXT NOT NULL,
		cluster_id TEXT,
		stage1_result TEXT NOT NULL,
		stage2_result TEXT NOT NULL,
		status TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_civ_verifications_order ON ` + tableVerifications + ` (order_id)`,
	`CREATE TABLE IF NOT EXISTS ` + tableHardRules + ` (
		id UUID PRIMARY KEY,
		order_id TEXT NOT NULL,
		overridden_to_fail BOOLEAN NOT NULL,
		adjusted_score DOUBLE PRECISION NOT NULL,
		adjusted_passes BOOLEAN NOT NULL,
		violations JSONB NOT NULL,
		warnings JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableGapOutcomes + ` (
		id UUID PRIMARY KEY,
		order_id TEXT NOT NULL,
		element TEXT NOT NULL,
		section TEXT,
		resolved BOOLEAN NOT NULL,
		failure_reason TEXT,
		citations JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// PostgresRecorder persists pipeline outcomes to Postgres.
type PostgresRecorder struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// NewPostgresRecorder opens a connection, verifies it, and creates the
// schema if missing.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}

	recorder := &PostgresRecorder{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db.DB),
	}
	if err := recorder.ensureSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ensure schema")
	}
	return recorder, nil
}

func (r *PostgresRecorder) ensureSchema() error {
	for _, statement := range schemaStatements {
		if _, err := r.db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatch stores a research batch with its full candidate list as JSON.
func (r *PostgresRecorder) RecordBatch(ctx context.Context, orderID string, batch *research.Batch) error {
	candidates, err := json.Marshal(batch.Candidates)
	if err != nil {
		return errors.Wrap(err, "failed to marshal candidates")
	}

	_, err = r.builder.Insert(tableBatches).
		Columns("id", "order_id", "element", "motion_type", "tier", "jurisdiction", "query", "status", "candidates").
		Values(batch.ID, orderID, batch.Element, batch.MotionType, string(batch.Tier), batch.Jurisdiction, batch.Query, string(batch.Status), candidates).
		ExecContext(ctx)
	return errors.Wrap(err, "failed to insert research batch")
}

// RecordVerification stores one citation verification result.
func (r *PostgresRecorder) RecordVerification(ctx context.Context, orderID string, result *verification.Result) error {
	_, err := r.builder.Insert(tableVerifications).
		Columns("id", "order_id", "citation_text", "cluster_id", "stage1_result", "stage2_result", "status", "details").
		Values(uuid.NewString(), orderID, result.CitationText, result.ClusterID, string(result.Stage1Result), string(result.Stage2Result), string(result.Status), result.Details).
		ExecContext(ctx)
	return errors.Wrap(err, "failed to insert verification result")
}

// RecordHardRuleVerdict stores a hard-rule gate outcome.
func (r *PostgresRecorder) RecordHardRuleVerdict(ctx context.Context, orderID string, verdict *grading.HardRuleResult) error {
	violations, err := json.Marshal(verdict.Violations)
	if err != nil {
		return errors.Wrap(err, "failed to marshal violations")
	}
	warnings, err := json.Marshal(verdict.Warnings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal warnings")
	}

	_, err = r.builder.Insert(tableHardRules).
		Columns("id", "order_id", "overridden_to_fail", "adjusted_score", "adjusted_passes", "violations", "warnings").
		Values(uuid.NewString(), orderID, verdict.OverriddenToFail, verdict.AdjustedScore, verdict.AdjustedPasses, violations, warnings).
		ExecContext(ctx)
	return errors.Wrap(err, "failed to insert hard rule verdict")
}

// RecordGapResolution stores the outcome of one gap resolution attempt.
func (r *PostgresRecorder) RecordGapResolution(ctx context.Context, orderID string, resolution *gaps.Resolution) error {
	citations, err := json.Marshal(resolution.CitationsFound)
	if err != nil {
		return errors.Wrap(err, "failed to marshal citations")
	}

	_, err = r.builder.Insert(tableGapOutcomes).
		Columns("id", "order_id", "element", "section", "resolved", "failure_reason", "citations").
		Values(uuid.NewString(), orderID, resolution.Gap.Element, resolution.Gap.Section, resolution.Resolved, resolution.FailureReason, citations).
		ExecContext(ctx)
	return errors.Wrap(err, "failed to insert gap resolution")
}

// Close closes the underlying connection pool.
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
