// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package store

import (
	"context"

	"github.com/motiongranted/citeverify/gaps"
	"github.com/motiongranted/citeverify/grading"
	"github.com/motiongranted/citeverify/research"
	"github.com/motiongranted/citeverify/verification"
)

// Recorder durably records pipeline outcomes for audit. The pipeline never
// depends on it; the orchestrator wires one in when persistence is wanted.
type Recorder interface {
	RecordBatch(ctx context.Context, orderID string, batch *research.Batch) error
	RecordVerification(ctx context.Context, orderID string, result *verification.Result) error
	RecordHardRuleVerdict(ctx context.Context, orderID string, verdict *grading.HardRuleResult) error
	RecordGapResolution(ctx context.Context, orderID string, resolution *gaps.Resolution) error
	Close() error
}

// NopRecorder discards everything. Used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) RecordBatch(context.Context, string, *research.Batch) error { return nil }
func (NopRecorder) RecordVerification(context.Context, string, *verification.Result) error {
	return nil
}
func (NopRecorder) RecordHardRuleVerdict(context.Context, string, *grading.HardRuleResult) error {
	return nil
}
func (NopRecorder) RecordGapResolution(context.Context, string, *gaps.Resolution) error { return nil }
func (NopRecorder) Close() error                                                        { return nil }
