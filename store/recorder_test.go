// Copyright (c) 2025-present Motion Granted, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/motiongranted/citeverify/gaps"
	"github.com/motiongranted/citeverify/grading"
	"github.com/motiongranted/citeverify/research"
	"github.com/motiongranted/citeverify/verification"
)

func TestNopRecorder(t *testing.T) {
	var recorder Recorder = NopRecorder{}
	ctx := context.Background()

	assert.NoError(t, recorder.RecordBatch(ctx, "order-1", &research.Batch{}))
	assert.NoError(t, recorder.RecordVerification(ctx, "order-1", &verification.Result{}))
	assert.NoError(t, recorder.RecordHardRuleVerdict(ctx, "order-1", &grading.HardRuleResult{}))
	assert.NoError(t, recorder.RecordGapResolution(ctx, "order-1", &gaps.Resolution{}))
	assert.NoError(t, recorder.Close())
}
