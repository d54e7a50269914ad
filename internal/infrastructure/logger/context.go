package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// RunIDKey is the context key for the sync run ID
	RunIDKey contextKey = "run_id"
	// JobKey is the context key for the job name
	JobKey contextKey = "job"
)

// WithRun tags the context with a fresh run ID and the job name, and
// returns a logger enriched with both. Every log line and SQL trace of
// one job run then carries the same run_id.
func WithRun(ctx context.Context, logger *zap.Logger, job string) (context.Context, *zap.Logger) {
	runID := uuid.NewString()
	ctx = context.WithValue(ctx, RunIDKey, runID)
	ctx = context.WithValue(ctx, JobKey, job)
	enriched := logger.With(
		zap.String("run_id", runID),
		zap.String("job", job),
	)
	return ctx, enriched
}

// GetRunID retrieves the sync run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetJob retrieves the job name from context
func GetJob(ctx context.Context) string {
	if job, ok := ctx.Value(JobKey).(string); ok {
		return job
	}
	return ""
}
