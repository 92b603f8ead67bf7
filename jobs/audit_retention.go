package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// AuditPruner deletes audit entries older than the retention window.
type AuditPruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AuditRetentionJob enforces the audit log retention window.
type AuditRetentionJob struct {
	Audit  AuditPruner
	Logger *slog.Logger
}

// NewAuditRetentionJob wires dependencies for the retention handler.
func NewAuditRetentionJob(audit AuditPruner, logger *slog.Logger) *AuditRetentionJob {
	return &AuditRetentionJob{Audit: audit, Logger: logger}
}

// Handle processes TaskAuditRetention tasks.
func (j *AuditRetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("audit retention: handler not configured")
	}
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionHours <= 0 {
		payload.RetentionHours = 90 * 24
	}

	logger := j.logger().With(slog.Int("retention_hours", payload.RetentionHours))
	logger.Info("starting audit retention sweep")

	pruneCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := j.Audit.Prune(pruneCtx, time.Duration(payload.RetentionHours)*time.Hour)
	if err != nil {
		logger.Error("prune audit logs", slog.Any("error", err))
		return err
	}
	logger.Info("completed audit retention sweep", slog.Int64("removed", removed))
	return nil
}

func (j *AuditRetentionJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAuditRetention))
	}
	return slog.Default().With(slog.String("job", TaskAuditRetention))
}
