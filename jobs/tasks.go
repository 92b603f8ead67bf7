package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditRetention prunes audit log entries past the retention window.
	TaskAuditRetention = "audit:retention"
	// TaskReportsWarmup recomputes the dashboard rollup into the cache.
	TaskReportsWarmup = "reports:warmup"
)

// AuditRetentionPayload carries the retention window in hours.
type AuditRetentionPayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewAuditRetentionTask constructs an audit retention task.
func NewAuditRetentionTask(payload AuditRetentionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}

// ReportsWarmupPayload is currently empty but kept versionable.
type ReportsWarmupPayload struct{}

// NewReportsWarmupTask constructs a dashboard warmup task.
func NewReportsWarmupTask() (*asynq.Task, error) {
	data, err := json.Marshal(ReportsWarmupPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}
