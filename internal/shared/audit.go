package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents a record stored in audit_logs.
type AuditLog struct {
	LogID      string         `json:"log_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name"`
	Details    map[string]any `json:"details"`
	Timestamp  time.Time      `json:"timestamp"`
}

// AuditLogger writes records into audit_logs. Recording is best-effort: a
// failed write is logged and must never fail the triggering operation.
type AuditLogger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool, logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{pool: pool, logger: logger}
}

// Record persists the log entry. The returned error is informational; callers
// are expected to ignore it for business flows.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.pool == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.EntityType == "" || log.EntityID == "" {
		return errors.New("audit log requires action/entity_type/entity_id")
	}
	if log.LogID == "" {
		log.LogID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO audit_logs (log_id, action, entity_type, entity_id, user_id, user_name, details, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.LogID, log.Action, log.EntityType, log.EntityID, log.UserID, log.UserName, detailsJSON, log.Timestamp)
	if err != nil {
		l.logger.Error("record audit log", slog.String("action", log.Action), slog.Any("error", err))
	}
	return err
}

// List returns recent entries, newest first.
func (l *AuditLogger) List(ctx context.Context, limit int) ([]AuditLog, error) {
	if l == nil || l.pool == nil {
		return nil, errors.New("audit logger not initialised")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.pool.Query(ctx, `SELECT log_id, action, entity_type, entity_id, user_id, user_name, details, occurred_at
FROM audit_logs ORDER BY occurred_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []AuditLog
	for rows.Next() {
		var entry AuditLog
		var details []byte
		if err := rows.Scan(&entry.LogID, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.UserID, &entry.UserName, &details, &entry.Timestamp); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			_ = json.Unmarshal(details, &entry.Details)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// Prune removes entries older than the retention window.
func (l *AuditLogger) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if l == nil || l.pool == nil {
		return 0, errors.New("audit logger not initialised")
	}
	cutoff := time.Now().Add(-olderThan)
	tag, err := l.pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
