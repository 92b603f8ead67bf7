package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// DashboardWarmer recomputes the dashboard rollup into the cache.
type DashboardWarmer interface {
	Warm(ctx context.Context) error
}

// ReportsWarmupJob keeps the dashboard cache hot between requests.
type ReportsWarmupJob struct {
	Reports DashboardWarmer
	Logger  *slog.Logger
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(reports DashboardWarmer, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{Reports: reports, Logger: logger}
}

// Handle processes TaskReportsWarmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports warmup: handler not configured")
	}

	logger := j.logger()
	logger.Info("starting dashboard warmup")

	warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	started := time.Now()
	if err := j.Reports.Warm(warmCtx); err != nil {
		logger.Error("warm dashboard", slog.Any("error", err))
		return err
	}
	logger.Info("completed dashboard warmup", slog.Duration("duration", time.Since(started)))
	return nil
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmup))
}
