package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubPruner struct {
	olderThan time.Duration
	removed   int64
	err       error
	calls     int
}

func (s *stubPruner) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.calls++
	s.olderThan = olderThan
	return s.removed, s.err
}

type stubWarmer struct {
	calls int
	err   error
}

func (s *stubWarmer) Warm(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestAuditRetentionPrunesWithPayloadWindow(t *testing.T) {
	pruner := &stubPruner{removed: 42}
	job := NewAuditRetentionJob(pruner, nil)

	task, err := NewAuditRetentionTask(AuditRetentionPayload{RetentionHours: 48})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, pruner.calls)
	require.Equal(t, 48*time.Hour, pruner.olderThan)
}

func TestAuditRetentionDefaultsToNinetyDays(t *testing.T) {
	pruner := &stubPruner{}
	job := NewAuditRetentionJob(pruner, nil)

	task, err := NewAuditRetentionTask(AuditRetentionPayload{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 90*24*time.Hour, pruner.olderThan)
}

func TestAuditRetentionSkipsRetryOnBadPayload(t *testing.T) {
	pruner := &stubPruner{}
	job := NewAuditRetentionJob(pruner, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskAuditRetention, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, pruner.calls)
}

func TestAuditRetentionPropagatesPruneError(t *testing.T) {
	pruner := &stubPruner{err: errors.New("boom")}
	job := NewAuditRetentionJob(pruner, nil)

	task, err := NewAuditRetentionTask(AuditRetentionPayload{RetentionHours: 1})
	require.NoError(t, err)

	require.Error(t, job.Handle(context.Background(), task))
}

func TestReportsWarmupInvokesService(t *testing.T) {
	warmer := &stubWarmer{}
	job := NewReportsWarmupJob(warmer, nil)

	task, err := NewReportsWarmupTask()
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, warmer.calls)
}

func TestReportsWarmupPropagatesError(t *testing.T) {
	warmer := &stubWarmer{err: errors.New("db down")}
	job := NewReportsWarmupJob(warmer, nil)

	task, err := NewReportsWarmupTask()
	require.NoError(t, err)

	require.Error(t, job.Handle(context.Background(), task))
}
