package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	calls int
	err   error
}

func (s *stubEnqueuer) EnqueueReportsWarmup(context.Context) (*asynq.TaskInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "t-1", Queue: QueueDefault, Type: TaskReportsWarmup}, nil
}

func newHandlerRouter(warmups WarmupEnqueuer) chi.Router {
	router := chi.NewRouter()
	NewHandler(nil, warmups, slog.Default()).MountRoutes(router)
	return router
}

func TestEnqueueWarmupAccepted(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	router := newHandlerRouter(enqueuer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports-warmup", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, enqueuer.calls)
	require.Contains(t, rec.Body.String(), `"task_id":"t-1"`)
}

func TestEnqueueWarmupUnavailableWhenQueueDown(t *testing.T) {
	router := newHandlerRouter(&stubEnqueuer{err: errors.New("redis down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports-warmup", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEnqueueWarmupUnavailableWithoutClient(t *testing.T) {
	router := newHandlerRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reports-warmup", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
