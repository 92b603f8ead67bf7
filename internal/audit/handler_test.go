package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/shared"
)

type stubLog struct {
	entries []shared.AuditLog
}

func (s *stubLog) List(_ context.Context, _ int) ([]shared.AuditLog, error) {
	return s.entries, nil
}

func TestHandleList(t *testing.T) {
	log := &stubLog{entries: []shared.AuditLog{{
		LogID:      "l-1",
		Action:     "create",
		EntityType: "purchase_order",
		EntityID:   "PO-1234-567",
		UserName:   "Admin",
		Timestamp:  time.Now().UTC(),
	}}}
	router := chi.NewRouter()
	NewHandler(slog.Default(), log).MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []shared.AuditLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "purchase_order", got[0].EntityType)
}

func TestHandleListEmpty(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(slog.Default(), &stubLog{}).MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}
