package purchase

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/shared"
)

func newTestRouter() chi.Router {
	service := NewService(newMemoryRepo(), nil)
	handler := NewHandler(slog.Default(), service)
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.Identity{UserID: "u-1", Name: "Ops User", Organization: "Magnova"}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
		})
	})
	handler.MountRoutes(router)
	return router
}

func TestHandleCreateRespondsOK(t *testing.T) {
	router := newTestRouter()

	body := `{"po_date":"2026-08-01","purchase_office":"Mumbai","items":[
		{"vendor":"Tech Supplies Inc","location":"Mumbai","brand":"Apple","model":"iPhone 15","qty":5,"rate":50000}
	]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var po PurchaseOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &po))
	require.Regexp(t, `^PO-\d{4}-\d{3}$`, po.Number)
	require.Equal(t, 5, po.TotalQuantity)
	require.Equal(t, 250000.0, po.TotalValue)
	require.Equal(t, ApprovalPending, po.ApprovalStatus)
}

func TestHandleCreateRejectsEmptyItems(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[]}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
