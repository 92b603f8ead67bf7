package payments

import (
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
	service, _, _ := newTestService(noopLocker{})
	handler := NewHandler(slog.Default(), service)
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), actor)))
		})
	})
	handler.MountRoutes(router)
	return router
}

func TestHandleCreateInternalRespondsOK(t *testing.T) {
	router := newTestRouter()

	body := `{"po_number":"PO-1234-567","amount":100000,"payee_name":"Nova Trading","payment_mode":"NEFT"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"payment_id"`)
	require.Contains(t, rec.Body.String(), `"Completed"`)
}

func TestHandleCreateExternalRespondsOKWithinCap(t *testing.T) {
	router := newTestRouter()

	internal := `{"po_number":"PO-1234-567","amount":100000}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal", strings.NewReader(internal)))
	require.Equal(t, http.StatusOK, rec.Code)

	external := `{"po_number":"PO-1234-567","amount":60000,"payee_type":"vendor"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/external", strings.NewReader(external)))
	require.Equal(t, http.StatusOK, rec.Code)

	over := `{"po_number":"PO-1234-567","amount":60000,"payee_type":"vendor"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/external", strings.NewReader(over)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "cannot exceed")
}
