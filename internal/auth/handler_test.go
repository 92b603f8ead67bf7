package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (chi.Router, *memoryRepo) {
	repo := newMemoryRepo()
	service := NewService(repo, NewTokenManager("test-secret", time.Hour))
	handler := NewHandler(slog.Default(), service)
	router := chi.NewRouter()
	handler.MountRoutes(router)
	return router, repo
}

func TestHandleRegisterReturnsTokenAndUser(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"email":"stores@nova.com","name":"Stores","organization":"Nova","password":"nova123"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        User   `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, "stores@nova.com", resp.User.Email)
	require.NotContains(t, rec.Body.String(), "password_hash")
}

func TestHandleRegisterRejectsShortPassword(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"email":"stores@nova.com","name":"Stores","password":"pw"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLoginAfterRegister(t *testing.T) {
	router, _ := newTestRouter()

	register := `{"email":"ops@magnova.com","name":"Ops","password":"supersecret"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(register)))
	require.Equal(t, http.StatusOK, rec.Code)

	login := `{"email":"ops@magnova.com","password":"supersecret"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(login)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "access_token")
}
