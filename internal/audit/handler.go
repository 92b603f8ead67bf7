package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/magnova/magnova-procure/internal/platform/httpx"
	"github.com/magnova/magnova-procure/internal/shared"
)

// Log is the read side of the audit trail.
type Log interface {
	List(ctx context.Context, limit int) ([]shared.AuditLog, error)
}

// Handler exposes the audit log listing.
type Handler struct {
	logger *slog.Logger
	log    Log
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, log Log) *Handler {
	return &Handler{logger: logger, log: log}
}

// MountRoutes registers audit log routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.log.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list audit logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if logs == nil {
		logs = []shared.AuditLog{}
	}
	httpx.JSON(w, http.StatusOK, logs)
}
