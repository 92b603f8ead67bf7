package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/magnova/magnova-procure/internal/audit"
	"github.com/magnova/magnova-procure/internal/auth"
	"github.com/magnova/magnova-procure/internal/inventory"
	"github.com/magnova/magnova-procure/internal/invoices"
	"github.com/magnova/magnova-procure/internal/logistics"
	"github.com/magnova/magnova-procure/internal/observability"
	"github.com/magnova/magnova-procure/internal/payments"
	"github.com/magnova/magnova-procure/internal/procurement"
	"github.com/magnova/magnova-procure/internal/purchase"
	"github.com/magnova/magnova-procure/internal/reports"
	"github.com/magnova/magnova-procure/internal/sales"
	"github.com/magnova/magnova-procure/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Tokens             *auth.TokenManager
	AuthHandler        *auth.Handler
	PurchaseHandler    *purchase.Handler
	PaymentsHandler    *payments.Handler
	InventoryHandler   *inventory.Handler
	ProcurementHandler *procurement.Handler
	LogisticsHandler   *logistics.Handler
	InvoicesHandler    *invoices.Handler
	SalesHandler       *sales.Handler
	ReportsHandler     *reports.Handler
	AuditHandler       *audit.Handler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with the API surface under /api.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(params.Tokens.RequireAuth)
				params.AuthHandler.MountProtected(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(params.Tokens.RequireAuth)
			r.Route("/purchase-orders", params.PurchaseHandler.MountRoutes)
			r.Route("/payments", params.PaymentsHandler.MountRoutes)
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
			r.Route("/procurement", params.ProcurementHandler.MountRoutes)
			r.Route("/logistics/shipments", params.LogisticsHandler.MountRoutes)
			r.Route("/invoices", params.InvoicesHandler.MountRoutes)
			r.Route("/sales-orders", params.SalesHandler.MountRoutes)
			r.Route("/reports", params.ReportsHandler.MountRoutes)
			r.Route("/audit-logs", params.AuditHandler.MountRoutes)
			if params.JobsHandler != nil {
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
