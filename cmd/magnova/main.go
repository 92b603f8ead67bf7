package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/magnova/magnova-procure/internal/app"
	"github.com/magnova/magnova-procure/internal/audit"
	"github.com/magnova/magnova-procure/internal/auth"
	"github.com/magnova/magnova-procure/internal/inventory"
	"github.com/magnova/magnova-procure/internal/invoices"
	"github.com/magnova/magnova-procure/internal/logistics"
	"github.com/magnova/magnova-procure/internal/observability"
	"github.com/magnova/magnova-procure/internal/payments"
	"github.com/magnova/magnova-procure/internal/platform/cache"
	"github.com/magnova/magnova-procure/internal/platform/db"
	"github.com/magnova/magnova-procure/internal/procurement"
	"github.com/magnova/magnova-procure/internal/purchase"
	"github.com/magnova/magnova-procure/internal/reports"
	"github.com/magnova/magnova-procure/internal/sales"
	"github.com/magnova/magnova-procure/internal/shared"
	"github.com/magnova/magnova-procure/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	auditLogger := shared.NewAuditLogger(pool, logger)
	locks := shared.NewRedisLockManager(redisClient)
	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService)

	purchaseRepo := purchase.NewRepository(pool)
	purchaseService := purchase.NewService(purchaseRepo, auditLogger)
	purchaseHandler := purchase.NewHandler(logger, purchaseService)

	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentsRepo, purchaseService, locks, auditLogger)
	paymentsService.SetMetrics(metrics)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, auditLogger)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(procurementRepo, inventoryService, auditLogger)
	procurementHandler := procurement.NewHandler(logger, procurementService)

	logisticsRepo := logistics.NewRepository(pool)
	logisticsService := logistics.NewService(logisticsRepo, auditLogger)
	logisticsHandler := logistics.NewHandler(logger, logisticsService)

	invoicesRepo := invoices.NewRepository(pool)
	invoicesService := invoices.NewService(invoicesRepo, auditLogger)
	invoicesHandler := invoices.NewHandler(logger, invoicesService)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, auditLogger)
	salesHandler := sales.NewHandler(logger, salesService)

	reportsService := reports.NewService(pool, redisClient, logger)
	reportsHandler := reports.NewHandler(logger, reportsService)

	auditHandler := audit.NewHandler(logger, auditLogger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Tokens:             tokens,
		AuthHandler:        authHandler,
		PurchaseHandler:    purchaseHandler,
		PaymentsHandler:    paymentsHandler,
		InventoryHandler:   inventoryHandler,
		ProcurementHandler: procurementHandler,
		LogisticsHandler:   logisticsHandler,
		InvoicesHandler:    invoicesHandler,
		SalesHandler:       salesHandler,
		ReportsHandler:     reportsHandler,
		AuditHandler:       auditHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
