package reports

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKey = "reports:dashboard"
	cacheTTL = 5 * time.Minute
)

// Dashboard is the operational rollup served at /api/reports/dashboard.
type Dashboard struct {
	TotalPOs           int64     `json:"total_pos"`
	PendingPOs         int64     `json:"pending_pos"`
	TotalProcurement   int64     `json:"total_procurement"`
	TotalInventory     int64     `json:"total_inventory"`
	AvailableInventory int64     `json:"available_inventory"`
	TotalSales         int64     `json:"total_sales"`
	TotalInternalPaid  float64   `json:"total_internal_paid"`
	TotalExternalPaid  float64   `json:"total_external_paid"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Service aggregates the dashboard in SQL and caches the result in redis.
// Concurrent cache misses share a single recompute.
type Service struct {
	pool   *pgxpool.Pool
	cache  *redis.Client
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs the reports service. cache may be nil in tests.
func NewService(pool *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pool: pool, cache: cache, logger: logger}
}

// Dashboard returns the cached rollup, recomputing on miss.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached Dashboard
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}
	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		dashboard, err := s.compute(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		s.store(ctx, dashboard)
		return dashboard, nil
	})
	if err != nil {
		return Dashboard{}, err
	}
	return v.(Dashboard), nil
}

// Warm recomputes the rollup and refreshes the cache. Used by the background
// worker.
func (s *Service) Warm(ctx context.Context) error {
	dashboard, err := s.compute(ctx)
	if err != nil {
		return err
	}
	s.store(ctx, dashboard)
	return nil
}

func (s *Service) compute(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := s.pool.QueryRow(ctx, `SELECT
(SELECT COUNT(*) FROM purchase_orders),
(SELECT COUNT(*) FROM purchase_orders WHERE approval_status = 'Pending'),
(SELECT COUNT(*) FROM procurements),
(SELECT COUNT(*) FROM imei_inventory),
(SELECT COUNT(*) FROM imei_inventory WHERE status NOT IN ('sold', 'dispatched')),
(SELECT COUNT(*) FROM sales_orders),
(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_type = 'internal'),
(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_type = 'external')`).
		Scan(&d.TotalPOs, &d.PendingPOs, &d.TotalProcurement, &d.TotalInventory,
			&d.AvailableInventory, &d.TotalSales, &d.TotalInternalPaid, &d.TotalExternalPaid)
	if err != nil {
		return Dashboard{}, err
	}
	d.GeneratedAt = time.Now().UTC()
	return d, nil
}

func (s *Service) store(ctx context.Context, d Dashboard) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("cache dashboard", slog.Any("error", err))
	}
}
