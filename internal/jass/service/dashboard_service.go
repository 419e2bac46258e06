package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService aggregates the numbers the board sees on login. Results
// are cached briefly in Redis; the dashboard is read far more often than
// the underlying data changes.
type DashboardService struct {
	incidents *repository.IncidentRepository
	products  *repository.ProductRepository
	payments  *repository.PaymentRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewDashboardService(
	incidents *repository.IncidentRepository,
	products *repository.ProductRepository,
	payments *repository.PaymentRepository,
	rdb *redis.Client,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		incidents: incidents,
		products:  products,
		payments:  payments,
		rdb:       rdb,
		logger:    logger,
	}
}

// Dashboard is the aggregated snapshot for one organization.
type Dashboard struct {
	IncidentsByStatus   map[string]int64 `json:"incidents_by_status"`
	IncidentsByCategory map[string]int64 `json:"incidents_by_category"`
	OpenIncidents       int64            `json:"open_incidents"`
	LowStockProducts    int              `json:"low_stock_products"`
	CollectedThisMonth  string           `json:"collected_this_month"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

func (s *DashboardService) Get(ctx context.Context, orgID string) (*Dashboard, error) {
	cacheKey := "dashboard:" + orgID
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var dash Dashboard
			if err := json.Unmarshal([]byte(cached), &dash); err == nil {
				return &dash, nil
			}
		}
	}

	byStatus, err := s.incidents.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.incidents.CountByCategory(ctx, orgID)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.FindLowStock(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	collected, err := s.payments.SumCollected(ctx, orgID, monthStart, now)
	if err != nil {
		return nil, err
	}

	var open int64
	for status, count := range byStatus {
		if status != "RESOLVED" && status != "CLOSED" {
			open += count
		}
	}

	dash := &Dashboard{
		IncidentsByStatus:   byStatus,
		IncidentsByCategory: byCategory,
		OpenIncidents:       open,
		LowStockProducts:    len(lowStock),
		CollectedThisMonth:  collected.StringFixed(2),
		GeneratedAt:         now,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(dash); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				s.logger.Debug("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return dash, nil
}

// Invalidate drops the cached snapshot; called after writes that should be
// visible immediately.
func (s *DashboardService) Invalidate(ctx context.Context, orgID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, "dashboard:"+orgID)
	}
}
