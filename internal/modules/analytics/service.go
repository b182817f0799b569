package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
	"github.com/tilldesk/tilldesk-backend/internal/platform/cache"
)

const summaryTTL = 60 * time.Second

// Service defines sales analytics logic.
type Service interface {
	Summary(ctx context.Context, businessID uuid.UUID, period string) (*Summary, error)
}

type service struct {
	repo  Repository
	cache *cache.Cache // nil disables caching
	now   func() time.Time
}

// NewService creates a new analytics service. cache may be nil.
func NewService(repo Repository, c *cache.Cache) Service {
	return &service{repo: repo, cache: c, now: time.Now}
}

func (s *service) Summary(ctx context.Context, businessID uuid.UUID, period string) (*Summary, error) {
	p, since, err := s.parsePeriod(period)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("analytics:summary:%s:%s", businessID, p)
	cached := &Summary{}
	if hit, err := s.cache.GetJSON(ctx, key, cached); err == nil && hit {
		return cached, nil
	}

	revenue, orders, completed, err := s.repo.OrderStats(ctx, businessID, since)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.CountCustomers(ctx, businessID)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.CountProducts(ctx, businessID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		BusinessID:      businessID,
		Period:          p,
		Revenue:         revenue,
		OrderCount:      orders,
		CompletedOrders: completed,
		CustomerCount:   customers,
		ProductCount:    products,
		GeneratedAt:     s.now().UTC(),
	}

	// Cache failures are not worth failing the request over.
	_ = s.cache.SetJSON(ctx, key, summary, summaryTTL)
	return summary, nil
}

// parsePeriod maps a period name to its window start. The window genuinely
// filters the aggregate query.
func (s *service) parsePeriod(raw string) (Period, time.Time, error) {
	now := s.now()
	switch Period(raw) {
	case PeriodToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return PeriodToday, start, nil
	case PeriodWeek:
		return PeriodWeek, now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return PeriodMonth, now.AddDate(0, -1, 0), nil
	case PeriodAll, "":
		return PeriodAll, time.Time{}, nil
	default:
		return "", time.Time{}, apperr.Validation("invalid period: %s (allowed: today, week, month, all)", raw)
	}
}
