package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Period selects the time window for a summary. "all" means no lower bound.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// Summary aggregates a business's sales figures over a period.
type Summary struct {
	BusinessID      uuid.UUID `json:"business_id"`
	Period          Period    `json:"period"`
	Revenue         float64   `json:"revenue"`
	OrderCount      int       `json:"order_count"`
	CompletedOrders int       `json:"completed_orders"`
	CustomerCount   int       `json:"customer_count"`
	ProductCount    int       `json:"product_count"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Repository defines the aggregate queries backing summaries.
type Repository interface {
	// OrderStats returns total completed-order revenue, the number of orders
	// and the number of completed orders since the given time. A zero time
	// means all-time.
	OrderStats(ctx context.Context, businessID uuid.UUID, since time.Time) (revenue float64, orders, completed int, err error)

	CountCustomers(ctx context.Context, businessID uuid.UUID) (int, error)
	CountProducts(ctx context.Context, businessID uuid.UUID) (int, error)
}
