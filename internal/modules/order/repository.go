package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists an order and all its items in a single transaction.
	// Either everything lands or nothing does; an order can never exist with
	// a partial item set.
	CreateOrder(ctx context.Context, o *Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListByBusiness returns orders for a business, newest first, optionally
	// filtered by status.
	ListByBusiness(ctx context.Context, businessID uuid.UUID, status string) ([]*Order, error)

	// OrderNumberExists probes whether a generated order number is taken.
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)

	// UpdateStatus advances an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
