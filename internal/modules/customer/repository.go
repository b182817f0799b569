package customer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// ListByBusiness returns customers, optionally filtered by a name/phone
	// search term.
	ListByBusiness(ctx context.Context, businessID uuid.UUID, search string) ([]*Customer, error)

	Update(ctx context.Context, c *Customer) error
	AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) error
}
