package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// ListByBusiness returns categories ordered by (level, sort_order, created_at).
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Category, error)

	CountByBusiness(ctx context.Context, businessID uuid.UUID) (int, error)

	// HasChildren reports whether any category references id as its parent.
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)

	// HasProducts reports whether any product references id as its category.
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)

	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
