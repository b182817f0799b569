package product

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a product listing.
type ListFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// Repository defines data access for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]*Product, error)

	// ListLowStock returns active products at or below their minimum stock level.
	ListLowStock(ctx context.Context, businessID uuid.UUID) ([]*Product, error)

	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
