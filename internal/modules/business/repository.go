package business

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for businesses.
type Repository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*Business, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Business, error)
	Update(ctx context.Context, b *Business) error
}
