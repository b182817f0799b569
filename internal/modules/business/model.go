package business

import (
	"time"

	"github.com/google/uuid"
)

// Type categorises what kind of merchant a business is.
type Type string

const (
	TypeRestaurant Type = "restaurant"
	TypeCafe       Type = "cafe"
	TypeShop       Type = "shop"
	TypeBar        Type = "bar"
	TypeOther      Type = "other"
)

// Business is the tenant entity. Every catalog, customer and order row is
// scoped to exactly one business, and every business has exactly one owner.
type Business struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Type           Type      `json:"type"`
	Description    string    `json:"description,omitempty"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	LogoURL        string    `json:"logo_url,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateBusinessRequest is the payload for registering a business.
type CreateBusinessRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Description    string `json:"description,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
}
