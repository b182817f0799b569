package product

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog item, scoped to one business.
type Product struct {
	ID            uuid.UUID  `json:"id"`
	BusinessID    uuid.UUID  `json:"business_id"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price"`
	Cost          float64    `json:"cost"`
	SKU           string     `json:"sku,omitempty"`
	Barcode       string     `json:"barcode,omitempty"`
	StockQuantity int        `json:"stock_quantity"`
	MinStockLevel int        `json:"min_stock_level"`
	Unit          string     `json:"unit"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateProductRequest is the payload for creating or updating a product.
type CreateProductRequest struct {
	CategoryID    string  `json:"category_id,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	Cost          float64 `json:"cost,omitempty"`
	SKU           string  `json:"sku,omitempty"`
	Barcode       string  `json:"barcode,omitempty"`
	StockQuantity int     `json:"stock_quantity,omitempty"`
	MinStockLevel int     `json:"min_stock_level,omitempty"`
	Unit          string  `json:"unit,omitempty"`
}
