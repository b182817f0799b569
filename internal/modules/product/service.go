package product

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Service defines product catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, businessID uuid.UUID, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, businessID, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]*Product, error)
	ListLowStock(ctx context.Context, businessID uuid.UUID) ([]*Product, error)
	UpdateProduct(ctx context.Context, businessID, id uuid.UUID, req CreateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, businessID, id uuid.UUID) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, businessID uuid.UUID, req CreateProductRequest) (*Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "pcs"
	}

	p := &Product{
		ID:            uuid.New(),
		BusinessID:    businessID,
		CategoryID:    categoryID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		Cost:          req.Cost,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Unit:          unit,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, businessID, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.BusinessID != businessID {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]*Product, error) {
	return s.repo.ListByBusiness(ctx, businessID, filter)
}

func (s *service) ListLowStock(ctx context.Context, businessID uuid.UUID) ([]*Product, error) {
	return s.repo.ListLowStock(ctx, businessID)
}

func (s *service) UpdateProduct(ctx context.Context, businessID, id uuid.UUID, req CreateProductRequest) (*Product, error) {
	p, err := s.GetProduct(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		return nil, err
	}

	p.CategoryID = categoryID
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.Cost = req.Cost
	p.SKU = req.SKU
	p.Barcode = req.Barcode
	p.StockQuantity = req.StockQuantity
	p.MinStockLevel = req.MinStockLevel
	if unit := strings.TrimSpace(req.Unit); unit != "" {
		p.Unit = unit
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, businessID, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, businessID, id); err != nil {
		return err
	}
	// A product referenced by order items trips the FK constraint, which the
	// repository surfaces as a Conflict.
	return s.repo.Delete(ctx, id)
}

func validate(req CreateProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("product name is required")
	}
	if req.Price < 0 {
		return apperr.Validation("price cannot be negative")
	}
	if req.Cost < 0 {
		return apperr.Validation("cost cannot be negative")
	}
	if req.StockQuantity < 0 {
		return apperr.Validation("stock quantity cannot be negative")
	}
	return nil
}

func parseOptionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s: %s", field, raw)
	}
	return &id, nil
}
