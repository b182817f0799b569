package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Service defines customer management logic.
type Service interface {
	CreateCustomer(ctx context.Context, businessID uuid.UUID, req CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, businessID, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context, businessID uuid.UUID, search string) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, businessID, id uuid.UUID, req CreateCustomerRequest) (*Customer, error)
	AwardLoyaltyPoints(ctx context.Context, businessID, id uuid.UUID, points int) (*Customer, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCustomer(ctx context.Context, businessID uuid.UUID, req CreateCustomerRequest) (*Customer, error) {
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, apperr.Validation("customer first name is required")
	}
	c := &Customer{
		ID:         uuid.New(),
		BusinessID: businessID,
		FirstName:  firstName,
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Address:    req.Address,
		Notes:      req.Notes,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, businessID, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.BusinessID != businessID {
		return nil, apperr.NotFound("customer not found")
	}
	return c, nil
}

func (s *service) ListCustomers(ctx context.Context, businessID uuid.UUID, search string) ([]*Customer, error) {
	return s.repo.ListByBusiness(ctx, businessID, strings.TrimSpace(search))
}

func (s *service) UpdateCustomer(ctx context.Context, businessID, id uuid.UUID, req CreateCustomerRequest) (*Customer, error) {
	c, err := s.GetCustomer(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, apperr.Validation("customer first name is required")
	}
	c.FirstName = firstName
	c.LastName = strings.TrimSpace(req.LastName)
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Address = req.Address
	c.Notes = req.Notes
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) AwardLoyaltyPoints(ctx context.Context, businessID, id uuid.UUID, points int) (*Customer, error) {
	if points <= 0 {
		return nil, apperr.Validation("points must be greater than zero")
	}
	if _, err := s.GetCustomer(ctx, businessID, id); err != nil {
		return nil, err
	}
	if err := s.repo.AddLoyaltyPoints(ctx, id, points); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
