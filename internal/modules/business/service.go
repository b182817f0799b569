package business

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

const (
	defaultPrimaryColor   = "#3B82F6"
	defaultSecondaryColor = "#1E40AF"
)

// Service defines business-tenant logic.
type Service interface {
	CreateBusiness(ctx context.Context, userID uuid.UUID, req CreateBusinessRequest) (*Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error)
	UpdateBusiness(ctx context.Context, userID uuid.UUID, req CreateBusinessRequest) (*Business, error)

	// ResolveForUser returns the business owned by the authenticated user.
	// This is the only business-id resolution strategy in the system.
	ResolveForUser(ctx context.Context, userID uuid.UUID) (*Business, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateBusiness(ctx context.Context, userID uuid.UUID, req CreateBusinessRequest) (*Business, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("business name is required")
	}
	btype, err := parseType(req.Type)
	if err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetByUserID(ctx, userID); err == nil && existing != nil {
		return nil, apperr.Conflict("user already owns business %q", existing.Name)
	}

	b := &Business{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Type:           btype,
		Description:    req.Description,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		PrimaryColor:   orDefault(req.PrimaryColor, defaultPrimaryColor),
		SecondaryColor: orDefault(req.SecondaryColor, defaultSecondaryColor),
		LogoURL:        req.LogoURL,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateBusiness(ctx context.Context, userID uuid.UUID, req CreateBusinessRequest) (*Business, error) {
	b, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		b.Name = name
	}
	if req.Type != "" {
		btype, err := parseType(req.Type)
		if err != nil {
			return nil, err
		}
		b.Type = btype
	}
	b.Description = req.Description
	b.Address = req.Address
	b.Phone = req.Phone
	b.Email = req.Email
	if req.PrimaryColor != "" {
		b.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != "" {
		b.SecondaryColor = req.SecondaryColor
	}
	if req.LogoURL != "" {
		b.LogoURL = req.LogoURL
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ResolveForUser(ctx context.Context, userID uuid.UUID) (*Business, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func parseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TypeRestaurant, TypeCafe, TypeShop, TypeBar, TypeOther:
		return t, nil
	case "":
		return TypeOther, nil
	default:
		return "", apperr.Validation("invalid business type: %s (allowed: restaurant, cafe, shop, bar, other)", raw)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
