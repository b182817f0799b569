package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// Service defines category tree business logic.
type Service interface {
	CreateCategory(ctx context.Context, businessID uuid.UUID, req CreateCategoryRequest) (*Category, error)
	GetCategory(ctx context.Context, businessID, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, businessID uuid.UUID) ([]*Category, error)

	// CategoryTree groups children under their roots, both levels ordered by
	// sort position.
	CategoryTree(ctx context.Context, businessID uuid.UUID) ([]*Node, error)

	UpdateCategory(ctx context.Context, businessID, id uuid.UUID, req CreateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, businessID, id uuid.UUID) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCategory(ctx context.Context, businessID uuid.UUID, req CreateCategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	parentID, err := s.resolveParent(ctx, businessID, req.ParentID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	c := &Category{
		ID:          uuid.New(),
		BusinessID:  businessID,
		ParentID:    parentID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		SortOrder:   count + 1,
		Level:       deriveLevel(parentID),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, businessID, id uuid.UUID) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.BusinessID != businessID {
		return nil, apperr.NotFound("category not found")
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context, businessID uuid.UUID) ([]*Category, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

func (s *service) CategoryTree(ctx context.Context, businessID uuid.UUID) ([]*Node, error) {
	categories, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return buildTree(categories), nil
}

func (s *service) UpdateCategory(ctx context.Context, businessID, id uuid.UUID, req CreateCategoryRequest) (*Category, error) {
	c, err := s.GetCategory(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		c.Name = name
	} else if req.Name != "" {
		return nil, apperr.Validation("category name is required")
	}
	c.Description = strings.TrimSpace(req.Description)

	parentID, err := s.resolveParent(ctx, businessID, req.ParentID)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if *parentID == c.ID {
			return nil, apperr.Validation("category cannot be its own parent")
		}
		// A category with children must stay a root, otherwise its children
		// would end up below the supported depth.
		hasChildren, err := s.repo.HasChildren(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if hasChildren {
			return nil, apperr.Conflict("category has subcategories and cannot become a subcategory itself")
		}
	}
	c.ParentID = parentID
	c.Level = deriveLevel(parentID)

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, businessID, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, businessID, id); err != nil {
		return err
	}
	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperr.Conflict("category has subcategories; delete or move them first")
	}
	hasProducts, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return apperr.Conflict("category is assigned to products; reassign them first")
	}
	return s.repo.Delete(ctx, id)
}

// resolveParent validates a requested parent id: it must exist, belong to the
// same business and itself be a root. The hierarchy is two levels deep, full stop.
func (s *service) resolveParent(ctx context.Context, businessID uuid.UUID, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	pid, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid parent_id: %s", raw)
	}
	parent, err := s.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, apperr.Validation("parent category does not exist")
	}
	if parent.BusinessID != businessID {
		return nil, apperr.Validation("parent category does not exist")
	}
	if parent.ParentID != nil {
		return nil, apperr.Validation("cannot nest under a subcategory; only two levels are supported")
	}
	return &pid, nil
}

// buildTree groups children under their parents. Input is already ordered by
// (level, sort_order), so roots come first and both levels stay sorted.
// A child whose parent is missing from the listing is surfaced as a root
// rather than dropped.
func buildTree(categories []*Category) []*Node {
	nodes := make([]*Node, 0, len(categories))
	index := make(map[uuid.UUID]*Node, len(categories))

	for _, c := range categories {
		if c.ParentID == nil {
			n := &Node{Category: c, Children: []*Category{}}
			index[c.ID] = n
			nodes = append(nodes, n)
		}
	}
	for _, c := range categories {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := index[*c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		} else {
			nodes = append(nodes, &Node{Category: c, Children: []*Category{}})
		}
	}
	return nodes
}
