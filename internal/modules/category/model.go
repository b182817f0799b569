package category

import (
	"time"

	"github.com/google/uuid"
)

// Category is one node of a two-level (parent -> child) hierarchy used to
// organise a business's products. ParentID is the single source of truth for
// depth: a category is a root iff ParentID is nil. The stored level column is
// always derived from it, never trusted on its own.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	BusinessID  uuid.UUID  `json:"business_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SortOrder   int        `json:"sort_order"`
	Level       int        `json:"level"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// deriveLevel is the only place depth is computed.
func deriveLevel(parentID *uuid.UUID) int {
	if parentID == nil {
		return 0
	}
	return 1
}

// Node is a root category with its children, for tree-shaped listings.
type Node struct {
	*Category
	Children []*Category `json:"children"`
}

// CreateCategoryRequest is the payload for creating or updating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
}
