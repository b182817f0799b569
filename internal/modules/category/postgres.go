package category

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories
		  (id, business_id, parent_id, name, description, sort_order, level, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.BusinessID, c.ParentID, c.Name, c.Description, c.SortOrder, c.Level, c.IsActive)
	return apperr.FromPostgres(err, "create category")
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, selectCategory+` WHERE id=$1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, apperr.FromPostgres(err, "load category")
	}
	return c, nil
}

func (r *postgresRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		selectCategory+` WHERE business_id=$1 ORDER BY level ASC, sort_order ASC, created_at ASC`,
		businessID)
	if err != nil {
		return nil, apperr.FromPostgres(err, "list categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, apperr.FromPostgres(err, "list categories")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) CountByBusiness(ctx context.Context, businessID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE business_id=$1`, businessID).Scan(&n)
	if err != nil {
		return 0, apperr.FromPostgres(err, "count categories")
	}
	return n, nil
}

func (r *postgresRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id=$1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.FromPostgres(err, "check subcategories")
	}
	return exists, nil
}

func (r *postgresRepo) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE category_id=$1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.FromPostgres(err, "check category products")
	}
	return exists, nil
}

func (r *postgresRepo) Update(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET parent_id=$1, name=$2, description=$3, sort_order=$4, level=$5,
		    is_active=$6, updated_at=NOW()
		WHERE id=$7`,
		c.ParentID, c.Name, c.Description, c.SortOrder, c.Level, c.IsActive, c.ID)
	return apperr.FromPostgres(err, "update category")
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return apperr.FromPostgres(err, "delete category")
}

const selectCategory = `
	SELECT id, business_id, parent_id, name, description, sort_order, level,
	       is_active, created_at, updated_at
	FROM categories`

func scanCategory(scan func(...interface{}) error) (*Category, error) {
	c := &Category{}
	var parentID sql.NullString
	var description sql.NullString
	err := scan(&c.ID, &c.BusinessID, &parentID, &c.Name, &description,
		&c.SortOrder, &c.Level, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		pid, err := uuid.Parse(parentID.String)
		if err == nil {
			c.ParentID = &pid
		}
	}
	c.Description = description.String
	// Depth always follows the parent link, even if the stored column drifted.
	c.Level = deriveLevel(c.ParentID)
	return c, nil
}
