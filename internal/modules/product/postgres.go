package product

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, business_id, category_id, name, description, price, cost, sku, barcode,
		   stock_quantity, min_stock_level, unit, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.BusinessID, p.CategoryID, p.Name, p.Description, p.Price, p.Cost,
		p.SKU, p.Barcode, p.StockQuantity, p.MinStockLevel, p.Unit, p.IsActive)
	return apperr.FromPostgres(err, "create product")
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE id=$1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, apperr.FromPostgres(err, "load product")
	}
	return p, nil
}

func (r *postgresRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, filter ListFilter) ([]*Product, error) {
	query := selectProduct + ` WHERE business_id=$1`
	args := []interface{}{businessID}
	n := 2
	if filter.CategoryID != nil {
		query += fmt.Sprintf(` AND category_id=$%d`, n)
		args = append(args, *filter.CategoryID)
		n++
	}
	if filter.ActiveOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY name ASC`
	return r.queryProducts(ctx, query, args...)
}

func (r *postgresRepo) ListLowStock(ctx context.Context, businessID uuid.UUID) ([]*Product, error) {
	return r.queryProducts(ctx, selectProduct+`
		WHERE business_id=$1 AND is_active=true AND stock_quantity <= min_stock_level
		ORDER BY stock_quantity ASC`, businessID)
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id=$1, name=$2, description=$3, price=$4, cost=$5, sku=$6,
		    barcode=$7, stock_quantity=$8, min_stock_level=$9, unit=$10,
		    is_active=$11, updated_at=NOW()
		WHERE id=$12`,
		p.CategoryID, p.Name, p.Description, p.Price, p.Cost, p.SKU, p.Barcode,
		p.StockQuantity, p.MinStockLevel, p.Unit, p.IsActive, p.ID)
	return apperr.FromPostgres(err, "update product")
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	return apperr.FromPostgres(err, "delete product")
}

func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromPostgres(err, "list products")
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, apperr.FromPostgres(err, "list products")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const selectProduct = `
	SELECT id, business_id, category_id, name, description, price, cost, sku, barcode,
	       stock_quantity, min_stock_level, unit, is_active, created_at, updated_at
	FROM products`

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var categoryID, description, sku, barcode sql.NullString
	err := scan(&p.ID, &p.BusinessID, &categoryID, &p.Name, &description,
		&p.Price, &p.Cost, &sku, &barcode, &p.StockQuantity, &p.MinStockLevel,
		&p.Unit, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		cid, err := uuid.Parse(categoryID.String)
		if err == nil {
			p.CategoryID = &cid
		}
	}
	p.Description = description.String
	p.SKU = sku.String
	p.Barcode = barcode.String
	return p, nil
}
