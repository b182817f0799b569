package order

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.FromPostgres(err, "begin checkout")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, business_id, customer_id, order_number, status, total_amount,
		   tax_amount, discount_amount, payment_method, payment_status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.BusinessID, o.CustomerID, o.OrderNumber, o.Status, o.TotalAmount,
		o.TaxAmount, o.DiscountAmount, o.PaymentMethod, o.PaymentStatus, o.Notes)
	if err != nil {
		return apperr.FromPostgres(err, "insert order")
	}

	for _, item := range o.Items {
		item.OrderID = o.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, quantity, unit_price, total_price, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			item.ID, o.ID, item.ProductID, item.Quantity, item.UnitPrice,
			item.TotalPrice, item.Notes)
		if err != nil {
			return apperr.FromPostgres(err, "insert order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.FromPostgres(err, "commit checkout")
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id=$1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, apperr.FromPostgres(err, "load order")
	}
	o.Items, err = r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, status string) ([]*Order, error) {
	query := selectOrder + ` WHERE business_id=$1`
	args := []interface{}{businessID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromPostgres(err, "list orders")
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, apperr.FromPostgres(err, "list orders")
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE order_number=$1)`, orderNumber).Scan(&exists)
	if err != nil {
		return false, apperr.FromPostgres(err, "probe order number")
	}
	return exists, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now(), id)
	return apperr.FromPostgres(err, "update order status")
}

const selectOrder = `
	SELECT id, business_id, customer_id, order_number, status, total_amount,
	       tax_amount, discount_amount, payment_method, payment_status, notes,
	       created_at, updated_at
	FROM orders`

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var customerID sql.NullString
	var notes sql.NullString
	err := scan(&o.ID, &o.BusinessID, &customerID, &o.OrderNumber, &o.Status,
		&o.TotalAmount, &o.TaxAmount, &o.DiscountAmount, &o.PaymentMethod,
		&o.PaymentStatus, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		cid, err := uuid.Parse(customerID.String)
		if err == nil {
			o.CustomerID = &cid
		}
	}
	o.Notes = notes.String
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, total_price, notes, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, apperr.FromPostgres(err, "load order items")
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		var notes sql.NullString
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &notes, &item.CreatedAt); err != nil {
			return nil, apperr.FromPostgres(err, "load order items")
		}
		item.Notes = notes.String
		items = append(items, item)
	}
	return items, rows.Err()
}
