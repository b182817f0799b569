package customer

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers
		  (id, business_id, first_name, last_name, email, phone, address,
		   loyalty_points, notes, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.BusinessID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.LoyaltyPoints, c.Notes, c.IsActive)
	return apperr.FromPostgres(err, "create customer")
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, selectCustomer+` WHERE id=$1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("customer not found")
	}
	if err != nil {
		return nil, apperr.FromPostgres(err, "load customer")
	}
	return c, nil
}

func (r *postgresRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, search string) ([]*Customer, error) {
	query := selectCustomer + ` WHERE business_id=$1`
	args := []interface{}{businessID}
	if search != "" {
		query += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR phone ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY first_name ASC, last_name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromPostgres(err, "list customers")
	}
	defer rows.Close()

	var customers []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, apperr.FromPostgres(err, "list customers")
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET first_name=$1, last_name=$2, email=$3, phone=$4, address=$5,
		    notes=$6, is_active=$7, updated_at=NOW()
		WHERE id=$8`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.Notes, c.IsActive, c.ID)
	return apperr.FromPostgres(err, "update customer")
}

func (r *postgresRepo) AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET loyalty_points = loyalty_points + $1, updated_at=NOW() WHERE id=$2`,
		points, id)
	return apperr.FromPostgres(err, "award loyalty points")
}

const selectCustomer = `
	SELECT id, business_id, first_name, last_name, email, phone, address,
	       loyalty_points, notes, is_active, created_at, updated_at
	FROM customers`

func scanCustomer(scan func(...interface{}) error) (*Customer, error) {
	c := &Customer{}
	var email, phone, address, notes sql.NullString
	err := scan(&c.ID, &c.BusinessID, &c.FirstName, &c.LastName, &email, &phone,
		&address, &c.LoyaltyPoints, &notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String
	c.Notes = notes.String
	return c, nil
}
