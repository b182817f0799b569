package business

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, b *Business) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO businesses
		  (id, user_id, name, type, description, address, phone, email,
		   primary_color, secondary_color, logo_url, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		b.ID, b.UserID, b.Name, b.Type, b.Description, b.Address, b.Phone, b.Email,
		b.PrimaryColor, b.SecondaryColor, b.LogoURL, b.IsActive)
	return apperr.FromPostgres(err, "create business")
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	return r.scan(r.db.QueryRowContext(ctx, selectBusiness+` WHERE id=$1`, id))
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*Business, error) {
	return r.scan(r.db.QueryRowContext(ctx, selectBusiness+` WHERE user_id=$1`, userID))
}

func (r *postgresRepo) Update(ctx context.Context, b *Business) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE businesses
		SET name=$1, type=$2, description=$3, address=$4, phone=$5, email=$6,
		    primary_color=$7, secondary_color=$8, logo_url=$9, is_active=$10, updated_at=NOW()
		WHERE id=$11`,
		b.Name, b.Type, b.Description, b.Address, b.Phone, b.Email,
		b.PrimaryColor, b.SecondaryColor, b.LogoURL, b.IsActive, b.ID)
	return apperr.FromPostgres(err, "update business")
}

const selectBusiness = `
	SELECT id, user_id, name, type, description, address, phone, email,
	       primary_color, secondary_color, logo_url, is_active, created_at, updated_at
	FROM businesses`

func (r *postgresRepo) scan(row *sql.Row) (*Business, error) {
	b := &Business{}
	var description, address, phone, email, logoURL sql.NullString
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Type, &description, &address,
		&phone, &email, &b.PrimaryColor, &b.SecondaryColor, &logoURL,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("business not found")
	}
	if err != nil {
		return nil, apperr.FromPostgres(err, "load business")
	}
	b.Description = description.String
	b.Address = address.String
	b.Phone = phone.String
	b.Email = email.String
	b.LogoURL = logoURL.String
	return b, nil
}
