package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) OrderStats(ctx context.Context, businessID uuid.UUID, since time.Time) (float64, int, int, error) {
	query := `
		SELECT COALESCE(SUM(total_amount) FILTER (WHERE status='completed'), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status='completed')
		FROM orders WHERE business_id=$1`
	args := []interface{}{businessID}
	if !since.IsZero() {
		query += ` AND created_at >= $2`
		args = append(args, since)
	}

	var revenue float64
	var orders, completed int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&revenue, &orders, &completed)
	if err != nil {
		return 0, 0, 0, apperr.FromPostgres(err, "aggregate orders")
	}
	return revenue, orders, completed, nil
}

func (r *postgresRepo) CountCustomers(ctx context.Context, businessID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM customers WHERE business_id=$1`, businessID)
}

func (r *postgresRepo) CountProducts(ctx context.Context, businessID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE business_id=$1 AND is_active=true`, businessID)
}

func (r *postgresRepo) count(ctx context.Context, query string, businessID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, businessID).Scan(&n); err != nil {
		return 0, apperr.FromPostgres(err, "count rows")
	}
	return n, nil
}
