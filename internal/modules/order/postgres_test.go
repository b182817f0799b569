package order

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

func testOrder() *Order {
	return &Order{
		ID:            uuid.New(),
		BusinessID:    uuid.New(),
		OrderNumber:   "ORD-1756400000000-7",
		Status:        StatusPending,
		TotalAmount:   100.50,
		PaymentMethod: PaymentCash,
		PaymentStatus: PaymentPending,
		Items: []*OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitPrice: 45.00, TotalPrice: 90.00},
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPrice: 10.50, TotalPrice: 10.50},
		},
	}
}

func TestCreateOrder_CommitsOrderAndItemsTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.CreateOrder(context.Background(), o))

	// Items were stamped with the order id before insert.
	for _, item := range o.Items {
		assert.Equal(t, o.ID, item.OrderID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_RollsBackWhenAnItemInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewPostgresRepository(db)
	err = repo.CreateOrder(context.Background(), o)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderNumberExists_Probe(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ORD-1756400000000-7").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewPostgresRepository(db)
	exists, err := repo.OrderNumberExists(context.Background(), "ORD-1756400000000-7")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_MissingOrderIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPostgresRepository(db)
	_, err = repo.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
