package order

import (
	"context"
	"math/rand"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type fakeRepo struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*Order
	probes     int
	collideFor int  // first N probes report a collision
	alwaysHit  bool // every probe reports a collision
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[uuid.UUID]*Order)}
}

func (f *fakeRepo) CreateOrder(ctx context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = o
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

func (f *fakeRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, status string) ([]*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Order
	for _, o := range f.orders {
		if o.BusinessID == businessID && (status == "" || string(o.Status) == status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	if f.alwaysHit {
		return true, nil
	}
	return f.probes <= f.collideFor, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	o.Status = status
	return nil
}

func newTestService(repo Repository) *service {
	return &service{repo: repo, rng: rand.Intn, now: time.Now}
}

var orderNumberFormat = regexp.MustCompile(`^ORD-\d+-\d+$`)

func TestNextOrderNumber_TerminatesWithinFiveProbes(t *testing.T) {
	// 1000 concurrent generations, each against a backend that collides on
	// the first 4 probes. Every call must land a number on probe 5 at the
	// latest and never fall back.
	var wg sync.WaitGroup
	results := make(chan string, 1000)
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo := newFakeRepo()
			repo.collideFor = 4
			svc := newTestService(repo)
			n, err := svc.nextOrderNumber(context.Background())
			assert.NoError(t, err)
			assert.LessOrEqual(t, repo.probes, maxNumberProbes)
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	for n := range results {
		assert.NotEmpty(t, n)
		assert.Regexp(t, orderNumberFormat, n)
	}
}

func TestNextOrderNumber_FallsBackAfterFiveCollisions(t *testing.T) {
	repo := newFakeRepo()
	repo.alwaysHit = true
	svc := &service{
		repo: repo,
		rng:  func(n int) int { return n - 1 }, // deterministic, max value
		now:  func() time.Time { return time.UnixMilli(1756400000000) },
	}

	n, err := svc.nextOrderNumber(context.Background())
	require.NoError(t, err)
	// The fallback is not probed, so exactly five probes happened.
	assert.Equal(t, maxNumberProbes, repo.probes)
	assert.Equal(t, "ORD-1756400000000-9999", n)
}

func TestPlaceOrder_ComputesTotalsFromSnapshots(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	businessID := uuid.New()

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		BusinessID: businessID,
		Lines: []Line{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 45.00},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 10.50},
		},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.InDelta(t, 100.50, o.TotalAmount, 1e-9)
	require.Len(t, o.Items, 2)
	assert.InDelta(t, 90.00, o.Items[0].TotalPrice, 1e-9)
	assert.InDelta(t, 10.50, o.Items[1].TotalPrice, 1e-9)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentCash, o.PaymentMethod)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Regexp(t, orderNumberFormat, o.OrderNumber)

	// total_amount always equals the sum of item totals.
	var sum float64
	for _, item := range o.Items {
		sum += item.TotalPrice
	}
	assert.InDelta(t, sum, o.TotalAmount, 1e-9)
}

func TestPlaceOrder_Validation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()
	businessID := uuid.New()

	_, err := svc.PlaceOrder(ctx, PlaceOrderRequest{BusinessID: businessID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.PlaceOrder(ctx, PlaceOrderRequest{
		BusinessID: businessID,
		Lines:      []Line{{ProductID: uuid.New(), Quantity: 0, UnitPrice: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.PlaceOrder(ctx, PlaceOrderRequest{
		BusinessID:    businessID,
		Lines:         []Line{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 1}},
		PaymentMethod: "barter",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	businessID := uuid.New()

	o, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
		BusinessID: businessID,
		Lines:      []Line{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 5}},
	})
	require.NoError(t, err)

	// pending cannot jump straight to completed.
	_, err = svc.UpdateStatus(ctx, businessID, o.ID, UpdateStatusRequest{Status: "completed"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	for _, next := range []string{"confirmed", "preparing", "ready", "completed"} {
		o, err = svc.UpdateStatus(ctx, businessID, o.ID, UpdateStatusRequest{Status: next})
		require.NoError(t, err)
		assert.Equal(t, Status(next), o.Status)
	}

	// Terminal states go nowhere.
	_, err = svc.UpdateStatus(ctx, businessID, o.ID, UpdateStatusRequest{Status: "pending"})
	require.Error(t, err)
}

func TestUpdateStatus_CancelOnlyFromEarlyStates(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	businessID := uuid.New()

	o, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
		BusinessID: businessID,
		Lines:      []Line{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 5}},
	})
	require.NoError(t, err)

	o, err = svc.UpdateStatus(ctx, businessID, o.ID, UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)

	_, err = svc.UpdateStatus(ctx, businessID, o.ID, UpdateStatusRequest{Status: "confirmed"})
	require.Error(t, err)
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{90.0, 90.0},
		{10.504, 10.50},
		{2.375, 2.38},   // exact half rounds away from zero
		{-2.375, -2.38}, // also for negative amounts
		{-1.237, -1.24},
		{-1.234, -1.23},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, round2(tc.in), 1e-9, "round2(%v)", tc.in)
	}

	// Totals far beyond int range survive rounding.
	assert.InDelta(t, 9e16, round2(9e16), 1)
}

func TestGetOrder_WrongBusinessIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
		BusinessID: uuid.New(),
		Lines:      []Line{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 5}},
	})
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, uuid.New(), o.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
