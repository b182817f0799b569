package order

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// maxNumberProbes bounds the collision loop for order-number generation.
const maxNumberProbes = 5

// Service defines order management business logic.
type Service interface {
	// PlaceOrder validates the lines, generates a unique order number and
	// persists the order with its items atomically.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	GetOrder(ctx context.Context, businessID, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, businessID uuid.UUID, status string) ([]*Order, error)
	UpdateStatus(ctx context.Context, businessID, id uuid.UUID, req UpdateStatusRequest) (*Order, error)
}

type service struct {
	repo Repository
	rng  func(n int) int
	now  func() time.Time
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo, rng: rand.Intn, now: time.Now}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if req.BusinessID == uuid.Nil {
		return nil, apperr.Validation("business id is required")
	}
	if len(req.Lines) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	var items []*OrderItem
	var total float64
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be greater than zero for product %s", line.ProductID)
		}
		if line.UnitPrice < 0 {
			return nil, apperr.Validation("unit price cannot be negative for product %s", line.ProductID)
		}
		lineTotal := round2(line.UnitPrice * float64(line.Quantity))
		total += lineTotal
		items = append(items, &OrderItem{
			ID:         uuid.New(),
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: lineTotal,
		})
	}

	tax := req.TaxAmount
	if tax < 0 {
		tax = 0
	}
	discount := req.DiscountAmount
	if discount < 0 {
		discount = 0
	}
	total = total + tax - discount
	if total < 0 {
		total = 0
	}

	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:             uuid.New(),
		BusinessID:     req.BusinessID,
		CustomerID:     req.CustomerID,
		OrderNumber:    orderNumber,
		Status:         StatusPending,
		TotalAmount:    round2(total),
		TaxAmount:      round2(tax),
		DiscountAmount: round2(discount),
		PaymentMethod:  method,
		PaymentStatus:  PaymentPending,
		Notes:          req.Notes,
		Items:          items,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, businessID, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.BusinessID != businessID {
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, businessID uuid.UUID, status string) ([]*Order, error) {
	if status != "" {
		if _, ok := validTransitions[Status(status)]; !ok {
			return nil, apperr.Validation("invalid status filter: %s", status)
		}
	}
	return s.repo.ListByBusiness(ctx, businessID, status)
}

func (s *service) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, req UpdateStatusRequest) (*Order, error) {
	o, err := s.GetOrder(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	newStatus := Status(strings.ToLower(strings.TrimSpace(req.Status)))
	allowed, ok := validTransitions[o.Status]
	if !ok {
		return nil, apperr.Validation("unknown status: %s", req.Status)
	}
	valid := false
	for _, st := range allowed {
		if st == newStatus {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperr.Conflict("cannot transition order from %s to %s", o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

// nextOrderNumber generates ORD-<unix millis>-<random 0..999> and probes the
// store for collisions, up to maxNumberProbes attempts. If every probe
// collides it falls back to a higher-entropy suffix without a further check;
// the residual collision window is accepted and caught by the unique index.
func (s *service) nextOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberProbes; attempt++ {
		candidate := fmt.Sprintf("ORD-%d-%d", s.now().UnixMilli(), s.rng(1000))
		exists, err := s.repo.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return fmt.Sprintf("ORD-%d-%d", s.now().UnixMilli(), s.rng(10000)), nil
}

func parsePaymentMethod(raw string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case PaymentCash, PaymentCard, PaymentOnline, PaymentOther:
		return m, nil
	case "":
		return PaymentCash, nil
	default:
		return "", apperr.Validation("invalid payment method: %s (allowed: cash, card, online, other)", raw)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
