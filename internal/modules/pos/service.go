package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tilldesk/tilldesk-backend/internal/modules/order"
	"github.com/tilldesk/tilldesk-backend/internal/modules/product"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// CartView is the serialisable snapshot of a cart returned to clients.
type CartView struct {
	ID         uuid.UUID  `json:"id"`
	BusinessID uuid.UUID  `json:"business_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	State      CartState  `json:"state"`
	Lines      []CartLine `json:"lines"`
	Total      float64    `json:"total"`
}

// CheckoutRequest is the payload for committing a cart as an order.
type CheckoutRequest struct {
	CustomerID     string  `json:"customer_id,omitempty"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	TaxAmount      float64 `json:"tax_amount,omitempty"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// Service defines POS register logic: cart mutation and checkout.
type Service interface {
	OpenCart(ctx context.Context, businessID uuid.UUID) (*CartView, error)
	GetCart(ctx context.Context, businessID, cartID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, businessID, cartID, productID uuid.UUID) (*CartView, error)
	SetQuantity(ctx context.Context, businessID, cartID, productID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, businessID, cartID, productID uuid.UUID) (*CartView, error)
	ClearCart(ctx context.Context, businessID, cartID uuid.UUID) (*CartView, error)

	// Checkout commits the cart as a persisted order. On failure the cart is
	// left intact so the sale can be retried.
	Checkout(ctx context.Context, businessID, cartID uuid.UUID, req CheckoutRequest) (*order.Order, error)
}

type service struct {
	carts    *CartStore
	products product.Service
	orders   order.Service
	log      zerolog.Logger
}

// NewService creates a new POS service.
func NewService(carts *CartStore, products product.Service, orders order.Service, log zerolog.Logger) Service {
	return &service{carts: carts, products: products, orders: orders, log: log}
}

func (s *service) OpenCart(ctx context.Context, businessID uuid.UUID) (*CartView, error) {
	cart := s.carts.Open(businessID)
	return view(cart), nil
}

func (s *service) GetCart(ctx context.Context, businessID, cartID uuid.UUID) (*CartView, error) {
	cart, err := s.cart(businessID, cartID)
	if err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (s *service) AddItem(ctx context.Context, businessID, cartID, productID uuid.UUID) (*CartView, error) {
	cart, err := s.cart(businessID, cartID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperr.Validation("product %q is not available for sale", p.Name)
	}
	if err := cart.AddItem(p.ID, p.Name, p.Price); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (s *service) SetQuantity(ctx context.Context, businessID, cartID, productID uuid.UUID, quantity int) (*CartView, error) {
	cart, err := s.cart(businessID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, businessID, cartID, productID uuid.UUID) (*CartView, error) {
	cart, err := s.cart(businessID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (s *service) ClearCart(ctx context.Context, businessID, cartID uuid.UUID) (*CartView, error) {
	cart, err := s.cart(businessID, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Clear(); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (s *service) Checkout(ctx context.Context, businessID, cartID uuid.UUID, req CheckoutRequest) (*order.Order, error) {
	cart, err := s.cart(businessID, cartID)
	if err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, apperr.Validation("invalid customer_id: %s", req.CustomerID)
		}
		customerID = &cid
	}
	if customerID != nil {
		cart.AttachCustomer(customerID)
	}

	lines, orderCustomer, err := cart.beginSubmit()
	if err != nil {
		return nil, err
	}

	orderLines := make([]order.Line, 0, len(lines))
	for _, line := range lines {
		orderLines = append(orderLines, order.Line{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	o, err := s.orders.PlaceOrder(ctx, order.PlaceOrderRequest{
		BusinessID:     businessID,
		CustomerID:     orderCustomer,
		Lines:          orderLines,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		// Keep the cart so the cashier can retry the sale.
		cart.endSubmit(false)
		s.log.Warn().Err(err).Str("cart_id", cartID.String()).Msg("checkout failed")
		return nil, err
	}

	cart.endSubmit(true)
	s.carts.Close(cartID)
	s.log.Info().
		Str("order_number", o.OrderNumber).
		Float64("total", o.TotalAmount).
		Int("items", len(o.Items)).
		Msg("checkout committed")
	return o, nil
}

func (s *service) cart(businessID, cartID uuid.UUID) (*Cart, error) {
	cart, err := s.carts.Get(cartID)
	if err != nil {
		return nil, err
	}
	if cart.BusinessID != businessID {
		return nil, apperr.NotFound("cart not found")
	}
	return cart, nil
}

func view(c *Cart) *CartView {
	return &CartView{
		ID:         c.ID,
		BusinessID: c.BusinessID,
		CustomerID: c.Customer(),
		State:      c.State(),
		Lines:      c.Lines(),
		Total:      c.Total(),
	}
}
