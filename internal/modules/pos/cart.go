package pos

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

// CartState tracks where a register cart is in its lifecycle.
// Empty -> Filling -> Submitting -> back to Empty on commit, or back to
// Filling on a failed checkout. Cart contents survive a failed checkout so
// the cashier can retry without re-ringing every item.
type CartState string

const (
	CartEmpty      CartState = "empty"
	CartFilling    CartState = "filling"
	CartSubmitting CartState = "submitting"
)

// CartLine is one product in a cart. UnitPrice is snapshotted when the
// product is first added; later price edits do not affect open carts.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

// Cart accumulates an in-progress sale at a register. Carts live only in
// process memory and are never persisted; a restart loses them.
type Cart struct {
	ID         uuid.UUID
	BusinessID uuid.UUID

	mu         sync.Mutex
	state      CartState
	customerID *uuid.UUID
	lines      map[uuid.UUID]*CartLine
	order      []uuid.UUID // line insertion order, for stable display
}

func newCart(businessID uuid.UUID) *Cart {
	return &Cart{
		ID:         uuid.New(),
		BusinessID: businessID,
		state:      CartEmpty,
		lines:      make(map[uuid.UUID]*CartLine),
	}
}

// AddItem inserts a new line with quantity 1, or increments an existing one.
func (c *Cart) AddItem(productID uuid.UUID, name string, unitPrice float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == CartSubmitting {
		return apperr.Conflict("cart is being submitted")
	}
	if line, ok := c.lines[productID]; ok {
		line.Quantity++
	} else {
		c.lines[productID] = &CartLine{
			ProductID: productID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  1,
		}
		c.order = append(c.order, productID)
	}
	c.state = CartFilling
	return nil
}

// SetQuantity sets a line's quantity; a quantity of zero or less removes the
// line. Setting a missing line to zero is a no-op.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == CartSubmitting {
		return apperr.Conflict("cart is being submitted")
	}
	line, ok := c.lines[productID]
	if !ok {
		if quantity <= 0 {
			return nil
		}
		return apperr.NotFound("product is not in the cart")
	}
	if quantity <= 0 {
		c.removeLocked(productID)
		return nil
	}
	line.Quantity = quantity
	return nil
}

// RemoveItem drops a line entirely.
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == CartSubmitting {
		return apperr.Conflict("cart is being submitted")
	}
	c.removeLocked(productID)
	return nil
}

// Clear empties the cart and resets it to its initial state.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == CartSubmitting {
		return apperr.Conflict("cart is being submitted")
	}
	c.clearLocked()
	return nil
}

// AttachCustomer associates a customer with the eventual order.
func (c *Cart) AttachCustomer(customerID *uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerID = customerID
}

// Customer returns the attached customer, or nil.
func (c *Cart) Customer() *uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customerID
}

// Lines returns the cart's lines in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linesLocked()
}

// Total is the sum over lines of unit price times quantity.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// State reports the cart's lifecycle state.
func (c *Cart) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// beginSubmit transitions Filling -> Submitting and hands back a snapshot of
// the lines and the attached customer. It is the duplicate-submission guard:
// a cart already submitting refuses a second checkout.
func (c *Cart) beginSubmit() ([]CartLine, *uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case CartSubmitting:
		return nil, nil, apperr.Conflict("checkout already in progress for this cart")
	case CartEmpty:
		return nil, nil, apperr.Validation("cart is empty")
	}
	if len(c.lines) == 0 {
		return nil, nil, apperr.Validation("cart is empty")
	}
	c.state = CartSubmitting
	return c.linesLocked(), c.customerID, nil
}

// endSubmit completes a checkout attempt. On commit the cart clears; on
// failure the lines are kept and the cart returns to Filling.
func (c *Cart) endSubmit(committed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if committed {
		c.clearLocked()
		return
	}
	c.state = CartFilling
}

func (c *Cart) removeLocked(productID uuid.UUID) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if len(c.lines) == 0 {
		c.state = CartEmpty
	}
}

func (c *Cart) clearLocked() {
	c.lines = make(map[uuid.UUID]*CartLine)
	c.order = nil
	c.customerID = nil
	c.state = CartEmpty
}

func (c *Cart) linesLocked() []CartLine {
	lines := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

func (c *Cart) totalLocked() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}
