package pos

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItemIncrementsExistingLine(t *testing.T) {
	cart := newCart(uuid.New())
	productID := uuid.New()

	require.NoError(t, cart.AddItem(productID, "Espresso", 2.50))
	require.NoError(t, cart.AddItem(productID, "Espresso", 2.50))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.InDelta(t, 5.00, cart.Total(), 1e-9)
	assert.Equal(t, CartFilling, cart.State())
}

func TestCart_TotalMatchesLineSumsAcrossMutations(t *testing.T) {
	cart := newCart(uuid.New())
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, cart.AddItem(a, "A", 45.00))
	require.NoError(t, cart.AddItem(a, "A", 45.00))
	require.NoError(t, cart.AddItem(b, "B", 10.50))
	require.NoError(t, cart.AddItem(c, "C", 3.25))
	require.NoError(t, cart.SetQuantity(c, 4))
	require.NoError(t, cart.RemoveItem(b))
	require.NoError(t, cart.SetQuantity(a, 1))

	var sum float64
	seen := make(map[uuid.UUID]bool)
	for _, line := range cart.Lines() {
		assert.False(t, seen[line.ProductID], "product appears in more than one line")
		seen[line.ProductID] = true
		sum += line.UnitPrice * float64(line.Quantity)
	}
	assert.InDelta(t, sum, cart.Total(), 1e-9)
	assert.InDelta(t, 45.00+4*3.25, cart.Total(), 1e-9)
}

func TestCart_SetQuantityZeroRemovesLineAndIsIdempotent(t *testing.T) {
	cart := newCart(uuid.New())
	productID := uuid.New()

	require.NoError(t, cart.AddItem(productID, "Latte", 4.00))
	require.NoError(t, cart.SetQuantity(productID, 0))
	assert.Empty(t, cart.Lines())
	assert.Equal(t, CartEmpty, cart.State())

	// Second removal of the same line is a no-op.
	require.NoError(t, cart.SetQuantity(productID, 0))
	assert.Empty(t, cart.Lines())
}

func TestCart_SetQuantityMissingLineFails(t *testing.T) {
	cart := newCart(uuid.New())
	err := cart.SetQuantity(uuid.New(), 3)
	require.Error(t, err)
}

func TestCart_LinesKeepInsertionOrder(t *testing.T) {
	cart := newCart(uuid.New())
	first, second, third := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, cart.AddItem(first, "First", 1))
	require.NoError(t, cart.AddItem(second, "Second", 1))
	require.NoError(t, cart.AddItem(third, "Third", 1))
	require.NoError(t, cart.AddItem(first, "First", 1)) // increment, no reorder

	lines := cart.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, first, lines[0].ProductID)
	assert.Equal(t, second, lines[1].ProductID)
	assert.Equal(t, third, lines[2].ProductID)
}

func TestCart_ClearResetsEverything(t *testing.T) {
	cart := newCart(uuid.New())
	customerID := uuid.New()
	cart.AttachCustomer(&customerID)
	require.NoError(t, cart.AddItem(uuid.New(), "X", 9.99))

	require.NoError(t, cart.Clear())
	assert.Empty(t, cart.Lines())
	assert.Zero(t, cart.Total())
	assert.Nil(t, cart.Customer())
	assert.Equal(t, CartEmpty, cart.State())
}

func TestCart_BeginSubmitGuards(t *testing.T) {
	cart := newCart(uuid.New())

	// Empty carts cannot be submitted.
	_, _, err := cart.beginSubmit()
	require.Error(t, err)

	customerID := uuid.New()
	cart.AttachCustomer(&customerID)
	require.NoError(t, cart.AddItem(uuid.New(), "X", 1.00))
	lines, customer, err := cart.beginSubmit()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, customer)
	assert.Equal(t, customerID, *customer)
	assert.Equal(t, CartSubmitting, cart.State())

	// A cart mid-checkout refuses a second submission and any mutation.
	_, _, err = cart.beginSubmit()
	require.Error(t, err)
	require.Error(t, cart.AddItem(uuid.New(), "Y", 1.00))
	require.Error(t, cart.Clear())

	// A failed checkout keeps the lines and returns to Filling.
	cart.endSubmit(false)
	assert.Equal(t, CartFilling, cart.State())
	assert.Len(t, cart.Lines(), 1)

	// A committed checkout clears the cart.
	_, _, err = cart.beginSubmit()
	require.NoError(t, err)
	cart.endSubmit(true)
	assert.Equal(t, CartEmpty, cart.State())
	assert.Empty(t, cart.Lines())
	assert.Nil(t, cart.Customer())
}

func TestCart_ConcurrentAttachAndRead(t *testing.T) {
	cart := newCart(uuid.New())
	require.NoError(t, cart.AddItem(uuid.New(), "X", 2.00))

	// Attaching a customer while other goroutines snapshot the cart must be
	// safe under the race detector.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			customerID := uuid.New()
			cart.AttachCustomer(&customerID)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cart.Customer()
			_ = cart.Lines()
			_ = cart.Total()
			_ = cart.State()
		}()
	}
	wg.Wait()
	assert.NotNil(t, cart.Customer())
}
