package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmart/grocery-api/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func deliverTo() models.DeliveryAddress {
	return models.DeliveryAddress{
		Street:     "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
	}
}

func TestPricing_Quote(t *testing.T) {
	p := DefaultPricing()

	cases := []struct {
		subtotal, fee, tax, total string
	}{
		{"550", "0", "27.5", "577.5"},
		{"300", "49", "15", "364"},
		{"500", "49", "25", "574"},
		{"500.01", "0", "25", "525.01"},
		{"10.10", "49", "0.51", "59.61"},
	}
	for _, tc := range cases {
		t.Run(tc.subtotal, func(t *testing.T) {
			fee, tax, total := p.Quote(dec(tc.subtotal))
			assert.True(t, dec(tc.fee).Equal(fee), "fee %s", fee)
			assert.True(t, dec(tc.tax).Equal(tax), "tax %s", tax)
			assert.True(t, dec(tc.total).Equal(total), "total %s", total)
		})
	}
}

type orderFixture struct {
	env  *testEnv
	user models.User
	a    models.Product
	b    models.Product
}

func newOrderFixture(t *testing.T) orderFixture {
	env := newTestEnv(t)
	cat := env.createCategory(t, "Staples")
	return orderFixture{
		env:  env,
		user: env.registerUser(t, "shopper"),
		a:    env.createProduct(t, cat.ID, "Basmati Rice", "300.00", 5),
		b:    env.createProduct(t, cat.ID, "Olive Oil", "250.00", 2),
	}
}

func TestPlaceOrder_SnapshotsAndTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	addr := deliverTo()
	addr.Instructions = strPtr("Leave at door")
	order, err := f.env.orders.PlaceOrder(ctx, f.user.ID, Checkout{
		Address: addr,
		Items: []models.CartLine{
			{ProductID: f.a.ID, Quantity: 1},
			{ProductID: f.b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, PaymentCard, order.PaymentMethod)
	assert.Equal(t, models.DefaultCountry, order.DeliveryCountry)
	assert.Equal(t, "12 MG Road", order.DeliveryStreet)
	assert.Equal(t, "Leave at door", *order.DeliveryInstructions)
	assert.True(t, dec("550").Equal(order.Subtotal))
	assert.True(t, decimal.Zero.Equal(order.DeliveryFee))
	assert.True(t, dec("27.5").Equal(order.Tax))
	assert.True(t, dec("577.5").Equal(order.Total))

	require.Len(t, order.Items, 2)
	item := order.Items[0]
	assert.Equal(t, order.ID, item.OrderID)
	assert.Equal(t, "Basmati Rice", item.ProductName)
	assert.True(t, dec("300").Equal(item.ProductPrice))
	assert.True(t, item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Equal(item.Subtotal))

	assert.Equal(t, 4, f.env.stockOf(t, f.a.ID))
	assert.Equal(t, 1, f.env.stockOf(t, f.b.ID))

	stored, err := f.env.orders.GetOrder(ctx, f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestPlaceOrder_SmallCartPaysDelivery(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.env.orders.PlaceOrder(context.Background(), f.user.ID, Checkout{
		Address:       deliverTo(),
		Items:         []models.CartLine{{ProductID: f.a.ID, Quantity: 1}},
		PaymentMethod: "UPI",
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentUPI, order.PaymentMethod)
	assert.True(t, dec("49").Equal(order.DeliveryFee))
	assert.True(t, dec("15").Equal(order.Tax))
	assert.True(t, dec("364").Equal(order.Total))
}

func TestPlaceOrder_Rejections(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	inactive := models.Product{CategoryID: f.a.CategoryID, Name: "Discontinued Ghee", Price: dec("99"), Stock: 10}
	require.NoError(t, f.env.store.CreateProduct(ctx, &inactive))

	cases := []struct {
		name    string
		in      Checkout
		kind    error
		message string
	}{
		{
			name:    "empty cart",
			in:      Checkout{Address: deliverTo()},
			kind:    ErrInvalidInput,
			message: "Order must contain at least one item",
		},
		{
			name:    "bad payment method",
			in:      Checkout{Address: deliverTo(), Items: []models.CartLine{{ProductID: f.a.ID, Quantity: 1}}, PaymentMethod: "cheque"},
			kind:    ErrInvalidInput,
			message: `Unsupported payment method "cheque"`,
		},
		{
			name:    "missing product",
			in:      Checkout{Address: deliverTo(), Items: []models.CartLine{{ProductID: f.a.ID, Quantity: 1}, {ProductID: 777, Quantity: 1}}},
			kind:    ErrProductNotFound,
			message: "Product 777 not found",
		},
		{
			name:    "inactive product",
			in:      Checkout{Address: deliverTo(), Items: []models.CartLine{{ProductID: inactive.ID, Quantity: 1}}},
			kind:    ErrProductUnavailable,
			message: "Product Discontinued Ghee is not available",
		},
		{
			name:    "not enough stock on a later line",
			in:      Checkout{Address: deliverTo(), Items: []models.CartLine{{ProductID: f.a.ID, Quantity: 2}, {ProductID: f.b.ID, Quantity: 3}}},
			kind:    ErrInsufficientStock,
			message: "Insufficient stock for Olive Oil",
		},
		{
			name:    "huge repeated quantities do not wrap",
			in:      Checkout{Address: deliverTo(), Items: []models.CartLine{{ProductID: f.a.ID, Quantity: 3}, {ProductID: f.a.ID, Quantity: math.MaxInt}}},
			kind:    ErrInsufficientStock,
			message: "Insufficient stock for Basmati Rice",
		},
		{
			name:    "repeated lines exceed stock together",
			in:      Checkout{Address: deliverTo(), Items: []models.CartLine{{ProductID: f.b.ID, Quantity: 2}, {ProductID: f.b.ID, Quantity: 1}}},
			kind:    ErrInsufficientStock,
			message: "Insufficient stock for Olive Oil",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.env.orders.PlaceOrder(ctx, f.user.ID, tc.in)
			require.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.message, err.Error())

			assert.Equal(t, 5, f.env.stockOf(t, f.a.ID))
			assert.Equal(t, 2, f.env.stockOf(t, f.b.ID))
			orders, err := f.env.orders.ListOrders(ctx, f.user.ID)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestCancelOrder_RestoresStockOnce(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.env.orders.PlaceOrder(ctx, f.user.ID, Checkout{
		Address: deliverTo(),
		Items: []models.CartLine{
			{ProductID: f.a.ID, Quantity: 3},
			{ProductID: f.b.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.env.stockOf(t, f.a.ID))
	assert.Equal(t, 0, f.env.stockOf(t, f.b.ID))

	cancelled, err := f.env.orders.CancelOrder(ctx, f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Len(t, cancelled.Items, 2)
	assert.Equal(t, 5, f.env.stockOf(t, f.a.ID))
	assert.Equal(t, 2, f.env.stockOf(t, f.b.ID))

	_, err = f.env.orders.CancelOrder(ctx, f.user.ID, order.ID)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "Can only cancel pending orders", err.Error())
	assert.Equal(t, 5, f.env.stockOf(t, f.a.ID))
}

func TestOrders_OwnershipIsEnforced(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	other := f.env.registerUser(t, "someone_else")

	order, err := f.env.orders.PlaceOrder(ctx, f.user.ID, Checkout{
		Address: deliverTo(),
		Items:   []models.CartLine{{ProductID: f.a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.env.orders.GetOrder(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.env.orders.CancelOrder(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 4, f.env.stockOf(t, f.a.ID))

	list, err := f.env.orders.ListOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListOrders_NewestFirst(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		o, err := f.env.orders.PlaceOrder(ctx, f.user.ID, Checkout{
			Address: deliverTo(),
			Items:   []models.CartLine{{ProductID: f.a.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	list, err := f.env.orders.ListOrders(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{list[0].ID, list[1].ID, list[2].ID})
	for _, o := range list {
		assert.Len(t, o.Items, 1)
	}
}

func TestPlaceOrder_ConcurrentBuyersOfLastUnit(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory(t, "Limited")
	last := env.createProduct(t, cat.ID, "Alphonso Mango Box", "899.00", 1)

	const buyers = 20
	users := make([]models.User, buyers)
	for i := range users {
		users[i] = env.registerUser(t, fmt.Sprintf("buyer%02d", i))
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		outOfStock int
		other      []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := env.orders.PlaceOrder(context.Background(), userID, Checkout{
				Address: deliverTo(),
				Items:   []models.CartLine{{ProductID: last.ID, Quantity: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case KindOf(err) == KindInsufficientStock:
				outOfStock++
			default:
				other = append(other, err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, buyers-1, outOfStock)
	assert.Equal(t, 0, env.stockOf(t, last.ID))
}
