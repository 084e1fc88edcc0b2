package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

// Payment methods accepted at checkout.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
	PaymentUPI  = "upi"
)

// Pricing holds the delivery and tax policy applied to a cart subtotal.
type Pricing struct {
	// Delivery is free when the subtotal is strictly above this amount.
	FreeDeliveryAbove decimal.Decimal
	DeliveryFee       decimal.Decimal
	TaxRate           decimal.Decimal
}

// DefaultPricing is free delivery above 500, otherwise 49, and 5% tax.
func DefaultPricing() Pricing {
	return Pricing{
		FreeDeliveryAbove: decimal.NewFromInt(500),
		DeliveryFee:       decimal.NewFromInt(49),
		TaxRate:           decimal.RequireFromString("0.05"),
	}
}

// Quote computes the fee, tax and total for subtotal. Tax is rounded to two
// places, half away from zero.
func (p Pricing) Quote(subtotal decimal.Decimal) (fee, tax, total decimal.Decimal) {
	fee = p.DeliveryFee
	if subtotal.GreaterThan(p.FreeDeliveryAbove) {
		fee = decimal.Zero
	}
	tax = subtotal.Mul(p.TaxRate).Round(2)
	total = subtotal.Add(fee).Add(tax)
	return fee, tax, total
}

// Checkout is a cart and the delivery details for a new order.
type Checkout struct {
	Address       models.DeliveryAddress
	Items         []models.CartLine
	PaymentMethod string
}

// OrderWorkflow places and cancels orders. Every state change runs in a
// single store transaction together with its stock movements.
type OrderWorkflow struct {
	store   store.Store
	pricing Pricing
	log     *zap.Logger
	now     func() time.Time
}

func NewOrderWorkflow(st store.Store, pricing Pricing, log *zap.Logger) *OrderWorkflow {
	return &OrderWorkflow{store: st, pricing: pricing, log: log, now: time.Now}
}

// PlaceOrder validates the cart against current stock and prices, then
// writes the order, its items and the stock decrements. Either all of it
// commits or none of it does.
func (w *OrderWorkflow) PlaceOrder(ctx context.Context, userID int64, in Checkout) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, newError(KindInvalidInput, "Order must contain at least one item")
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return models.Order{}, newError(KindInvalidInput, "Quantity must be greater than 0")
		}
	}
	payment := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	switch payment {
	case "":
		payment = PaymentCard
	case PaymentCard, PaymentCash, PaymentUPI:
	default:
		return models.Order{}, newError(KindInvalidInput, "Unsupported payment method %q", in.PaymentMethod)
	}
	country := strings.TrimSpace(in.Address.Country)
	if country == "" {
		country = models.DefaultCountry
	}

	var order models.Order
	err := w.store.InTx(ctx, func(q store.Querier) error {
		products, err := lockProducts(ctx, q, in.Items)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		requested := make(map[int64]int, len(products))
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			p, ok := products[line.ProductID]
			if !ok {
				return newError(KindProductNotFound, "Product %d not found", line.ProductID)
			}
			if !p.IsActive {
				return newError(KindProductUnavailable, "Product %s is not available", p.Name)
			}
			if line.Quantity > p.Stock-requested[p.ID] {
				return newError(KindInsufficientStock, "Insufficient stock for %s", p.Name)
			}
			requested[p.ID] += line.Quantity

			lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductPrice: p.Price,
				Quantity:     line.Quantity,
				Subtotal:     lineTotal,
			})
		}

		fee, tax, total := w.pricing.Quote(subtotal)
		now := w.now().UTC()
		order = models.Order{
			UserID:               userID,
			DeliveryStreet:       in.Address.Street,
			DeliveryCity:         in.Address.City,
			DeliveryState:        in.Address.State,
			DeliveryPostalCode:   in.Address.PostalCode,
			DeliveryCountry:      country,
			DeliveryInstructions: in.Address.Instructions,
			Subtotal:             subtotal,
			DeliveryFee:          fee,
			Tax:                  tax,
			Total:                total,
			Status:               models.OrderStatusPending,
			PaymentMethod:        payment,
			PaymentStatus:        models.PaymentStatusPending,
			CreatedAt:            now,
			UpdatedAt:            now,
			Items:                items,
		}
		if err := q.CreateOrder(ctx, &order); err != nil {
			return err
		}

		for _, line := range in.Items {
			if err := q.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					return newError(KindInsufficientStock, "Insufficient stock for %s", products[line.ProductID].Name)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		var businessErr *Error
		if errors.As(err, &businessErr) {
			w.log.Info("order rejected", zap.Int64("user_id", userID), zap.Stringer("kind", businessErr.Kind), zap.String("reason", businessErr.Message))
			return models.Order{}, businessErr
		}
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	w.log.Info("order placed",
		zap.Int64("user_id", userID),
		zap.Int64("order_id", order.ID),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// lockProducts reads and row-locks every distinct product of the cart in
// ascending id order, so concurrent checkouts cannot deadlock each other.
// Missing products are left out of the result.
func lockProducts(ctx context.Context, q store.Querier, lines []models.CartLine) (map[int64]models.Product, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := make(map[int64]models.Product, len(ids))
	for _, id := range ids {
		p, err := q.GetProductForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("lock product %d: %w", id, err)
		}
		products[id] = p
	}
	return products, nil
}

// ListOrders returns the user's orders newest first, with items.
func (w *OrderWorkflow) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	orders, err := w.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (w *OrderWorkflow) GetOrder(ctx context.Context, userID, orderID int64) (models.Order, error) {
	o, err := w.store.GetOrder(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, orderError(err)
	}
	return o, nil
}

// CancelOrder moves a pending order to cancelled and puts its stock back.
func (w *OrderWorkflow) CancelOrder(ctx context.Context, userID, orderID int64) (models.Order, error) {
	var cancelled models.Order
	err := w.store.InTx(ctx, func(q store.Querier) error {
		o, err := q.GetOrderForUpdate(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if o.Status != models.OrderStatusPending {
			return newError(KindInvalidState, "Can only cancel pending orders")
		}
		if err := q.UpdateOrderStatus(ctx, o.ID, models.OrderStatusCancelled); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := q.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restock product %d: %w", item.ProductID, err)
			}
		}
		cancelled, err = q.GetOrder(ctx, userID, o.ID)
		return err
	})
	if err != nil {
		return models.Order{}, orderError(err)
	}

	w.log.Info("order cancelled", zap.Int64("user_id", userID), zap.Int64("order_id", orderID))
	return cancelled, nil
}

func orderError(err error) error {
	var businessErr *Error
	if errors.As(err, &businessErr) {
		return businessErr
	}
	if errors.Is(err, store.ErrNotFound) {
		return newError(KindNotFound, "Order not found")
	}
	return fmt.Errorf("order: %w", err)
}
