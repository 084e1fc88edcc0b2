package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

const orderColumns = `id, user_id, delivery_street, delivery_city, delivery_state, delivery_postal_code,
	delivery_country, delivery_instructions, subtotal, delivery_fee, tax, total,
	status, payment_method, payment_status, created_at, updated_at`

const orderItemColumns = "id, order_id, product_id, product_name, product_price, quantity, subtotal"

// CreateOrder writes the header and then every item.
func (q *queries) CreateOrder(ctx context.Context, o *models.Order) error {
	orderID, err := q.insert(ctx, `
		INSERT INTO orders (user_id, delivery_street, delivery_city, delivery_state, delivery_postal_code,
			delivery_country, delivery_instructions, subtotal, delivery_fee, tax, total,
			status, payment_method, payment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.DeliveryStreet, o.DeliveryCity, o.DeliveryState, o.DeliveryPostalCode,
		o.DeliveryCountry, o.DeliveryInstructions, o.Subtotal, o.DeliveryFee, o.Tax, o.Total,
		o.Status, o.PaymentMethod, o.PaymentStatus, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	o.ID = orderID

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = orderID
		itemID, err := q.insert(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity, item.Subtotal)
		if err != nil {
			return err
		}
		item.ID = itemID
	}
	return nil
}

func (q *queries) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := q.selectAll(ctx, &orders, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	if err := q.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (q *queries) GetOrder(ctx context.Context, userID, id int64) (models.Order, error) {
	return q.getOrder(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ?", id, userID)
}

func (q *queries) GetOrderForUpdate(ctx context.Context, userID, id int64) (models.Order, error) {
	return q.getOrder(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ? AND user_id = ? FOR UPDATE", id, userID)
}

func (q *queries) getOrder(ctx context.Context, query string, args ...interface{}) (models.Order, error) {
	var o models.Order
	if err := q.get(ctx, &o, query, args...); err != nil {
		return models.Order{}, err
	}
	orders := []models.Order{o}
	if err := q.attachItems(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

// attachItems loads the items of all given orders with one IN query.
func (q *queries) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	query, args, err := sqlx.In("SELECT "+orderItemColumns+" FROM order_items WHERE order_id IN (?) ORDER BY id ASC", ids)
	if err != nil {
		return err
	}
	var items []models.OrderItem
	if err := q.selectAll(ctx, &items, query, args...); err != nil {
		return err
	}
	for _, item := range items {
		idx := byID[item.OrderID]
		orders[idx].Items = append(orders[idx].Items, item)
	}
	return nil
}

func (q *queries) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	res, err := q.exec(ctx, "UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}
