package sqlstore

import (
	"context"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

const addressColumns = `id, user_id, label, street, city, state, postal_code, country,
	is_default, delivery_instructions, created_at, updated_at`

func (q *queries) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses := []models.Address{}
	err := q.selectAll(ctx, &addresses, `
		SELECT `+addressColumns+`
		FROM user_addresses
		WHERE user_id = ?
		ORDER BY is_default DESC, created_at DESC, id DESC`, userID)
	return addresses, err
}

func (q *queries) GetAddress(ctx context.Context, userID, id int64) (models.Address, error) {
	var a models.Address
	err := q.get(ctx, &a, "SELECT "+addressColumns+" FROM user_addresses WHERE id = ? AND user_id = ?", id, userID)
	return a, err
}

func (q *queries) CreateAddress(ctx context.Context, a *models.Address) error {
	id, err := q.insert(ctx, `
		INSERT INTO user_addresses (user_id, label, street, city, state, postal_code, country,
			is_default, delivery_instructions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Label, a.Street, a.City, a.State, a.PostalCode, a.Country,
		a.IsDefault, a.DeliveryInstructions, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (q *queries) UpdateAddress(ctx context.Context, a *models.Address) error {
	_, err := q.exec(ctx, `
		UPDATE user_addresses
		SET label = ?, street = ?, city = ?, state = ?, postal_code = ?, country = ?,
			is_default = ?, delivery_instructions = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		a.Label, a.Street, a.City, a.State, a.PostalCode, a.Country,
		a.IsDefault, a.DeliveryInstructions, a.UpdatedAt, a.ID, a.UserID)
	return err
}

func (q *queries) DeleteAddress(ctx context.Context, userID, id int64) error {
	res, err := q.exec(ctx, "DELETE FROM user_addresses WHERE id = ? AND user_id = ?", id, userID)
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

func (q *queries) ClearDefaultAddresses(ctx context.Context, userID, exceptID int64) error {
	_, err := q.exec(ctx, `
		UPDATE user_addresses SET is_default = FALSE
		WHERE user_id = ? AND id <> ? AND is_default = TRUE`, userID, exceptID)
	return err
}
