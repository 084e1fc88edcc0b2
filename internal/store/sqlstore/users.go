package sqlstore

import (
	"context"

	"github.com/freshmart/grocery-api/internal/models"
)

const userColumns = `id, username, email, hashed_password, first_name, last_name, phone,
	is_active, is_verified, role, created_at, updated_at`

func (q *queries) CreateUser(ctx context.Context, u *models.User) error {
	id, err := q.insert(ctx, `
		INSERT INTO users (username, email, hashed_password, first_name, last_name, phone,
			is_active, is_verified, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.HashedPassword, u.FirstName, u.LastName, u.Phone,
		u.IsActive, u.IsVerified, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (q *queries) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := q.get(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return u, err
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := q.get(ctx, &u, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return u, err
}

func (q *queries) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return q.exists(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username)
}

func (q *queries) EmailTaken(ctx context.Context, email string) (bool, error) {
	return q.exists(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", email)
}

func (q *queries) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int
	if err := q.get(ctx, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}
