// Package store defines the persistence contract shared by the SQL and
// in-memory backends.
package store

import (
	"context"
	"errors"

	"github.com/freshmart/grocery-api/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a unique constraint violation.
	ErrConflict = errors.New("record already exists")
	// ErrInsufficientStock is returned when a conditional stock decrement
	// matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Querier is the set of operations available both inside and outside a
// transaction.
type Querier interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)

	// Addresses, always scoped to their owner.
	ListAddresses(ctx context.Context, userID int64) ([]models.Address, error)
	GetAddress(ctx context.Context, userID, id int64) (models.Address, error)
	CreateAddress(ctx context.Context, a *models.Address) error
	UpdateAddress(ctx context.Context, a *models.Address) error
	DeleteAddress(ctx context.Context, userID, id int64) error
	// ClearDefaultAddresses unsets is_default on every address of userID
	// except exceptID (0 clears all).
	ClearDefaultAddresses(ctx context.Context, userID, exceptID int64) error

	// Catalog
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (models.Category, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	// GetProductForUpdate reads a product and holds a row lock until the
	// surrounding transaction ends.
	GetProductForUpdate(ctx context.Context, id int64) (models.Product, error)
	// DecrementStock subtracts qty only if at least qty units are left,
	// otherwise it returns ErrInsufficientStock and changes nothing.
	DecrementStock(ctx context.Context, productID int64, qty int) error
	IncrementStock(ctx context.Context, productID int64, qty int) error

	// Orders, always scoped to their owner. Returned orders carry their items.
	CreateOrder(ctx context.Context, o *models.Order) error
	ListOrders(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, id int64) (models.Order, error)
	GetOrderForUpdate(ctx context.Context, userID, id int64) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
}

// Store is a Querier that can also open a transaction. fn runs with a
// Querier bound to the transaction; a nil return commits, anything else
// rolls back and is returned unchanged.
type Store interface {
	Querier
	InTx(ctx context.Context, fn func(q Querier) error) error
	Ping(ctx context.Context) error
	Close() error
}
