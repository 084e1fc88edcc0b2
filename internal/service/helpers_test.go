package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshmart/grocery-api/internal/auth"
	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store/memory"
)

const testSecret = "test-secret-key"

type testEnv struct {
	store     *memory.Store
	auth      *Authenticator
	addresses *AddressBook
	catalog   *Catalog
	orders    *OrderWorkflow
	tokens    *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memory.New()
	log := zap.NewNop()
	tokens := auth.NewTokenIssuer(testSecret, 0)
	return &testEnv{
		store:     st,
		auth:      NewAuthenticator(st, tokens, bcrypt.MinCost, log),
		addresses: NewAddressBook(st, log),
		catalog:   NewCatalog(st),
		orders:    NewOrderWorkflow(st, DefaultPricing(), log),
		tokens:    tokens,
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), Registration{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) createCategory(t *testing.T, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Slug: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.CreateCategory(context.Background(), &c))
	return c
}

func (e *testEnv) createProduct(t *testing.T, categoryID int64, name, price string, stock int) models.Product {
	t.Helper()
	now := time.Now().UTC()
	p := models.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, e.store.CreateProduct(context.Background(), &p))
	return p
}

func (e *testEnv) stockOf(t *testing.T, productID int64) int {
	t.Helper()
	p, err := e.store.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
