package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store/memory"
)

func TestRun_LoadsOnce(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	loaded, err := Run(ctx, st, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = Run(ctx, st, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, loaded)

	cats, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(categories))

	list, err := st.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, len(products))
}

func TestRun_Accounts(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	_, err := Run(ctx, st, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	admin, err := st.GetUserByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	ok, err := (&models.Password{Hash: admin.HashedPassword}).Matches(AdminPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	customer, err := st.GetUserByUsername(ctx, CustomerUsername)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, customer.Role)

	addresses, err := st.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)
	assert.Equal(t, "Mumbai", addresses[0].City)
}

func TestRun_CategorySlugs(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	_, err := Run(ctx, st, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	c, err := st.GetCategoryByName(ctx, "Beverages")
	require.NoError(t, err)
	assert.Equal(t, "beverages", c.Slug)
	require.NotNil(t, c.Icon)
}
