package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

// Pagination bounds for product listings.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100
)

// ProductQuery filters a product listing. Category is a category name.
type ProductQuery struct {
	Category string
	Search   string
	Skip     int
	Limit    int
}

// Catalog is the read side of categories and products. Inactive products
// are invisible through every method.
type Catalog struct {
	store store.Store
}

func NewCatalog(st store.Store) *Catalog {
	return &Catalog{store: st}
}

// List returns a page of active products ordered by id. An unknown category
// name matches nothing. Limit is clamped to [1, MaxPageLimit] with zero
// meaning DefaultPageLimit.
func (c *Catalog) List(ctx context.Context, query ProductQuery) ([]models.Product, error) {
	filter := models.ProductFilter{
		Search: strings.TrimSpace(query.Search),
		Skip:   query.Skip,
		Limit:  query.Limit,
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultPageLimit
	case filter.Limit < 1:
		filter.Limit = 1
	case filter.Limit > MaxPageLimit:
		filter.Limit = MaxPageLimit
	}

	if name := strings.TrimSpace(query.Category); name != "" {
		category, err := c.store.GetCategoryByName(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return []models.Product{}, nil
			}
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		filter.CategoryID = &category.ID
	}

	products, err := c.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Catalog) Get(ctx context.Context, productID int64) (models.Product, error) {
	p, err := c.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Product{}, newError(KindNotFound, "Product not found")
		}
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}
	if !p.IsActive {
		return models.Product{}, newError(KindNotFound, "Product not found")
	}
	return p, nil
}

// ListByCategory returns every active product of the named category. Unlike
// List, an unknown category is an error.
func (c *Catalog) ListByCategory(ctx context.Context, name string) ([]models.Product, error) {
	category, err := c.store.GetCategoryByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, "Category not found")
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	products, err := c.store.ListProducts(ctx, models.ProductFilter{CategoryID: &category.ID})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Categories lists every category ordered by name.
func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
