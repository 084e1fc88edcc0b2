package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

const categoryColumns = "id, name, slug, description, icon, created_at"

const productColumns = `id, category_id, name, description, price, original_price, image_url, badge,
	rating, reviews_count, stock, is_active, created_at, updated_at`

func (q *queries) CreateCategory(ctx context.Context, c *models.Category) error {
	id, err := q.insert(ctx, `
		INSERT INTO categories (name, slug, description, icon, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Slug, c.Description, c.Icon, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (q *queries) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := q.selectAll(ctx, &categories, "SELECT "+categoryColumns+" FROM categories ORDER BY name ASC")
	return categories, err
}

func (q *queries) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := q.get(ctx, &c, "SELECT "+categoryColumns+" FROM categories WHERE name = ?", name)
	return c, err
}

func (q *queries) CreateProduct(ctx context.Context, p *models.Product) error {
	id, err := q.insert(ctx, `
		INSERT INTO products (category_id, name, description, price, original_price, image_url, badge,
			rating, reviews_count, stock, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Description, p.Price, p.OriginalPrice, p.ImageURL, p.Badge,
		p.Rating, p.ReviewsCount, p.Stock, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (q *queries) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString("SELECT " + productColumns + " FROM products WHERE is_active = TRUE")

	if f.CategoryID != nil {
		queryBuilder.WriteString(" AND category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.Search != "" {
		queryBuilder.WriteString(" AND (LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)")
		searchTerm := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, searchTerm, searchTerm)
	}

	queryBuilder.WriteString(" ORDER BY id ASC")
	if f.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, f.Limit, f.Skip)
	}

	products := []models.Product{}
	err := q.selectAll(ctx, &products, queryBuilder.String(), args...)
	return products, err
}

func (q *queries) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := q.get(ctx, &p, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return p, err
}

func (q *queries) GetProductForUpdate(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := q.get(ctx, &p, "SELECT "+productColumns+" FROM products WHERE id = ? FOR UPDATE", id)
	return p, err
}

func (q *queries) DecrementStock(ctx context.Context, productID int64, qty int) error {
	res, err := q.exec(ctx, `
		UPDATE products SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND stock >= ?`, qty, time.Now().UTC(), productID, qty)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrInsufficientStock
	}
	return nil
}

func (q *queries) IncrementStock(ctx context.Context, productID int64, qty int) error {
	_, err := q.exec(ctx, "UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?",
		qty, time.Now().UTC(), productID)
	return err
}
