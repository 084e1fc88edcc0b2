// Package seed loads the demo accounts and sample catalog.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

// Demo credentials created by Run.
const (
	AdminUsername    = "admin"
	AdminPassword    = "admin123"
	CustomerUsername = "john_doe"
	CustomerPassword = "password123"
)

type categorySeed struct {
	name, description, icon string
}

var categories = []categorySeed{
	{"Fruits", "Fresh fruits", "🍎"},
	{"Vegetables", "Fresh vegetables", "🥬"},
	{"Dairy", "Milk and dairy products", "🥛"},
	{"Meat", "Fresh meat", "🥩"},
	{"Seafood", "Fresh seafood", "🐟"},
	{"Bakery", "Bread and bakery items", "🍞"},
	{"Grains", "Rice, wheat, and grains", "🌾"},
	{"Beverages", "Drinks and beverages", "🥤"},
}

type productSeed struct {
	category      string
	name          string
	description   string
	price         string
	originalPrice string
	badge         string
	stock         int
	rating        string
	reviews       int
	imageURL      string
}

var products = []productSeed{
	{"Fruits", "Organic Apples", "Fresh organic apples from local farms", "120", "150", "Organic", 100, "4.5", 45, "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6"},
	{"Fruits", "Fresh Bananas", "Ripe yellow bananas", "40", "50", "Fresh", 150, "4.3", 32, ""},
	{"Fruits", "Sweet Oranges", "Juicy sweet oranges", "80", "100", "Premium", 80, "4.6", 28, ""},
	{"Vegetables", "Fresh Tomatoes", "Farm fresh tomatoes", "30", "40", "Fresh", 200, "4.4", 56, ""},
	{"Vegetables", "Organic Spinach", "Organic green spinach", "25", "35", "Organic", 120, "4.7", 41, ""},
	{"Vegetables", "Fresh Carrots", "Crunchy fresh carrots", "35", "45", "Fresh", 150, "4.5", 38, ""},
	{"Dairy", "Fresh Milk", "Full cream fresh milk 1L", "60", "70", "Fresh", 100, "4.8", 89, ""},
	{"Dairy", "Greek Yogurt", "Creamy Greek yogurt", "80", "100", "Premium", 60, "4.6", 52, ""},
	{"Dairy", "Cheddar Cheese", "Aged cheddar cheese", "250", "300", "Premium", 40, "4.7", 34, ""},
	{"Meat", "Chicken Breast", "Fresh chicken breast 500g", "180", "220", "Fresh", 50, "4.5", 67, ""},
	{"Meat", "Lamb Chops", "Premium lamb chops", "450", "550", "Premium", 30, "4.8", 23, ""},
	{"Seafood", "Fresh Salmon", "Atlantic salmon fillet", "600", "750", "Premium", 25, "4.9", 45, ""},
	{"Seafood", "Prawns", "Large fresh prawns", "400", "500", "Fresh", 35, "4.7", 38, ""},
	{"Bakery", "Whole Wheat Bread", "Fresh whole wheat bread", "40", "50", "Fresh", 80, "4.4", 92, ""},
	{"Bakery", "Croissants", "Butter croissants pack of 6", "120", "150", "Artisan", 40, "4.8", 56, ""},
	{"Grains", "Basmati Rice", "Premium basmati rice 5kg", "350", "400", "Premium", 100, "4.6", 78, ""},
	{"Grains", "Quinoa", "Organic quinoa 1kg", "280", "350", "Organic", 50, "4.7", 34, ""},
	{"Beverages", "Orange Juice", "Fresh orange juice 1L", "120", "150", "Fresh", 70, "4.5", 67, ""},
	{"Beverages", "Green Tea", "Organic green tea 100g", "200", "250", "Organic", 90, "4.8", 89, ""},
}

// Run writes the demo data in one transaction. It does nothing and returns
// false when the admin account already exists.
func Run(ctx context.Context, st store.Store, hashCost int, log *zap.Logger) (bool, error) {
	exists, err := st.UsernameTaken(ctx, AdminUsername)
	if err != nil {
		return false, fmt.Errorf("check existing data: %w", err)
	}
	if exists {
		log.Info("seed skipped, database already has data")
		return false, nil
	}

	now := time.Now().UTC()
	err = st.InTx(ctx, func(q store.Querier) error {
		admin, err := newUser(AdminUsername, "admin@freshmart.com", "Admin", "User", "9999999999", AdminPassword, models.RoleAdmin, hashCost, now)
		if err != nil {
			return err
		}
		if err := q.CreateUser(ctx, &admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		customer, err := newUser(CustomerUsername, "john@example.com", "John", "Doe", "9876543210", CustomerPassword, models.RoleCustomer, hashCost, now)
		if err != nil {
			return err
		}
		if err := q.CreateUser(ctx, &customer); err != nil {
			return fmt.Errorf("create customer: %w", err)
		}

		instructions := "Ring the doorbell twice"
		home := models.Address{
			UserID:               customer.ID,
			Label:                "Home",
			Street:               "123 Main Street, Apartment 4B",
			City:                 "Mumbai",
			State:                "Maharashtra",
			PostalCode:           "400001",
			Country:              models.DefaultCountry,
			IsDefault:            true,
			DeliveryInstructions: &instructions,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := q.CreateAddress(ctx, &home); err != nil {
			return fmt.Errorf("create address: %w", err)
		}

		categoryIDs := make(map[string]int64, len(categories))
		for _, cs := range categories {
			description, icon := cs.description, cs.icon
			c := models.Category{
				Name:        cs.name,
				Slug:        slug.Make(cs.name),
				Description: &description,
				Icon:        &icon,
				CreatedAt:   now,
			}
			if err := q.CreateCategory(ctx, &c); err != nil {
				return fmt.Errorf("create category %s: %w", cs.name, err)
			}
			categoryIDs[cs.name] = c.ID
		}

		for _, ps := range products {
			p := ps.product(categoryIDs[ps.category], now)
			if err := q.CreateProduct(ctx, &p); err != nil {
				return fmt.Errorf("create product %s: %w", ps.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info("seed data loaded",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)),
	)
	return true, nil
}

func newUser(username, email, first, last, phone, password, role string, cost int, now time.Time) (models.User, error) {
	pw := models.Password{Cost: cost}
	if err := pw.Set(password); err != nil {
		return models.User{}, fmt.Errorf("hash password for %s: %w", username, err)
	}
	return models.User{
		Username:       username,
		Email:          email,
		HashedPassword: pw.Hash,
		FirstName:      first,
		LastName:       last,
		Phone:          &phone,
		IsActive:       true,
		IsVerified:     true,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (ps productSeed) product(categoryID int64, now time.Time) models.Product {
	description, badge := ps.description, ps.badge
	p := models.Product{
		CategoryID:    categoryID,
		Name:          ps.name,
		Description:   &description,
		Price:         decimal.RequireFromString(ps.price),
		OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString(ps.originalPrice)),
		Badge:         &badge,
		Rating:        decimal.RequireFromString(ps.rating),
		ReviewsCount:  ps.reviews,
		Stock:         ps.stock,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ps.imageURL != "" {
		url := ps.imageURL
		p.ImageURL = &url
	}
	return p
}
