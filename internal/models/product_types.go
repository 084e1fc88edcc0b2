package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes out as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the model for the 'products' table.
type Product struct {
	ID            int64               `json:"id" db:"id"`
	CategoryID    int64               `json:"category_id" db:"category_id"`
	Name          string              `json:"name" db:"name"`
	Description   *string             `json:"description" db:"description"`
	Price         decimal.Decimal     `json:"price" db:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price" db:"original_price"`
	ImageURL      *string             `json:"image_url" db:"image_url"`
	Badge         *string             `json:"badge" db:"badge"`
	Rating        decimal.Decimal     `json:"rating" db:"rating"`
	ReviewsCount  int                 `json:"reviews_count" db:"reviews_count"`
	Stock         int                 `json:"stock" db:"stock"`
	IsActive      bool                `json:"is_active" db:"is_active"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

// ProductFilter narrows a catalog listing. CategoryID is resolved from the
// category name by the caller; nil means no category filter. A zero Limit
// returns every match and ignores Skip.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	Skip       int
	Limit      int
}
