package models

import "time"

// DefaultCountry is used when an address or order omits the country.
const DefaultCountry = "India"

// Address is the model for the 'user_addresses' table.
type Address struct {
	ID                   int64     `json:"id" db:"id"`
	UserID               int64     `json:"user_id" db:"user_id"`
	Label                string    `json:"label" db:"label"`
	Street               string    `json:"street" db:"street"`
	City                 string    `json:"city" db:"city"`
	State                string    `json:"state" db:"state"`
	PostalCode           string    `json:"postal_code" db:"postal_code"`
	Country              string    `json:"country" db:"country"`
	IsDefault            bool      `json:"is_default" db:"is_default"`
	DeliveryInstructions *string   `json:"delivery_instructions" db:"delivery_instructions"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// AddressPatch carries a partial address update. A nil field is left as is;
// there is no way to null a column through a patch.
type AddressPatch struct {
	Label                *string `json:"label" binding:"omitempty,max=50"`
	Street               *string `json:"street" binding:"omitempty,max=255"`
	City                 *string `json:"city" binding:"omitempty,max=100"`
	State                *string `json:"state" binding:"omitempty,max=100"`
	PostalCode           *string `json:"postal_code" binding:"omitempty,max=20"`
	Country              *string `json:"country" binding:"omitempty,max=100"`
	IsDefault            *bool   `json:"is_default"`
	DeliveryInstructions *string `json:"delivery_instructions"`
}

// Apply copies every set field of the patch onto a.
func (p AddressPatch) Apply(a *Address) {
	if p.Label != nil {
		a.Label = *p.Label
	}
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.PostalCode != nil {
		a.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
	if p.DeliveryInstructions != nil {
		a.DeliveryInstructions = p.DeliveryInstructions
	}
}
