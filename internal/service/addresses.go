package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

// AddressInput is a new address.
type AddressInput struct {
	Label                string
	Street               string
	City                 string
	State                string
	PostalCode           string
	Country              string
	IsDefault            bool
	DeliveryInstructions *string
}

// AddressBook manages a user's saved delivery addresses. At most one address
// per user is the default.
type AddressBook struct {
	store store.Store
	log   *zap.Logger
}

func NewAddressBook(st store.Store, log *zap.Logger) *AddressBook {
	return &AddressBook{store: st, log: log}
}

// List returns the default address first, then the rest newest first.
func (b *AddressBook) List(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses, err := b.store.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

func (b *AddressBook) Get(ctx context.Context, userID, addressID int64) (models.Address, error) {
	a, err := b.store.GetAddress(ctx, userID, addressID)
	if err != nil {
		return models.Address{}, addressError(err)
	}
	return a, nil
}

func (b *AddressBook) Create(ctx context.Context, userID int64, in AddressInput) (models.Address, error) {
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = models.DefaultCountry
	}
	now := time.Now().UTC()
	a := models.Address{
		UserID:               userID,
		Label:                in.Label,
		Street:               in.Street,
		City:                 in.City,
		State:                in.State,
		PostalCode:           in.PostalCode,
		Country:              country,
		IsDefault:            in.IsDefault,
		DeliveryInstructions: in.DeliveryInstructions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := b.store.InTx(ctx, func(q store.Querier) error {
		if a.IsDefault {
			if err := q.ClearDefaultAddresses(ctx, userID, 0); err != nil {
				return err
			}
		}
		return q.CreateAddress(ctx, &a)
	})
	if err != nil {
		return models.Address{}, fmt.Errorf("create address: %w", err)
	}
	return a, nil
}

// Update applies the set fields of patch. Setting is_default true clears the
// flag on the user's other addresses in the same transaction.
func (b *AddressBook) Update(ctx context.Context, userID, addressID int64, patch models.AddressPatch) (models.Address, error) {
	var updated models.Address
	err := b.store.InTx(ctx, func(q store.Querier) error {
		a, err := q.GetAddress(ctx, userID, addressID)
		if err != nil {
			return err
		}
		patch.Apply(&a)
		a.UpdatedAt = time.Now().UTC()

		if patch.IsDefault != nil && *patch.IsDefault {
			if err := q.ClearDefaultAddresses(ctx, userID, a.ID); err != nil {
				return err
			}
		}
		if err := q.UpdateAddress(ctx, &a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return models.Address{}, addressError(err)
	}
	return updated, nil
}

// Delete removes the address. Deleting the default leaves the user without
// one; no other address is promoted.
func (b *AddressBook) Delete(ctx context.Context, userID, addressID int64) error {
	if err := b.store.DeleteAddress(ctx, userID, addressID); err != nil {
		return addressError(err)
	}
	b.log.Debug("address deleted", zap.Int64("user_id", userID), zap.Int64("address_id", addressID))
	return nil
}

func (b *AddressBook) SetDefault(ctx context.Context, userID, addressID int64) (models.Address, error) {
	var updated models.Address
	err := b.store.InTx(ctx, func(q store.Querier) error {
		a, err := q.GetAddress(ctx, userID, addressID)
		if err != nil {
			return err
		}
		if err := q.ClearDefaultAddresses(ctx, userID, 0); err != nil {
			return err
		}
		a.IsDefault = true
		a.UpdatedAt = time.Now().UTC()
		if err := q.UpdateAddress(ctx, &a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return models.Address{}, addressError(err)
	}
	return updated, nil
}

func addressError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(KindNotFound, "Address not found")
	}
	return fmt.Errorf("address: %w", err)
}
