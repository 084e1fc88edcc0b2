package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user can hold.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the model for the 'users' table.
type User struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Phone          *string   `json:"phone" db:"phone"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	IsVerified     bool      `json:"is_verified" db:"is_verified"`
	Role           string    `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MaxPasswordBytes is the longest input bcrypt takes into account.
const MaxPasswordBytes = 72

// Password wraps bcrypt hashing. Inputs longer than MaxPasswordBytes are cut
// to that length on both Set and Matches, so long passphrases still verify.
type Password struct {
	Hash string
	// Cost falls back to bcrypt.DefaultCost when zero.
	Cost int
}

func (p *Password) Set(plaintextPassword string) error {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(plaintextPassword), cost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), truncatePassword(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func truncatePassword(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
