package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, expiresAt, err := issuer.GenerateToken(42, "alice", "customer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "customer", claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestDefaultTTLIsSevenDays(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("s", 0).WithClock(func() time.Time { return issued })

	_, expiresAt, err := issuer.GenerateToken(1, "u", "customer")
	require.NoError(t, err)
	assert.Equal(t, issued.Add(7*24*time.Hour), expiresAt)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	past := time.Now().Add(-8 * 24 * time.Hour)
	old := NewTokenIssuer("test-secret", 0).WithClock(func() time.Time { return past })

	token, _, err := old.GenerateToken(1, "bob", "customer")
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret", 0).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenIssuer("one", 0).GenerateToken(1, "bob", "customer")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", 0).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("s", 0).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Username: "mallory",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("s", 0).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsUserIDRejectsNonNumericSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
