package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/auth"
	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

// Registration is the input for a new customer account.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        models.User
}

// Authenticator registers users, checks credentials and resolves bearer
// tokens back to users.
type Authenticator struct {
	store    store.Store
	tokens   *auth.TokenIssuer
	hashCost int
	log      *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthenticator wires an Authenticator. hashCost is the bcrypt cost used
// for new passwords.
func NewAuthenticator(st store.Store, tokens *auth.TokenIssuer, hashCost int, log *zap.Logger) *Authenticator {
	return &Authenticator{store: st, tokens: tokens, hashCost: hashCost, log: log}
}

// Register creates an active, unverified customer. Usernames and emails are
// unique; the username is checked first.
func (a *Authenticator) Register(ctx context.Context, r Registration) (models.User, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	taken, err := a.store.UsernameTaken(ctx, r.Username)
	if err != nil {
		return models.User{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return models.User{}, newError(KindDuplicateIdentity, "Username already registered")
	}
	taken, err = a.store.EmailTaken(ctx, r.Email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return models.User{}, newError(KindDuplicateIdentity, "Email already registered")
	}

	pw := models.Password{Cost: a.hashCost}
	if err := pw.Set(r.Password); err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: pw.Hash,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		IsActive:       true,
		IsVerified:     false,
		Role:           models.RoleCustomer,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.store.CreateUser(ctx, &user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, store.ErrConflict) {
			return models.User{}, newError(KindDuplicateIdentity, "Username or email already registered")
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	a.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login checks a username and password and issues an access token. Unknown
// usernames and wrong passwords fail the same way.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := a.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return Session{}, fmt.Errorf("load user: %w", err)
		}
		// Spend the same bcrypt work as a real check.
		dummy := models.Password{Hash: a.dummy()}
		_, _ = dummy.Matches(password)
		a.log.Warn("login failed", zap.String("username", username), zap.String("reason", "unknown user"))
		return Session{}, newError(KindInvalidCredentials, "Invalid username or password")
	}

	pw := models.Password{Hash: user.HashedPassword}
	ok, err := pw.Matches(password)
	if err != nil {
		return Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		a.log.Warn("login failed", zap.Int64("user_id", user.ID), zap.String("reason", "wrong password"))
		return Session{}, newError(KindInvalidCredentials, "Invalid username or password")
	}
	if !user.IsActive {
		a.log.Warn("login refused", zap.Int64("user_id", user.ID), zap.String("reason", "inactive account"))
		return Session{}, newError(KindAccountDisabled, "Account is deactivated")
	}

	token, expiresAt, err := a.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// Resolve maps a bearer token to its user. Every failure is reported as
// Unauthenticated; the cause is only logged. Deactivation blocks new logins
// but does not revoke tokens already issued.
func (a *Authenticator) Resolve(ctx context.Context, token string) (models.User, error) {
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		a.log.Warn("token rejected", zap.Error(err))
		return models.User{}, newError(KindUnauthenticated, "Could not validate credentials")
	}
	userID, err := claims.UserID()
	if err != nil {
		a.log.Warn("token rejected", zap.Error(err))
		return models.User{}, newError(KindUnauthenticated, "Could not validate credentials")
	}

	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.log.Warn("token rejected", zap.Int64("user_id", userID), zap.String("reason", "unknown user"))
			return models.User{}, newError(KindUnauthenticated, "Could not validate credentials")
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (a *Authenticator) dummy() string {
	a.dummyOnce.Do(func() {
		pw := models.Password{Cost: a.hashCost}
		if err := pw.Set("freshmart-timing-guard"); err == nil {
			a.dummyHash = pw.Hash
		}
	})
	return a.dummyHash
}
