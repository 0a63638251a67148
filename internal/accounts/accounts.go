// Package accounts implements spec.md §11's supplemented accounts
// surface: registration, login, JWT issuance, and per-user API usage
// accounting. It is optional and orthogonal to the match engine — a
// deployment can run /v1/match unauthenticated and never construct an
// Accounts value. Grounded on
// original_source/src/handlers.rs (register, login, get_api_usage) and
// original_source/src/models.rs (User), translated from axum extractors
// into plain methods on an Accounts struct backed by an AccountStore.
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login on a missing user or a
// password that fails to verify, matching the original's
// collapsed "Invalid credentials" response that does not distinguish the
// two to avoid account enumeration.
var ErrInvalidCredentials = errors.New("accounts: invalid credentials")

// ErrEmailTaken is returned by Register when the email already has an
// account.
var ErrEmailTaken = errors.New("accounts: email already registered")

// User mirrors original_source/src/models.rs's User.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// APIUsage is one recorded call against a metered endpoint.
type APIUsage struct {
	ID        int64
	UserID    string
	APILink   string
	Timestamp time.Time
}

// AccountStore is the persistence boundary Accounts depends on.
type AccountStore interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	RecordUsage(ctx context.Context, userID, apiLink string, at time.Time) error
	UsageByUser(ctx context.Context, userID string) ([]APIUsage, error)
}

// Accounts issues and verifies JWTs and mediates access to an
// AccountStore.
type Accounts struct {
	store     AccountStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

// New builds Accounts. tokenTTLHours of 0 falls back to 24, matching the
// original's fixed Duration::hours(24).
func New(store AccountStore, jwtSecret string, tokenTTLHours int) *Accounts {
	if tokenTTLHours == 0 {
		tokenTTLHours = 24
	}
	return &Accounts{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
	}
}

// Register hashes password with bcrypt at the library default cost and
// creates a new user, assigning a fresh UUIDv7 as the id.
func (a *Accounts) Register(ctx context.Context, email, password string) error {
	if _, err := a.store.UserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	return a.store.CreateUser(ctx, User{
		ID:           id.String(),
		Email:        email,
		PasswordHash: string(hash),
	})
}

// claims is the JWT payload: just the subject (email) and the standard
// registered claims, matching original_source/handlers.rs's Claims{sub,
// exp}.
type claims struct {
	jwt.RegisteredClaims
}

// Login verifies email/password against the store and, on success,
// returns a signed JWT with subject=email and an expiry tokenTTL from
// now.
func (a *Accounts) Login(ctx context.Context, email, password string) (string, error) {
	user, err := a.store.UserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(a.jwtSecret)
}

// VerifyToken parses and validates a JWT issued by Login, returning the
// subject (email) it was issued for.
func (a *Accounts) VerifyToken(tokenString string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	return c.Subject, nil
}

// RecordAPIUsage logs one call against apiLink for userID, the store's
// user primary key (see UserIDByEmail) — not the email itself, so
// Postgres's api_usage.user_id stays an actual foreign key into users.id.
func (a *Accounts) RecordAPIUsage(ctx context.Context, userID, apiLink string) error {
	return a.store.RecordUsage(ctx, userID, apiLink, time.Now())
}

// ListAPIUsage returns every recorded call for userID.
func (a *Accounts) ListAPIUsage(ctx context.Context, userID string) ([]APIUsage, error) {
	return a.store.UsageByUser(ctx, userID)
}

// UserIDByEmail resolves email to the store's user primary key, for
// callers (HTTP handlers keyed off a JWT's email subject) that need the
// real ID rather than the email to record or list usage.
func (a *Accounts) UserIDByEmail(ctx context.Context, email string) (string, error) {
	user, err := a.store.UserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	return user.ID, nil
}
