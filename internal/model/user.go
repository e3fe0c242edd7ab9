package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Lookups named GetActive* constrain the query to is_active = true;
// a deactivated account is indistinguishable from a missing one.
type UserStore interface {
	GetActiveByEmail(ctx context.Context, email string) (User, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	RotateCookieKey(ctx context.Context, id uuid.UUID, cookieKey string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, cookieKey string) error
}

// User represents a stored user account.
type User struct {
	ID            uuid.UUID
	Name          string
	Email         string
	PasswordHash  string
	CookieKey     string
	IsActive      bool
	IsInitialized bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
