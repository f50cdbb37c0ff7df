package ports

import (
	"context"
	"errors"
	"time"

	"github.com/averost/commerce-api/internal/domains/users/domain"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

// StoredUser pairs an account with its password hash for credential
// checks. Only repository callers inside the users context see this.
type StoredUser struct {
	User         domain.User
	PasswordHash string
}

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, user domain.User, passwordHash string) error
	FindByEmail(ctx context.Context, email string) (*StoredUser, error)
	FindByUsername(ctx context.Context, username string) (*StoredUser, error)
}

// SessionStore persists bearer sessions.
type SessionStore interface {
	Create(ctx context.Context, session domain.Session) error
	Lookup(ctx context.Context, token string) (*domain.Session, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
