package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidEmail  = errors.New("a valid email address is required")
	ErrEmptyUsername = errors.New("username is required")
	ErrShortPassword = errors.New("password must be at least 6 characters")
	ErrEmptyPassword = errors.New("password is required")
)

// MinPasswordLength is the smallest password accepted at registration.
const MinPasswordLength = 6

// User is an authenticated account. The password hash never leaves the
// persistence layer through this type.
type User struct {
	ID        string
	Email     string
	Username  string
	CreatedAt time.Time
}

// Session is a bearer token bound to a username with an expiry.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// RegistrationInput carries the fields needed to create an account.
type RegistrationInput struct {
	Email    string
	Username string
	Password string
}

func (in RegistrationInput) Validate() error {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(in.Username) == "" {
		return ErrEmptyUsername
	}
	if in.Password == "" {
		return ErrEmptyPassword
	}
	if len(in.Password) < MinPasswordLength {
		return ErrShortPassword
	}
	return nil
}
