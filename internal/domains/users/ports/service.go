package ports

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/users/domain"
)

// Service exposes the authentication use cases.
type Service interface {
	Register(ctx context.Context, in domain.RegistrationInput) (*domain.User, error)
	LoginByEmail(ctx context.Context, email, password string) (*domain.Session, error)
	LoginByUsername(ctx context.Context, username, password string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
