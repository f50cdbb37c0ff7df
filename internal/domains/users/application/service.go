package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/averost/commerce-api/internal/domains/users/domain"
	"github.com/averost/commerce-api/internal/domains/users/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

// DefaultSessionTTL bounds how long a login token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Service implements registration and login. Passwords are hashed with
// bcrypt at the default cost; sessions are opaque bearer tokens.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	sessionTTL time.Duration
}

func NewService(repo ports.Repository, sessions ports.SessionStore, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{repo: repo, sessions: sessions, sessionTTL: sessionTTL}
}

func (s *Service) Register(ctx context.Context, in domain.RegistrationInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fault.New(fault.KindPersistence, err)
	}
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Username:  strings.TrimSpace(in.Username),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user, string(hash)); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (s *Service) LoginByEmail(ctx context.Context, email, password string) (*domain.Session, error) {
	stored, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	return s.login(ctx, stored, err, password)
}

func (s *Service) LoginByUsername(ctx context.Context, username, password string) (*domain.Session, error) {
	stored, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	return s.login(ctx, stored, err, password)
}

// login folds a missing account and a wrong password into the same
// invalid-credentials outcome so lookups cannot probe for accounts.
func (s *Service) login(ctx context.Context, stored *ports.StoredUser, lookupErr error, password string) (*domain.Session, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, ports.ErrUserNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, mapError(lookupErr)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	now := time.Now().UTC()
	session := domain.Session{
		Token:     uuid.NewString(),
		Username:  stored.User.Username,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, mapError(err)
	}
	return &session, nil
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, mapError(ports.ErrSessionNotFound)
	}
	session, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	if session.Expired(time.Now().UTC()) {
		return nil, mapError(ports.ErrSessionNotFound)
	}
	return session, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrShortPassword):
		return fault.New(fault.KindValidation, err)
	case errors.Is(err, ports.ErrEmailTaken),
		errors.Is(err, ports.ErrUsernameTaken):
		return fault.New(fault.KindConflict, err)
	case errors.Is(err, ports.ErrInvalidCredentials),
		errors.Is(err, ports.ErrSessionNotFound):
		// Auth failures stay as-is; the transport maps them to 401.
		return err
	case errors.Is(err, ports.ErrUserNotFound):
		return fault.New(fault.KindNotFound, err)
	}
	return fault.Classify(err)
}

var _ ports.Service = (*Service)(nil)
