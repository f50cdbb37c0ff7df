package memory

import (
	"context"
	"sync"
	"time"

	"github.com/averost/commerce-api/internal/domains/users/domain"
	"github.com/averost/commerce-api/internal/domains/users/ports"
)

var (
	_ ports.Repository   = (*Repository)(nil)
	_ ports.SessionStore = (*SessionStore)(nil)
)

// Repository is an in-memory account store for unit and contract tests.
type Repository struct {
	mu    sync.RWMutex
	users map[string]ports.StoredUser
}

func NewRepository() *Repository {
	return &Repository{users: make(map[string]ports.StoredUser)}
}

func (r *Repository) Create(ctx context.Context, user domain.User, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.User.Email == user.Email {
			return ports.ErrEmailTaken
		}
		if existing.User.Username == user.Username {
			return ports.ErrUsernameTaken
		}
	}
	r.users[user.ID] = ports.StoredUser{User: user, PasswordHash: passwordHash}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*ports.StoredUser, error) {
	return r.find(ctx, func(u ports.StoredUser) bool { return u.User.Email == email })
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*ports.StoredUser, error) {
	return r.find(ctx, func(u ports.StoredUser) bool { return u.User.Username == username })
}

func (r *Repository) find(ctx context.Context, match func(ports.StoredUser) bool) (*ports.StoredUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.users {
		if match(stored) {
			out := stored
			return &out, nil
		}
	}
	return nil, ports.ErrUserNotFound
}

// Reset clears all state, used by provider-state handlers in tests.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]ports.StoredUser)
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Create(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged, nil
}

// Reset clears all state, used by provider-state handlers in tests.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]domain.Session)
}
