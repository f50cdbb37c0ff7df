package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/averost/commerce-api/internal/domains/users/domain"
	"github.com/averost/commerce-api/internal/domains/users/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

var (
	_ ports.Repository   = (*Repository)(nil)
	_ ports.SessionStore = (*SessionStore)(nil)
)

// Repository persists user accounts in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid"`
	Email        string    `gorm:"column:email"`
	Username     string    `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userRecord) TableName() string { return "users" }

// Create inserts the account. The unique indexes on email and username
// arbitrate duplicates; a pre-check distinguishes which field collided.
func (r *Repository) Create(ctx context.Context, user domain.User, passwordHash string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fault.Classify(err)
	}
	if count > 0 {
		return ports.ErrEmailTaken
	}
	record := userRecord{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if fault.IsConflict(err) {
			// Email was free a moment ago, so the username index hit.
			return ports.ErrUsernameTaken
		}
		return fault.Classify(err)
	}
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*ports.StoredUser, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*ports.StoredUser, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *Repository) findOne(ctx context.Context, query string, arg string) (*ports.StoredUser, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row userRecord
	if err := r.db.WithContext(ctx).Take(&row, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fault.Classify(err)
	}
	return &ports.StoredUser{
		User: domain.User{
			ID:        row.ID,
			Email:     row.Email,
			Username:  row.Username,
			CreatedAt: row.CreatedAt,
		},
		PasswordHash: row.PasswordHash,
	}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres users repository not configured")
	}
	return nil
}

// SessionStore persists bearer sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

func (s *SessionStore) Create(ctx context.Context, session domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := sessionRecord{
		Token:     session.Token,
		Username:  session.Username,
		CreatedAt: session.CreatedAt,
	}
	if !session.ExpiresAt.IsZero() {
		expires := session.ExpiresAt
		record.ExpiresAt = &expires
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fault.Classify(err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var row sessionRecord
	if err := s.db.WithContext(ctx).Take(&row, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, fault.Classify(err)
	}
	session := domain.Session{
		Token:     row.Token,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
	}
	if row.ExpiresAt != nil {
		session.ExpiresAt = *row.ExpiresAt
	}
	return &session, nil
}

// PurgeExpired removes sessions past their expiry, run from the
// background scheduler.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&sessionRecord{})
	if res.Error != nil {
		return 0, fault.Classify(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
