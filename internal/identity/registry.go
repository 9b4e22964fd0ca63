// Package identity holds user accounts and credential verification for the
// reservation service. The reservation core never sees passwords; it only
// consumes the Verifier capability.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
)

var (
	// ErrUsernameTaken means signup used an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserCapacity means the user table reached its fixed cap.
	ErrUserCapacity = errors.New("user capacity exceeded")
)

// Verifier checks a username/password pair. Implementations must not leak
// whether the username or the password was wrong.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

type user struct {
	username     string
	passwordHash string
	active       bool
}

// Registry owns the user table. Passwords are stored as bcrypt hashes only.
type Registry struct {
	mu       sync.RWMutex
	maxUsers int
	users    []user
	logger   pkgApp.AppLogger
}

func NewRegistry(maxUsers int, logger pkgApp.AppLogger) *Registry {
	return &Registry{maxUsers: maxUsers, logger: logger}
}

// Register creates an account. Usernames are unique; the table is capped.
func (r *Registry) Register(ctx context.Context, username, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.users) >= r.maxUsers {
		return fmt.Errorf("register %s: %w", username, ErrUserCapacity)
	}
	for _, u := range r.users {
		if u.username == username {
			return fmt.Errorf("register %s: %w", username, ErrUsernameTaken)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("register %s: %w", username, err)
	}

	r.users = append(r.users, user{username: username, passwordHash: string(hash), active: true})
	pkgApp.LogInfo(ctx, r.logger, "user registered", map[string]interface{}{
		"username": username,
	})
	return nil
}

// Verify reports whether the credentials match an active account.
func (r *Registry) Verify(ctx context.Context, username, password string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.active && u.username == username {
			err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
			return err == nil, nil
		}
	}
	return false, nil
}

// Count returns the number of accounts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Export returns the user table as persistence records.
func (r *Registry) Export() []domain.UserRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.UserRecord, 0, len(r.users))
	for _, u := range r.users {
		records = append(records, domain.UserRecord{
			Username:     u.username,
			PasswordHash: u.passwordHash,
			Active:       u.active,
		})
	}
	return records
}

// Load replaces the user table with persisted records.
func (r *Registry) Load(records []domain.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(records) > r.maxUsers {
		return ErrUserCapacity
	}
	r.users = r.users[:0]
	for _, rec := range records {
		r.users = append(r.users, user{
			username:     rec.Username,
			passwordHash: rec.PasswordHash,
			active:       rec.Active,
		})
	}
	return nil
}
