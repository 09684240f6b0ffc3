// Package memory holds process-local stores for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conflictLocked("", user); err != nil {
		return nil, err
	}
	c := *user
	c.ID = uuid.NewString()
	stored := c
	r.users[c.ID] = &stored
	return &c, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if err := r.conflictLocked(user.ID, user); err != nil {
		return err
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// conflictLocked enforces the unique username and email, ignoring selfID.
func (r *UserRepository) conflictLocked(selfID string, user *domain.User) error {
	for id, u := range r.users {
		if id == selfID {
			continue
		}
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	return nil
}
