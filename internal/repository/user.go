package repository

import (
	"context"
	"sync"

	"quill/internal/domain"
)

// MemoryUserRepository keeps user profiles in a mutex-guarded map keyed
// by the external identity UID.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	stored := *user

	r.mu.Lock()
	r.users[stored.UID] = &stored
	r.mu.Unlock()

	cp := stored
	return &cp, nil
}

func (r *MemoryUserRepository) FindByUID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

var _ domain.UserRepository = (*MemoryUserRepository)(nil)
