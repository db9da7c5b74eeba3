package repository

import (
	"context"
	"sync"

	"quill/internal/domain"
)

// MemoryFavoriteRepository keeps the favorite relation as an ordered id
// list per user plus a membership set for O(1) idempotence checks.
// Insertion order is preserved; the services approximate recency by
// reversing it.
type MemoryFavoriteRepository struct {
	mu      sync.RWMutex
	ordered map[string][]string
	members map[string]map[string]struct{}
}

// NewMemoryFavoriteRepository creates an empty in-memory favorite store.
func NewMemoryFavoriteRepository() *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{
		ordered: make(map[string][]string),
		members: make(map[string]map[string]struct{}),
	}
}

func (r *MemoryFavoriteRepository) Add(_ context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[userID]
	if !ok {
		set = make(map[string]struct{})
		r.members[userID] = set
	}
	if _, dup := set[postID]; dup {
		return nil
	}
	set[postID] = struct{}{}
	r.ordered[userID] = append(r.ordered[userID], postID)
	return nil
}

func (r *MemoryFavoriteRepository) Remove(_ context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[userID]
	if !ok {
		return nil
	}
	if _, present := set[postID]; !present {
		return nil
	}
	delete(set, postID)

	ids := r.ordered[userID]
	for i, id := range ids {
		if id == postID {
			r.ordered[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryFavoriteRepository) List(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.ordered[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (r *MemoryFavoriteRepository) IsFavorited(_ context.Context, userID, postID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.members[userID]
	if !ok {
		return false, nil
	}
	_, present := set[postID]
	return present, nil
}

var _ domain.FavoriteRepository = (*MemoryFavoriteRepository)(nil)
