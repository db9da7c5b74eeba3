package repository

import (
	"context"
	"sort"
	"sync"

	"quill/internal/domain"
)

// MemoryCommentRepository keeps comments in a mutex-guarded map.
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment
}

// NewMemoryCommentRepository creates an empty in-memory comment store.
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[string]*domain.Comment)}
}

func (r *MemoryCommentRepository) Save(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	stored := *comment

	r.mu.Lock()
	r.comments[stored.ID] = &stored
	r.mu.Unlock()

	cp := stored
	return &cp, nil
}

func (r *MemoryCommentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *comment
	return &cp, nil
}

func (r *MemoryCommentRepository) FindByPostID(_ context.Context, postID string, limit int) ([]*domain.Comment, error) {
	r.mu.RLock()
	comments := r.collect(func(c *domain.Comment) bool { return c.PostID == postID })
	r.mu.RUnlock()

	sortCommentsAsc(comments)
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (r *MemoryCommentRepository) FindByAuthor(_ context.Context, author string) ([]*domain.Comment, error) {
	r.mu.RLock()
	comments := r.collect(func(c *domain.Comment) bool { return c.UserID == author })
	r.mu.RUnlock()

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *MemoryCommentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.comments, id)
	r.mu.Unlock()
	return nil
}

func (r *MemoryCommentRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.comments[id]
	return ok, nil
}

// collect must be called with the read lock held.
func (r *MemoryCommentRepository) collect(keep func(*domain.Comment) bool) []*domain.Comment {
	var comments []*domain.Comment
	for _, c := range r.comments {
		if keep(c) {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	return comments
}

// Comment threads read chronologically, oldest first. Ties fall back to
// id so the order is stable for same-timestamp writes.
func sortCommentsAsc(comments []*domain.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		ti, tj := comments[i].CreatedAt, comments[j].CreatedAt
		if ti.Equal(tj) {
			return comments[i].ID < comments[j].ID
		}
		return ti.Before(tj)
	})
}
