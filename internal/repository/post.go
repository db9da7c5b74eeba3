// Package repository provides the storage backends behind the domain's
// repository ports. Each entity has an in-memory implementation and a
// Redis-backed one; the backend is chosen once at startup.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"quill/internal/domain"
)

// MemoryPostRepository keeps posts in a mutex-guarded map. Used for
// development and tests.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*domain.BlogPost
	now   func() time.Time
}

// NewMemoryPostRepository creates an empty in-memory post store. A nil
// clock falls back to time.Now.
func NewMemoryPostRepository(now func() time.Time) *MemoryPostRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryPostRepository{
		posts: make(map[string]*domain.BlogPost),
		now:   now,
	}
}

func (r *MemoryPostRepository) Save(_ context.Context, post *domain.BlogPost) (*domain.BlogPost, error) {
	stored := clonePost(post)
	stored.UpdatedAt = r.now().UTC()

	r.mu.Lock()
	r.posts[stored.ID] = stored
	r.mu.Unlock()

	return clonePost(stored), nil
}

func (r *MemoryPostRepository) FindByID(_ context.Context, id string) (*domain.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(post), nil
}

func (r *MemoryPostRepository) FindByAuthor(_ context.Context, author string, status *domain.PostStatus) ([]*domain.BlogPost, error) {
	r.mu.RLock()
	posts := r.collect(func(p *domain.BlogPost) bool {
		return p.Author == author && (status == nil || p.Status == *status)
	})
	r.mu.RUnlock()

	sortByCreatedDesc(posts)
	return posts, nil
}

func (r *MemoryPostRepository) FindByAuthorPaged(ctx context.Context, author string, page, limit int, status *domain.PostStatus) ([]*domain.BlogPost, error) {
	posts, err := r.FindByAuthor(ctx, author, status)
	if err != nil {
		return nil, err
	}
	return pageWindow(posts, page, limit), nil
}

func (r *MemoryPostRepository) FindPublished(_ context.Context, page, limit int, author string) ([]*domain.BlogPost, error) {
	r.mu.RLock()
	posts := r.collect(func(p *domain.BlogPost) bool {
		return p.IsPublished() && (author == "" || p.Author == author)
	})
	r.mu.RUnlock()

	sortByPublishedDesc(posts)
	return pageWindow(posts, page, limit), nil
}

func (r *MemoryPostRepository) CountPublished(_ context.Context, author string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.posts {
		if p.IsPublished() && (author == "" || p.Author == author) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryPostRepository) CountByAuthor(_ context.Context, author string, status *domain.PostStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.posts {
		if p.Author == author && (status == nil || p.Status == *status) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.posts, id)
	r.mu.Unlock()
	return nil
}

func (r *MemoryPostRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.posts[id]
	return ok, nil
}

// collect must be called with the read lock held.
func (r *MemoryPostRepository) collect(keep func(*domain.BlogPost) bool) []*domain.BlogPost {
	var posts []*domain.BlogPost
	for _, p := range r.posts {
		if keep(p) {
			posts = append(posts, clonePost(p))
		}
	}
	return posts
}

func clonePost(p *domain.BlogPost) *domain.BlogPost {
	cp := *p
	if p.PublishedAt != nil {
		ts := *p.PublishedAt
		cp.PublishedAt = &ts
	}
	return &cp
}

func sortByCreatedDesc(posts []*domain.BlogPost) {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func sortByPublishedDesc(posts []*domain.BlogPost) {
	sort.Slice(posts, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if posts[i].PublishedAt != nil {
			ti = *posts[i].PublishedAt
		}
		if posts[j].PublishedAt != nil {
			tj = *posts[j].PublishedAt
		}
		return ti.After(tj)
	})
}

// pageWindow applies (page-1)*limit offset windowing. Values are assumed
// to be pre-clamped by the domain services; out-of-range windows return
// an empty slice.
func pageWindow[T any](items []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return nil
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
