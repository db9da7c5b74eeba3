// Package domain holds the blog's entities and the business rules that
// travel with them.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostStatus is the two-state visibility lifecycle of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// BlogPost is the post entity. Authorization rules live on the entity
// itself, not in the callers.
type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Author      string     `json:"author"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewBlogPost creates a draft post. All text fields are trimmed and must
// be non-empty after trimming.
func NewBlogPost(title, content, excerpt, author string, now func() time.Time) (*BlogPost, error) {
	if now == nil {
		now = time.Now
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	excerpt = strings.TrimSpace(excerpt)
	author = strings.TrimSpace(author)

	switch {
	case title == "":
		return nil, NewValidationError("title cannot be empty")
	case content == "":
		return nil, NewValidationError("content cannot be empty")
	case excerpt == "":
		return nil, NewValidationError("excerpt cannot be empty")
	case author == "":
		return nil, NewValidationError("author cannot be empty")
	}

	ts := now().UTC()
	return &BlogPost{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Excerpt:   excerpt,
		Author:    author,
		Status:    StatusDraft,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// Publish transitions the post from draft to published and stamps
// PublishedAt. Publishing an already-published post is a caller bug.
func (p *BlogPost) Publish(now func() time.Time) error {
	if p.Status == StatusPublished {
		return NewValidationError("post is already published")
	}
	if now == nil {
		now = time.Now
	}
	ts := now().UTC()
	p.Status = StatusPublished
	p.PublishedAt = &ts
	p.UpdatedAt = ts
	return nil
}

// Unpublish is the exact inverse of Publish: the post returns to draft
// and PublishedAt is cleared.
func (p *BlogPost) Unpublish(now func() time.Time) error {
	if p.Status == StatusDraft {
		return NewValidationError("post is already a draft")
	}
	if now == nil {
		now = time.Now
	}
	p.Status = StatusDraft
	p.PublishedAt = nil
	p.UpdatedAt = now().UTC()
	return nil
}

// UpdateContent applies a partial update. Nil fields are left untouched;
// provided fields must be non-blank after trimming.
func (p *BlogPost) UpdateContent(title, content, excerpt *string, now func() time.Time) error {
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return NewValidationError("title cannot be empty")
		}
		p.Title = t
	}
	if content != nil {
		c := strings.TrimSpace(*content)
		if c == "" {
			return NewValidationError("content cannot be empty")
		}
		p.Content = c
	}
	if excerpt != nil {
		e := strings.TrimSpace(*excerpt)
		if e == "" {
			return NewValidationError("excerpt cannot be empty")
		}
		p.Excerpt = e
	}
	if now == nil {
		now = time.Now
	}
	p.UpdatedAt = now().UTC()
	return nil
}

// IsPublished reports whether the post is visible to the public listing.
func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// CanBeUpdatedBy reports whether userID may modify this post.
func (p *BlogPost) CanBeUpdatedBy(userID string) bool {
	return p.Author == userID
}

// CanBeDeletedBy reports whether userID may delete this post.
func (p *BlogPost) CanBeDeletedBy(userID string) bool {
	return p.Author == userID
}
