package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a post at creation time. If the post is later
// deleted the comment is left behind; orphans are tolerated.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a comment. Content, user id, and post id must be
// non-blank after trimming. The caller is responsible for verifying the
// post exists.
func NewComment(content, userID, postID string, now func() time.Time) (*Comment, error) {
	if now == nil {
		now = time.Now
	}
	content = strings.TrimSpace(content)
	userID = strings.TrimSpace(userID)
	postID = strings.TrimSpace(postID)

	switch {
	case content == "":
		return nil, NewValidationError("comment content cannot be empty")
	case userID == "":
		return nil, NewValidationError("user ID cannot be empty")
	case postID == "":
		return nil, NewValidationError("post ID cannot be empty")
	}

	return &Comment{
		ID:        uuid.NewString(),
		Content:   content,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: now().UTC(),
	}, nil
}

// UpdateContent replaces the comment body with a non-blank value.
func (c *Comment) UpdateContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return NewValidationError("comment content cannot be empty")
	}
	c.Content = content
	return nil
}

// CanBeUpdatedBy reports whether userID may modify this comment.
func (c *Comment) CanBeUpdatedBy(userID string) bool {
	return c.UserID == userID
}

// CanBeDeletedBy reports whether userID may delete this comment.
func (c *Comment) CanBeDeletedBy(userID string) bool {
	return c.UserID == userID
}
