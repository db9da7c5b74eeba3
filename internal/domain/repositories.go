package domain

import "context"

// Repository ports. Implementations live in internal/repository; one
// backend is selected at startup and never mixed at runtime. At this
// layer absence is represented by (nil, nil), never by an error —
// error-on-missing is a service-level decision. Any storage failure
// surfaces as a plain infrastructure error.

// PostRepository stores blog posts.
type PostRepository interface {
	// Save upserts by id and refreshes UpdatedAt on every call.
	Save(ctx context.Context, post *BlogPost) (*BlogPost, error)
	FindByID(ctx context.Context, id string) (*BlogPost, error)
	// FindByAuthor returns the author's posts newest-first, optionally
	// filtered by status.
	FindByAuthor(ctx context.Context, author string, status *PostStatus) ([]*BlogPost, error)
	// FindByAuthorPaged applies the same filter and sort, then windows
	// by (page-1)*limit.
	FindByAuthorPaged(ctx context.Context, author string, page, limit int, status *PostStatus) ([]*BlogPost, error)
	// FindPublished returns published posts sorted by PublishedAt
	// descending, optionally filtered by author, then windowed.
	FindPublished(ctx context.Context, page, limit int, author string) ([]*BlogPost, error)
	// CountPublished returns the total published count behind
	// FindPublished, for pagination metadata.
	CountPublished(ctx context.Context, author string) (int, error)
	// CountByAuthor returns the total count behind FindByAuthorPaged.
	CountByAuthor(ctx context.Context, author string, status *PostStatus) (int, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// CommentRepository stores comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) (*Comment, error)
	FindByID(ctx context.Context, id string) (*Comment, error)
	// FindByPostID returns a post's comments oldest-first, capped at
	// limit. Threads read chronologically, unlike post listings.
	FindByPostID(ctx context.Context, postID string, limit int) ([]*Comment, error)
	// FindByAuthor returns a user's comments newest-first.
	FindByAuthor(ctx context.Context, author string) ([]*Comment, error)
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// FavoriteRepository stores the user↔post favorite relation. Existence
// is the only state; Add and Remove are both idempotent.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, postID string) error
	Remove(ctx context.Context, userID, postID string) error
	// List returns the favorited post ids in insertion order.
	List(ctx context.Context, userID string) ([]string, error)
	IsFavorited(ctx context.Context, userID, postID string) (bool, error)
}

// UserRepository stores user profiles keyed by the external identity UID.
type UserRepository interface {
	Save(ctx context.Context, user *User) (*User, error)
	FindByUID(ctx context.Context, uid string) (*User, error)
}
