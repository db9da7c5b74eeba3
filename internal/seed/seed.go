// Package seed provides helpers to create demo data for development
// and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
)

// Options controls the size and spread of the generated data set.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// MaxDays bounds how far back generated timestamps reach.
	MaxDays int
}

// Seeder populates the repositories with generated blog content.
type Seeder struct {
	posts     domain.PostRepository
	comments  domain.CommentRepository
	favorites domain.FavoriteRepository
	users     domain.UserRepository
	rng       *rand.Rand
}

// NewSeeder creates a Seeder over the given storage ports.
func NewSeeder(posts domain.PostRepository, comments domain.CommentRepository, favorites domain.FavoriteRepository, users domain.UserRepository) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		posts:     posts,
		comments:  comments,
		favorites: favorites,
		users:     users,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run generates users, posts, comments and favorites per the options.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Users <= 0 {
		opts.Users = 10
	}
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 5
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}

	users := make([]*domain.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := s.seedUser(ctx, opts)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	var posts []*domain.BlogPost
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := s.seedPost(ctx, user.UID, opts)
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	log.Printf("seeded %d posts", len(posts))

	comments := 0
	for _, post := range posts {
		if post.Status != domain.StatusPublished {
			continue
		}
		n := s.rng.Intn(opts.CommentsPerPost + 1)
		for i := 0; i < n; i++ {
			author := users[s.rng.Intn(len(users))]
			if err := s.seedComment(ctx, author.UID, post.ID); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("seeded %d comments", comments)

	favorites := 0
	for _, user := range users {
		for _, post := range posts {
			if post.Status != domain.StatusPublished || s.rng.Intn(10) != 0 {
				continue
			}
			if err := s.favorites.Add(ctx, user.UID, post.ID); err != nil {
				return fmt.Errorf("seed favorite: %w", err)
			}
			favorites++
		}
	}
	log.Printf("seeded %d favorites", favorites)

	return nil
}

func (s *Seeder) seedUser(ctx context.Context, opts Options) (*domain.User, error) {
	created := s.pastTime(opts.MaxDays)
	user, err := domain.NewUser(
		gofakeit.UUID(),
		gofakeit.Email(),
		gofakeit.Username(),
		s.rng.Intn(5) == 0, // a few anonymous guests
		"en",
		func() time.Time { return created },
	)
	if err != nil {
		return nil, err
	}
	return s.users.Save(ctx, user)
}

func (s *Seeder) seedPost(ctx context.Context, author string, opts Options) (*domain.BlogPost, error) {
	created := s.pastTime(opts.MaxDays)
	clock := func() time.Time { return created }

	post, err := domain.NewBlogPost(
		gofakeit.Sentence(6),
		gofakeit.Paragraph(2, 4, 8, "\n\n"),
		gofakeit.Sentence(12),
		author,
		clock,
	)
	if err != nil {
		return nil, err
	}

	// Most seeded posts go live; the rest stay drafts.
	if s.rng.Intn(4) != 0 {
		if err := post.Publish(clock); err != nil {
			return nil, err
		}
	}
	return s.posts.Save(ctx, post)
}

func (s *Seeder) seedComment(ctx context.Context, author, postID string) error {
	comment, err := domain.NewComment(
		gofakeit.Sentence(10),
		author,
		postID,
		time.Now,
	)
	if err != nil {
		return err
	}
	_, err = s.comments.Save(ctx, comment)
	return err
}

// pastTime returns a timestamp spread over the last maxDays days.
func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back).UTC()
}
