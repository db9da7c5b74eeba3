package service

import (
	"context"
	"time"

	"quill/internal/domain"
)

// UserService is the application service for user profiles layered over
// the external identity provider.
type UserService struct {
	users domain.UserRepository
	now   func() time.Time
}

// GetOrCreateUserInput carries the verified identity for the upsert.
type GetOrCreateUserInput struct {
	UID         string
	Email       string
	DisplayName string
	IsAnonymous bool
	Language    string
}

// UpdateProfileInput is a partial profile update. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// NewUserService builds the user application service. A nil clock falls
// back to time.Now.
func NewUserService(users domain.UserRepository, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, now: now}
}

// GetOrCreate returns the stored profile for a verified identity,
// creating it on first sight.
func (s *UserService) GetOrCreate(ctx context.Context, in GetOrCreateUserInput) (*domain.User, error) {
	user, err := s.users.FindByUID(ctx, in.UID)
	if err != nil {
		return nil, NewApplicationError("failed to load user", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = domain.NewUser(in.UID, in.Email, in.DisplayName, in.IsAnonymous, in.Language, s.now)
	if err != nil {
		return nil, translateError(err, "failed to create user")
	}
	user, err = s.users.Save(ctx, user)
	if err != nil {
		return nil, NewApplicationError("failed to create user", err)
	}
	return user, nil
}

// Get returns a profile by UID.
func (s *UserService) Get(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, NewApplicationError("failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	return user, nil
}

// Promote converts an anonymous user to authenticated. The UID is
// unchanged, so content created before sign-up stays attributed.
func (s *UserService) Promote(ctx context.Context, uid, email, displayName string) (*domain.User, error) {
	user, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := user.PromoteToAuthenticated(email, displayName, s.now); err != nil {
		return nil, translateError(err, "failed to promote user")
	}
	user, err = s.users.Save(ctx, user)
	if err != nil {
		return nil, NewApplicationError("failed to promote user", err)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, uid string, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(in.DisplayName, in.Bio, in.AvatarURL, s.now); err != nil {
		return nil, translateError(err, "failed to update profile")
	}
	user, err = s.users.Save(ctx, user)
	if err != nil {
		return nil, NewApplicationError("failed to update profile", err)
	}
	return user, nil
}
