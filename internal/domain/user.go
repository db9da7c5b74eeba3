package domain

import (
	"strings"
	"time"
)

// User extends the external identity with profile metadata. The UID is
// the primary key and never changes, which keeps anonymously-created
// content attributed to the same identity after sign-up.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	IsAnonymous bool      `json:"is_anonymous"`
	Language    string    `json:"language"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUser creates a user record for a verified identity. Anonymous users
// carry no email and a placeholder display name.
func NewUser(uid, email, displayName string, isAnonymous bool, language string, now func() time.Time) (*User, error) {
	if now == nil {
		now = time.Now
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, NewValidationError("user ID cannot be empty")
	}
	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName = "Guest"
	}
	if language = strings.TrimSpace(language); language == "" {
		language = "en"
	}

	ts := now().UTC()
	return &User{
		UID:         uid,
		Email:       strings.TrimSpace(email),
		DisplayName: displayName,
		IsAnonymous: isAnonymous,
		Language:    language,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// PromoteToAuthenticated converts an anonymous user into an
// authenticated one. The transition is one-way and requires a non-empty
// email and display name. The UID is left untouched.
func (u *User) PromoteToAuthenticated(email, displayName string, now func() time.Time) error {
	if !u.IsAnonymous {
		return NewValidationError("user is already authenticated")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return NewValidationError("email cannot be empty")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return NewValidationError("display name cannot be empty")
	}
	if now == nil {
		now = time.Now
	}
	u.Email = email
	u.DisplayName = displayName
	u.IsAnonymous = false
	u.UpdatedAt = now().UTC()
	return nil
}

// UpdateProfile applies a partial profile update. Nil fields are left
// untouched. An empty bio or avatar URL clears the field; an empty
// display name is rejected.
func (u *User) UpdateProfile(displayName, bio, avatarURL *string, now func() time.Time) error {
	if displayName != nil {
		d := strings.TrimSpace(*displayName)
		if d == "" {
			return NewValidationError("display name cannot be empty")
		}
		u.DisplayName = d
	}
	if bio != nil {
		u.Bio = strings.TrimSpace(*bio)
	}
	if avatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*avatarURL)
	}
	if now == nil {
		now = time.Now
	}
	u.UpdatedAt = now().UTC()
	return nil
}

// CanBeUpdatedBy reports whether userID may modify this profile.
func (u *User) CanBeUpdatedBy(userID string) bool {
	return u.UID == userID
}
