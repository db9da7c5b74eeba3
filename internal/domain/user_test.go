package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Defaults(t *testing.T) {
	user, err := NewUser("uid-1", "", "", true, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "Guest", user.DisplayName)
	assert.Equal(t, "en", user.Language)
	assert.True(t, user.IsAnonymous)
	assert.Empty(t, user.Email)
}

func TestNewUser_EmptyUID(t *testing.T) {
	_, err := NewUser("  ", "a@b.c", "Alice", false, "en", nil)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestUser_PromoteToAuthenticated(t *testing.T) {
	created := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	user, err := NewUser("uid-1", "", "", true, "en", fixedClock(created))
	require.NoError(t, err)

	promoted := created.Add(time.Hour)
	require.NoError(t, user.PromoteToAuthenticated("alice@example.com", "Alice", fixedClock(promoted)))

	assert.Equal(t, "uid-1", user.UID, "UID must survive promotion")
	assert.False(t, user.IsAnonymous)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, promoted, user.UpdatedAt)

	// One-way transition.
	err = user.PromoteToAuthenticated("again@example.com", "Again", nil)
	require.Error(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUser_PromoteRequiresEmailAndName(t *testing.T) {
	user, err := NewUser("uid-1", "", "", true, "en", nil)
	require.NoError(t, err)

	require.Error(t, user.PromoteToAuthenticated("", "Alice", nil))
	require.Error(t, user.PromoteToAuthenticated("a@b.c", "  ", nil))
	assert.True(t, user.IsAnonymous)
}

func TestUser_UpdateProfile(t *testing.T) {
	user, err := NewUser("uid-1", "a@b.c", "Alice", false, "en", nil)
	require.NoError(t, err)
	user.Bio = "old bio"

	// Empty bio clears, nil display name leaves it alone.
	empty := ""
	avatar := "https://example.com/a.png"
	require.NoError(t, user.UpdateProfile(nil, &empty, &avatar, nil))
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Empty(t, user.Bio)
	assert.Equal(t, avatar, user.AvatarURL)

	// Empty display name is rejected.
	blank := "  "
	require.Error(t, user.UpdateProfile(&blank, nil, nil, nil))
	assert.Equal(t, "Alice", user.DisplayName)
}
