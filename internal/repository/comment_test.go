package repository

import (
	"context"
	"testing"
	"time"

	"quill/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentBackends(t *testing.T) map[string]domain.CommentRepository {
	t.Helper()
	return map[string]domain.CommentRepository{
		"memory": NewMemoryCommentRepository(),
		"redis":  NewRedisCommentRepository(newTestRedis(t)),
	}
}

func makeComment(t *testing.T, userID, postID string, createdAt time.Time) *domain.Comment {
	t.Helper()
	comment, err := domain.NewComment("a comment", userID, postID,
		func() time.Time { return createdAt })
	require.NoError(t, err)
	return comment
}

func TestCommentRepository_SaveAndFind(t *testing.T) {
	for name, repo := range commentBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			comment := makeComment(t, "user-1", "post-1", time.Now())

			_, err := repo.Save(ctx, comment)
			require.NoError(t, err)

			found, err := repo.FindByID(ctx, comment.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "a comment", found.Content)

			missing, err := repo.FindByID(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

func TestCommentRepository_FindByPostID_OldestFirst(t *testing.T) {
	for name, repo := range commentBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)

			var ids []string
			for i := 0; i < 4; i++ {
				comment := makeComment(t, "user-1", "post-1", base.Add(time.Duration(i)*time.Minute))
				_, err := repo.Save(ctx, comment)
				require.NoError(t, err)
				ids = append(ids, comment.ID)
			}
			// A comment on a different post must not leak in.
			other := makeComment(t, "user-1", "post-2", base)
			_, err := repo.Save(ctx, other)
			require.NoError(t, err)

			comments, err := repo.FindByPostID(ctx, "post-1", 10)
			require.NoError(t, err)
			require.Len(t, comments, 4)
			for i, c := range comments {
				assert.Equal(t, ids[i], c.ID, "threads read chronologically")
			}

			// Limit truncates from the oldest end.
			limited, err := repo.FindByPostID(ctx, "post-1", 2)
			require.NoError(t, err)
			require.Len(t, limited, 2)
			assert.Equal(t, ids[0], limited[0].ID)
			assert.Equal(t, ids[1], limited[1].ID)
		})
	}
}

func TestCommentRepository_FindByPostID_SameTimestampStableOrder(t *testing.T) {
	for name, repo := range commentBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ts := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)

			for i := 0; i < 3; i++ {
				comment := makeComment(t, "user-1", "post-1", ts)
				_, err := repo.Save(ctx, comment)
				require.NoError(t, err)
			}

			first, err := repo.FindByPostID(ctx, "post-1", 10)
			require.NoError(t, err)
			second, err := repo.FindByPostID(ctx, "post-1", 10)
			require.NoError(t, err)

			require.Len(t, first, 3)
			for i := range first {
				assert.Equal(t, first[i].ID, second[i].ID, "equal timestamps must still order deterministically")
			}
		})
	}
}

func TestCommentRepository_FindByAuthor_NewestFirst(t *testing.T) {
	for name, repo := range commentBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)

			older := makeComment(t, "alice", "post-1", base)
			newer := makeComment(t, "alice", "post-2", base.Add(time.Hour))
			foreign := makeComment(t, "bob", "post-1", base)
			for _, c := range []*domain.Comment{older, newer, foreign} {
				_, err := repo.Save(ctx, c)
				require.NoError(t, err)
			}

			comments, err := repo.FindByAuthor(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, comments, 2)
			assert.Equal(t, newer.ID, comments[0].ID)
			assert.Equal(t, older.ID, comments[1].ID)
		})
	}
}

func TestCommentRepository_Delete(t *testing.T) {
	for name, repo := range commentBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			comment := makeComment(t, "user-1", "post-1", time.Now())
			_, err := repo.Save(ctx, comment)
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, comment.ID))

			exists, err := repo.ExistsByID(ctx, comment.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			remaining, err := repo.FindByPostID(ctx, "post-1", 10)
			require.NoError(t, err)
			assert.Empty(t, remaining, "delete also clears the post index")
		})
	}
}
