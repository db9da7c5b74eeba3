package repository

import (
	"context"
	"testing"
	"time"

	"quill/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postBackends runs the same contract against both storage backends.
func postBackends(t *testing.T) map[string]domain.PostRepository {
	t.Helper()
	return map[string]domain.PostRepository{
		"memory": NewMemoryPostRepository(nil),
		"redis":  NewRedisPostRepository(newTestRedis(t), nil),
	}
}

func makePost(t *testing.T, author string, createdAt time.Time) *domain.BlogPost {
	t.Helper()
	post, err := domain.NewBlogPost("title", "content", "excerpt", author,
		func() time.Time { return createdAt })
	require.NoError(t, err)
	return post
}

func TestPostRepository_SaveAndFind(t *testing.T) {
	for name, repo := range postBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			post := makePost(t, "user-1", time.Now())

			saved, err := repo.Save(ctx, post)
			require.NoError(t, err)
			assert.False(t, saved.UpdatedAt.Before(post.CreatedAt), "save refreshes UpdatedAt")

			found, err := repo.FindByID(ctx, post.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, post.ID, found.ID)
			assert.Equal(t, "title", found.Title)

			exists, err := repo.ExistsByID(ctx, post.ID)
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestPostRepository_AbsenceIsNotAnError(t *testing.T) {
	for name, repo := range postBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			found, err := repo.FindByID(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, found)

			exists, err := repo.ExistsByID(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, exists)

			// Deleting a missing post succeeds too.
			require.NoError(t, repo.Delete(ctx, "missing"))
		})
	}
}

func TestPostRepository_FindPublished_SortAndWindow(t *testing.T) {
	for name, repo := range postBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

			// Five published posts with ascending publish times plus one draft.
			var ids []string
			for i := 0; i < 5; i++ {
				post := makePost(t, "user-1", base.Add(time.Duration(i)*time.Minute))
				publishedAt := base.Add(time.Duration(i)*time.Minute + 30*time.Second)
				require.NoError(t, post.Publish(func() time.Time { return publishedAt }))
				_, err := repo.Save(ctx, post)
				require.NoError(t, err)
				ids = append(ids, post.ID)
			}
			draft := makePost(t, "user-1", base)
			_, err := repo.Save(ctx, draft)
			require.NoError(t, err)

			// Page 1 of 3: newest publish times first.
			page1, err := repo.FindPublished(ctx, 1, 3, "")
			require.NoError(t, err)
			require.Len(t, page1, 3)
			assert.Equal(t, ids[4], page1[0].ID)
			assert.Equal(t, ids[3], page1[1].ID)
			assert.Equal(t, ids[2], page1[2].ID)

			// Page 2 holds the remainder; pages are disjoint.
			page2, err := repo.FindPublished(ctx, 2, 3, "")
			require.NoError(t, err)
			require.Len(t, page2, 2)
			assert.Equal(t, ids[1], page2[0].ID)
			assert.Equal(t, ids[0], page2[1].ID)

			// Beyond the data: empty, not an error.
			page3, err := repo.FindPublished(ctx, 3, 3, "")
			require.NoError(t, err)
			assert.Empty(t, page3)

			total, err := repo.CountPublished(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, 5, total, "draft does not count")
		})
	}
}

func TestPostRepository_FindPublished_AuthorFilter(t *testing.T) {
	for name, repo := range postBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

			for i, author := range []string{"alice", "alice", "bob"} {
				post := makePost(t, author, base.Add(time.Duration(i)*time.Minute))
				require.NoError(t, post.Publish(func() time.Time { return base.Add(time.Duration(i) * time.Minute) }))
				_, err := repo.Save(ctx, post)
				require.NoError(t, err)
			}

			posts, err := repo.FindPublished(ctx, 1, 10, "alice")
			require.NoError(t, err)
			assert.Len(t, posts, 2)
			for _, p := range posts {
				assert.Equal(t, "alice", p.Author)
			}

			total, err := repo.CountPublished(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, 2, total)
		})
	}
}

func TestPostRepository_FindByAuthor_StatusAndSort(t *testing.T) {
	for name, repo := range postBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

			oldDraft := makePost(t, "alice", base)
			newDraft := makePost(t, "alice", base.Add(time.Hour))
			published := makePost(t, "alice", base.Add(30*time.Minute))
			require.NoError(t, published.Publish(func() time.Time { return base.Add(31 * time.Minute) }))

			for _, p := range []*domain.BlogPost{oldDraft, newDraft, published} {
				_, err := repo.Save(ctx, p)
				require.NoError(t, err)
			}

			// All posts, newest created first.
			all, err := repo.FindByAuthor(ctx, "alice", nil)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, newDraft.ID, all[0].ID)
			assert.Equal(t, published.ID, all[1].ID)
			assert.Equal(t, oldDraft.ID, all[2].ID)

			// Status filter.
			draftStatus := domain.StatusDraft
			drafts, err := repo.FindByAuthor(ctx, "alice", &draftStatus)
			require.NoError(t, err)
			assert.Len(t, drafts, 2)

			count, err := repo.CountByAuthor(ctx, "alice", &draftStatus)
			require.NoError(t, err)
			assert.Equal(t, 2, count)

			// Paged variant windows the same ordering.
			paged, err := repo.FindByAuthorPaged(ctx, "alice", 2, 2, nil)
			require.NoError(t, err)
			require.Len(t, paged, 1)
			assert.Equal(t, oldDraft.ID, paged[0].ID)
		})
	}
}

func TestPostRepository_Delete(t *testing.T) {
	for name, repo := range postBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			post := makePost(t, "user-1", time.Now())
			_, err := repo.Save(ctx, post)
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, post.ID))

			found, err := repo.FindByID(ctx, post.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	}
}
