package service

import (
	"context"
	"testing"
	"time"

	"quill/internal/domain"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentServiceFixture(t *testing.T) (*CommentService, *domain.BlogPost) {
	t.Helper()
	posts := repository.NewMemoryPostRepository(nil)
	comments := repository.NewMemoryCommentRepository()

	post, err := domain.NewBlogPost("title", "content", "excerpt", "author", nil)
	require.NoError(t, err)
	_, err = posts.Save(context.Background(), post)
	require.NoError(t, err)

	svc := NewCommentService(domain.NewCommentService(comments, posts, nil), nil)
	return svc, post
}

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	svc, post := newCommentServiceFixture(t)

	comment, err := svc.Create(ctx, CreateCommentInput{
		Content: "nice post",
		UserID:  "user-1",
		PostID:  post.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)

	listed, err := svc.ListByPost(ctx, post.ID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, comment.ID, listed[0].ID)
}

func TestCommentService_Create_ErrorKinds(t *testing.T) {
	ctx := context.Background()
	svc, post := newCommentServiceFixture(t)

	tests := []struct {
		name string
		in   CreateCommentInput
		kind ErrorKind
	}{
		{"blank content", CreateCommentInput{Content: "  ", UserID: "u", PostID: post.ID}, KindValidation},
		{"missing post", CreateCommentInput{Content: "c", UserID: "u", PostID: "nope"}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			require.Error(t, err)
			appErr, ok := err.(*AppError)
			require.True(t, ok)
			assert.Equal(t, tt.kind, appErr.Kind)
		})
	}
}

func TestCommentService_CreateBroadcastsAfterPersist(t *testing.T) {
	ctx := context.Background()
	posts := repository.NewMemoryPostRepository(nil)
	comments := repository.NewMemoryCommentRepository()

	post, err := domain.NewBlogPost("title", "content", "excerpt", "author", nil)
	require.NoError(t, err)
	_, err = posts.Save(ctx, post)
	require.NoError(t, err)

	broadcaster := realtimeWithRecorder(t)
	svc := NewCommentService(domain.NewCommentService(comments, posts, nil), broadcaster.b)

	_, err = svc.Create(ctx, CreateCommentInput{Content: "hi", UserID: "u", PostID: post.ID})
	require.NoError(t, err)

	// The fan-out is detached; wait for both events to land.
	require.Eventually(t, func() bool {
		return len(broadcaster.conn.types()) >= 2
	}, time.Second, 10*time.Millisecond)

	types := broadcaster.conn.types()
	assert.Contains(t, types, "comment_update")
	assert.Contains(t, types, "comments_list")
}

func TestCommentService_UpdateDelete_ErrorKinds(t *testing.T) {
	ctx := context.Background()
	svc, post := newCommentServiceFixture(t)

	comment, err := svc.Create(ctx, CreateCommentInput{Content: "c", UserID: "owner", PostID: post.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, comment.ID, "intruder", "hacked")
	require.Error(t, err)
	assert.Equal(t, KindForbidden, err.(*AppError).Kind)

	err = svc.Delete(ctx, "missing", "owner")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, err.(*AppError).Kind)

	require.NoError(t, svc.Delete(ctx, comment.ID, "owner"))
}
