package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quill/internal/domain"
	"quill/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	commentKeyPrefix     = "comment:"
	commentIDSetKey      = "comments:ids"
	commentsByPostPrefix = "comments:post:"
)

// RedisCommentRepository stores comments as JSON records with a global
// id set plus a per-post index set.
type RedisCommentRepository struct {
	rdb    *redis.Client
	logger *observability.RepoLogger
}

// NewRedisCommentRepository creates a Redis-backed comment store.
func NewRedisCommentRepository(rdb *redis.Client) *RedisCommentRepository {
	return &RedisCommentRepository{
		rdb:    rdb,
		logger: observability.NewRepoLogger("comments"),
	}
}

func (r *RedisCommentRepository) Save(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	data, err := json.Marshal(comment)
	if err != nil {
		return nil, fmt.Errorf("marshal comment %s: %w", comment.ID, err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, commentKeyPrefix+comment.ID, data, 0)
	pipe.SAdd(ctx, commentIDSetKey, comment.ID)
	pipe.SAdd(ctx, commentsByPostPrefix+comment.PostID, comment.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.LogError(ctx, err, "save")
		return nil, fmt.Errorf("save comment %s: %w", comment.ID, err)
	}
	cp := *comment
	return &cp, nil
}

func (r *RedisCommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	data, err := r.rdb.Get(ctx, commentKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.LogError(ctx, err, "find_by_id")
		return nil, fmt.Errorf("find comment %s: %w", id, err)
	}
	var comment domain.Comment
	if err := json.Unmarshal(data, &comment); err != nil {
		return nil, fmt.Errorf("unmarshal comment %s: %w", id, err)
	}
	return &comment, nil
}

func (r *RedisCommentRepository) FindByPostID(ctx context.Context, postID string, limit int) ([]*domain.Comment, error) {
	ids, err := r.rdb.SMembers(ctx, commentsByPostPrefix+postID).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "find_by_post")
		return nil, fmt.Errorf("list comment ids for post %s: %w", postID, err)
	}
	comments, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	sortCommentsAsc(comments)
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (r *RedisCommentRepository) FindByAuthor(ctx context.Context, author string) ([]*domain.Comment, error) {
	ids, err := r.rdb.SMembers(ctx, commentIDSetKey).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "find_by_author")
		return nil, fmt.Errorf("list comment ids: %w", err)
	}
	all, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	var comments []*domain.Comment
	for _, c := range all {
		if c.UserID == author {
			comments = append(comments, c)
		}
	}
	// newest first for author listings
	sortCommentsAsc(comments)
	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}
	return comments, nil
}

func (r *RedisCommentRepository) Delete(ctx context.Context, id string) error {
	comment, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, commentKeyPrefix+id)
	pipe.SRem(ctx, commentIDSetKey, id)
	if comment != nil {
		pipe.SRem(ctx, commentsByPostPrefix+comment.PostID, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.LogError(ctx, err, "delete")
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	return nil
}

func (r *RedisCommentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, commentKeyPrefix+id).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "exists_by_id")
		return false, fmt.Errorf("exists comment %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *RedisCommentRepository) loadMany(ctx context.Context, ids []string) ([]*domain.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = commentKeyPrefix + id
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "load_many")
		return nil, fmt.Errorf("load comments: %w", err)
	}
	var comments []*domain.Comment
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var comment domain.Comment
		if err := json.Unmarshal([]byte(raw), &comment); err != nil {
			return nil, fmt.Errorf("unmarshal comment record: %w", err)
		}
		c := comment
		comments = append(comments, &c)
	}
	return comments, nil
}

var _ domain.CommentRepository = (*RedisCommentRepository)(nil)
var _ domain.CommentRepository = (*MemoryCommentRepository)(nil)
