package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quill/internal/domain"
	"quill/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	postKeyPrefix = "post:"
	postIDSetKey  = "posts:ids"
)

// RedisPostRepository stores posts as JSON records under post:{id} with
// a membership set of all ids. Listings load the full set and filter in
// memory, which mirrors how small the dataset is expected to stay.
type RedisPostRepository struct {
	rdb    *redis.Client
	now    func() time.Time
	logger *observability.RepoLogger
}

// NewRedisPostRepository creates a Redis-backed post store. A nil clock
// falls back to time.Now.
func NewRedisPostRepository(rdb *redis.Client, now func() time.Time) *RedisPostRepository {
	if now == nil {
		now = time.Now
	}
	return &RedisPostRepository{
		rdb:    rdb,
		now:    now,
		logger: observability.NewRepoLogger("posts"),
	}
}

func (r *RedisPostRepository) Save(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error) {
	stored := clonePost(post)
	stored.UpdatedAt = r.now().UTC()

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal post %s: %w", stored.ID, err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, postKeyPrefix+stored.ID, data, 0)
	pipe.SAdd(ctx, postIDSetKey, stored.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.LogError(ctx, err, "save")
		return nil, fmt.Errorf("save post %s: %w", stored.ID, err)
	}
	return clonePost(stored), nil
}

func (r *RedisPostRepository) FindByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	data, err := r.rdb.Get(ctx, postKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.LogError(ctx, err, "find_by_id")
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	var post domain.BlogPost
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("unmarshal post %s: %w", id, err)
	}
	return &post, nil
}

func (r *RedisPostRepository) FindByAuthor(ctx context.Context, author string, status *domain.PostStatus) ([]*domain.BlogPost, error) {
	posts, err := r.loadAll(ctx, func(p *domain.BlogPost) bool {
		return p.Author == author && (status == nil || p.Status == *status)
	})
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(posts)
	return posts, nil
}

func (r *RedisPostRepository) FindByAuthorPaged(ctx context.Context, author string, page, limit int, status *domain.PostStatus) ([]*domain.BlogPost, error) {
	posts, err := r.FindByAuthor(ctx, author, status)
	if err != nil {
		return nil, err
	}
	return pageWindow(posts, page, limit), nil
}

func (r *RedisPostRepository) FindPublished(ctx context.Context, page, limit int, author string) ([]*domain.BlogPost, error) {
	posts, err := r.loadAll(ctx, func(p *domain.BlogPost) bool {
		return p.IsPublished() && (author == "" || p.Author == author)
	})
	if err != nil {
		return nil, err
	}
	sortByPublishedDesc(posts)
	return pageWindow(posts, page, limit), nil
}

func (r *RedisPostRepository) CountPublished(ctx context.Context, author string) (int, error) {
	posts, err := r.loadAll(ctx, func(p *domain.BlogPost) bool {
		return p.IsPublished() && (author == "" || p.Author == author)
	})
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (r *RedisPostRepository) CountByAuthor(ctx context.Context, author string, status *domain.PostStatus) (int, error) {
	posts, err := r.loadAll(ctx, func(p *domain.BlogPost) bool {
		return p.Author == author && (status == nil || p.Status == *status)
	})
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (r *RedisPostRepository) Delete(ctx context.Context, id string) error {
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, postKeyPrefix+id)
	pipe.SRem(ctx, postIDSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.LogError(ctx, err, "delete")
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

func (r *RedisPostRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, postKeyPrefix+id).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "exists_by_id")
		return false, fmt.Errorf("exists post %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *RedisPostRepository) loadAll(ctx context.Context, keep func(*domain.BlogPost) bool) ([]*domain.BlogPost, error) {
	ids, err := r.rdb.SMembers(ctx, postIDSetKey).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "load_all")
		return nil, fmt.Errorf("list post ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = postKeyPrefix + id
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "load_all")
		return nil, fmt.Errorf("load posts: %w", err)
	}

	var posts []*domain.BlogPost
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// id in the set without a record; skip the dangling entry
			continue
		}
		var post domain.BlogPost
		if err := json.Unmarshal([]byte(raw), &post); err != nil {
			return nil, fmt.Errorf("unmarshal post record: %w", err)
		}
		if keep(&post) {
			p := post
			posts = append(posts, &p)
		}
	}
	return posts, nil
}

var _ domain.PostRepository = (*RedisPostRepository)(nil)
var _ domain.PostRepository = (*MemoryPostRepository)(nil)
