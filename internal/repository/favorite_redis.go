package repository

import (
	"context"
	"errors"
	"fmt"

	"quill/internal/domain"
	"quill/internal/observability"

	"github.com/redis/go-redis/v9"
)

const favoritesKeyPrefix = "favorites:"

// RedisFavoriteRepository stores each user's favorited post ids in a
// Redis list, preserving insertion order for the recency approximation.
type RedisFavoriteRepository struct {
	rdb    *redis.Client
	logger *observability.RepoLogger
}

// NewRedisFavoriteRepository creates a Redis-backed favorite store.
func NewRedisFavoriteRepository(rdb *redis.Client) *RedisFavoriteRepository {
	return &RedisFavoriteRepository{
		rdb:    rdb,
		logger: observability.NewRepoLogger("favorites"),
	}
}

func (r *RedisFavoriteRepository) Add(ctx context.Context, userID, postID string) error {
	key := favoritesKeyPrefix + userID
	// LPos before RPush keeps Add idempotent; set semantics over a list.
	_, err := r.rdb.LPos(ctx, key, postID, redis.LPosArgs{}).Result()
	if err == nil {
		return nil
	}
	if !errors.Is(err, redis.Nil) {
		r.logger.LogError(ctx, err, "add")
		return fmt.Errorf("check favorite %s/%s: %w", userID, postID, err)
	}
	if err := r.rdb.RPush(ctx, key, postID).Err(); err != nil {
		r.logger.LogError(ctx, err, "add")
		return fmt.Errorf("add favorite %s/%s: %w", userID, postID, err)
	}
	return nil
}

func (r *RedisFavoriteRepository) Remove(ctx context.Context, userID, postID string) error {
	if err := r.rdb.LRem(ctx, favoritesKeyPrefix+userID, 0, postID).Err(); err != nil {
		r.logger.LogError(ctx, err, "remove")
		return fmt.Errorf("remove favorite %s/%s: %w", userID, postID, err)
	}
	return nil
}

func (r *RedisFavoriteRepository) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.rdb.LRange(ctx, favoritesKeyPrefix+userID, 0, -1).Result()
	if err != nil {
		r.logger.LogError(ctx, err, "list")
		return nil, fmt.Errorf("list favorites for %s: %w", userID, err)
	}
	return ids, nil
}

func (r *RedisFavoriteRepository) IsFavorited(ctx context.Context, userID, postID string) (bool, error) {
	_, err := r.rdb.LPos(ctx, favoritesKeyPrefix+userID, postID, redis.LPosArgs{}).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		r.logger.LogError(ctx, err, "is_favorited")
		return false, fmt.Errorf("check favorite %s/%s: %w", userID, postID, err)
	}
	return true, nil
}

var _ domain.FavoriteRepository = (*RedisFavoriteRepository)(nil)
