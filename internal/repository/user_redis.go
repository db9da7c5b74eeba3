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

const userKeyPrefix = "user:"

// RedisUserRepository stores user profiles as JSON records keyed by UID.
type RedisUserRepository struct {
	rdb    *redis.Client
	logger *observability.RepoLogger
}

// NewRedisUserRepository creates a Redis-backed user store.
func NewRedisUserRepository(rdb *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{
		rdb:    rdb,
		logger: observability.NewRepoLogger("users"),
	}
}

func (r *RedisUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user %s: %w", user.UID, err)
	}
	if err := r.rdb.Set(ctx, userKeyPrefix+user.UID, data, 0).Err(); err != nil {
		r.logger.LogError(ctx, err, "save")
		return nil, fmt.Errorf("save user %s: %w", user.UID, err)
	}
	cp := *user
	return &cp, nil
}

func (r *RedisUserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	data, err := r.rdb.Get(ctx, userKeyPrefix+uid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.LogError(ctx, err, "find_by_uid")
		return nil, fmt.Errorf("find user %s: %w", uid, err)
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user %s: %w", uid, err)
	}
	return &user, nil
}

var _ domain.UserRepository = (*RedisUserRepository)(nil)
