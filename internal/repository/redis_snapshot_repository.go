package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type redisSnapshotRepository struct {
	redisClient *redis.Client
	keyPrefix   string
}

// NewRedisSnapshotRepository 创建一个基于 Redis 的 SnapshotRepository。
// 每个快照存为一个不过期的字符串键：{prefix}{name}。
func NewRedisSnapshotRepository(redisClient *redis.Client, keyPrefix string) SnapshotRepository {
	return &redisSnapshotRepository{redisClient: redisClient, keyPrefix: keyPrefix}
}

func (r *redisSnapshotRepository) key(name string) string {
	return r.keyPrefix + name
}

// Load 从 Redis 读取快照。
func (r *redisSnapshotRepository) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := r.redisClient.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", name, err)
	}
	return data, nil
}

// Save 覆盖写入快照。
func (r *redisSnapshotRepository) Save(ctx context.Context, name string, data []byte) error {
	if err := r.redisClient.Set(ctx, r.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot %s: %w", name, err)
	}
	return nil
}

// Delete 删除快照，键不存在时不报错。
func (r *redisSnapshotRepository) Delete(ctx context.Context, name string) error {
	if err := r.redisClient.Del(ctx, r.key(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	return nil
}
