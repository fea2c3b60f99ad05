package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix Redis key 前綴，多個場館共用同一個 Redis 時可各自設定
const DefaultKeyPrefix = "locker-desk:"

type RedisStoreImpl struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStoreImpl{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStoreImpl) key(key string) string {
	return s.prefix + key
}

func (s *RedisStoreImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStoreImpl) Set(ctx context.Context, key string, value []byte) error {
	// 不設 TTL，場館資料需要永久保存
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStoreImpl) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
