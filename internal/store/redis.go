package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBlobs stores blobs as plain Redis strings without expiry.
type RedisBlobs struct {
	rdb *redis.Client
}

func NewRedisBlobs(rdb *redis.Client) *RedisBlobs {
	return &RedisBlobs{rdb: rdb}
}

func (b *RedisBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *RedisBlobs) Put(ctx context.Context, key string, data []byte) error {
	return b.rdb.Set(ctx, key, data, 0).Err()
}
