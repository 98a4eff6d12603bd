package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/tabprep/core"
)

// RedisStore 是 Redis 实现的 HashStore：每行特征写成一个 Hash，字段为列名。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient 包装已有的客户端（测试或共享连接池时使用）。
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// HMSet 在一个 pipeline 中写入字段并（可选）设置过期时间。
func (r *RedisStore) HMSet(ctx context.Context, key string, fields map[string][]byte, ttl ...int) error {
	if len(fields) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(fields))
	for f, v := range fields {
		values[f] = v
	}
	exp := expiration(ttl)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if exp > 0 {
			pipe.Expire(ctx, key, exp)
		}
		return nil
	})
	return err
}

func (r *RedisStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	vals, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	// Redis 对不存在的 key 返回空 Hash
	if len(vals) == 0 {
		return nil, core.ErrStoreNotFound
	}
	result := make(map[string][]byte, len(vals))
	for k, v := range vals {
		result[k] = []byte(v)
	}
	return result, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func expiration(ttl []int) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return time.Duration(ttl[0]) * time.Second
	}
	return 0
}

var _ core.HashStore = (*RedisStore)(nil)
