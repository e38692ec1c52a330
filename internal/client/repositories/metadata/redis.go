package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps all keys of one namespace in a single Redis hash.
// Several client processes pointed at the same namespace share one session;
// concurrent writers are not coordinated and the last write wins.
type RedisRepository struct {
	client redis.UniversalClient
	hash   string
}

func NewRedisRepository(client redis.UniversalClient, namespace string) *RedisRepository {
	return &RedisRepository{client: client, hash: "botfolio:" + namespace}
}

// NewRedisClient connects to addr and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.HGet(ctx, r.hash, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.HSet(ctx, r.hash, key, value).Err(); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// SetMany relies on HSET with several fields being a single atomic command.
func (r *RedisRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]any, len(values))
	for k, v := range values {
		fields[k] = v
	}
	if err := r.client.HSet(ctx, r.hash, fields).Err(); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context) (map[string][]byte, error) {
	m, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	result := make(map[string][]byte, len(m))
	for k, v := range m {
		result[k] = []byte(v)
	}
	return result, nil
}

func (r *RedisRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.hash).Err(); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
