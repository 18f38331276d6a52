package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/visual/pkg/param"
	"github.com/platinummonkey/visual/pkg/verrors"
)

// RedisStore keeps manifests in Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server at url
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func redisKey(name string) string {
	return fmt.Sprintf("params:%s", name)
}

// Save stores m under name, replacing any earlier snapshot
func (s *RedisStore) Save(ctx context.Context, name string, m *param.Manifest) (err error) {
	defer func() { recordSave(err) }()

	data, err := param.EncodeManifest(m)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, redisKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Load returns the snapshot saved under name. A snapshot that no longer
// parses is deleted.
func (s *RedisStore) Load(ctx context.Context, name string) (m *param.Manifest, err error) {
	defer func() { recordLoad(err) }()

	key := redisKey(name)
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, verrors.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	m, err = param.ParseManifest(data)
	if err != nil {
		s.client.Del(ctx, key)
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	return m, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
