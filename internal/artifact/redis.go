package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// recordKey returns the Redis key for a staged artifact.
// Pattern: askme:artifact:{id}
func recordKey(id string) string {
	return fmt.Sprintf("askme:artifact:%s", id)
}

// RedisStore is the Redis-backed Store. Records are stored as hashes under
// namespaced keys so the download request may land on a different process
// than the one that staged the artifact. A non-zero retention window sets a
// TTL on each record; zero keeps records until Redis evicts them.
type RedisStore struct {
	rdb       *redis.Client
	retention time.Duration
	now       func() time.Time
}

// NewRedisStore creates a Redis-backed store from connection options.
func NewRedisStore(opts *redis.Options, retention time.Duration) *RedisStore {
	return &RedisStore{
		rdb:       redis.NewClient(opts),
		retention: retention,
		now:       time.Now,
	}
}

// Ping verifies Redis connectivity. Useful for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection. Implements io.Closer.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Stage writes the record as a Redis hash under a fresh UUID, applying the
// retention TTL when configured.
func (s *RedisStore) Stage(ctx context.Context, bytes []byte, kind, domain string) (string, error) {
	id := uuid.New().String()
	key := recordKey(id)

	hash := map[string]any{
		"kind":       kind,
		"domain":     domain,
		"bytes":      string(bytes),
		"created_at": s.now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return "", fmt.Errorf("failed to write artifact to Redis: %w", err)
	}
	if s.retention > 0 {
		if err := s.rdb.Expire(ctx, key, s.retention).Err(); err != nil {
			return "", fmt.Errorf("failed to set artifact retention: %w", err)
		}
	}
	return id, nil
}

// Fetch reads the record back. An expired or never-staged id is ErrNotFound.
func (s *RedisStore) Fetch(ctx context.Context, id string) (*Record, error) {
	// HGetAll returns an empty map for non-existent keys.
	hash, err := s.rdb.HGetAll(ctx, recordKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact from Redis: %w", err)
	}
	if len(hash) == 0 {
		return nil, ErrNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, hash["created_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt artifact record %s: bad created_at: %w", id, err)
	}

	return &Record{
		ID:        id,
		Kind:      hash["kind"],
		Domain:    hash["domain"],
		Bytes:     []byte(hash["bytes"]),
		CreatedAt: createdAt,
	}, nil
}
