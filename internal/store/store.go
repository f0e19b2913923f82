// Package store defines the narrow set of key-value store primitives the
// similarity index needs — sibling sets, edge/fan-out sorted sets, and a
// scalar timestamp marker — and a Redis-backed implementation of it.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store is the external collaborator spec.md §1 describes: a key-value
// store supporting sorted sets and unsorted sets with atomic increments and
// set-membership reads. Every method call is a single store operation; the
// Indexer is responsible for treating a failed call as non-fatal to the
// record it belongs to.
type Store interface {
	// SAdd inserts member into the unsorted set at key. Used for sibling
	// sets (§3 "Sibling set").
	SAdd(ctx context.Context, key, member string) error
	// SMembers reads back the unsorted set at key. A missing key returns
	// an empty slice, not an error.
	SMembers(ctx context.Context, key string) ([]string, error)
	// ZIncrBy increments member's score in the sorted set at key by delta,
	// creating both the set and the member if absent. Used for edge sets,
	// fan-out sets, and global indices.
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	// Set overwrites the scalar at key. Used for the timestamp marker.
	Set(ctx context.Context, key, value string) error
	// Get reads the scalar at key. A missing key returns "", nil.
	Get(ctx context.Context, key string) (string, error)
}

// RedisStore implements Store over a go-redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-constructed go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Dial builds a go-redis client from connection parameters, mirroring the
// reference tool's "redis://:<auth>@<host>:<port>/<db>" connection URL
// (original_source/src/main.rs, connect).
func Dial(host string, port int, db int, password string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})
	return NewRedisStore(client)
}

// Client exposes the underlying go-redis client for callers that need direct
// access beyond the Store primitives (the index command uses it to Ping).
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) SAdd(ctx context.Context, key, member string) error {
	return s.client.SAdd(ctx, key, member).Err()
}

func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return members, err
}

func (s *RedisStore) ZIncrBy(ctx context.Context, key, member string, delta float64) error {
	return s.client.ZIncrBy(ctx, key, delta, member).Err()
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
