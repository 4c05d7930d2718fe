package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each record set as one string key <prefix><set>.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend connects to addr and verifies the connection.
func NewRedisBackend(ctx context.Context, addr, password string, database int, prefix string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           database,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Printf("Using Redis record store at %s (prefix %q)", addr, prefix)
	return &RedisBackend{client: client, prefix: prefix}, nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(set string) string {
	return r.prefix + set
}

func (r *RedisBackend) Load(ctx context.Context, set string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(set)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key(set), err)
	}
	return data, nil
}

func (r *RedisBackend) Save(ctx context.Context, set string, payload []byte) error {
	if err := r.client.Set(ctx, r.key(set), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key(set), err)
	}
	return nil
}

func (r *RedisBackend) Close() error { return r.client.Close() }
