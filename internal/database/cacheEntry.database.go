package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const CACHE_OP_TIMEOUT = 2 * time.Second

type KeyType interface {
	string | uuid.UUID
}

// CacheEntry is one JSON encoded value under "prefix:key". An entry built on a nil client
// reads as a miss and writes as a no-op, so callers never branch on cache presence.
type CacheEntry[T any] struct {
	client CacheClient
	key    string
	ttl    time.Duration
}

func NewCacheEntry[T any, K KeyType](client CacheClient, prefix string, key K, ttl time.Duration) CacheEntry[T] {
	var raw string
	switch k := any(key).(type) {
	case string:
		raw = k
	case uuid.UUID:
		raw = k.String()
	}
	if prefix != "" {
		raw = prefix + ":" + raw
	}
	return CacheEntry[T]{client: client, key: raw, ttl: ttl}
}

func (e CacheEntry[T]) Key() string {
	return e.key
}

func (e CacheEntry[T]) Get(ctx context.Context) (T, bool, error) {
	var value T
	if e.client == nil {
		return value, false, nil
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	data, err := e.client.Do(ctx, e.client.B().Get().Key(e.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("decode %s: %w", e.key, err)
	}
	return value, true, nil
}

func (e CacheEntry[T]) Set(ctx context.Context, value T) error {
	if e.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.key, err)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	return e.client.Do(ctx, e.client.B().Set().Key(e.key).Value(valkey.BinaryString(data)).Ex(e.ttl).Build()).Error()
}

func (e CacheEntry[T]) Delete(ctx context.Context) error {
	if e.client == nil {
		return nil
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	return e.client.Do(ctx, e.client.B().Del().Key(e.key).Build()).Error()
}

// Fetch is a read-through: a hit is returned as is, a miss calls load and stores its result.
// Cache failures are logged and never fail the read; load errors are returned untouched.
func (e CacheEntry[T]) Fetch(
	ctx context.Context,
	log logger.Logger,
	load func(context.Context) (T, error),
) (T, error) {
	cached, found, err := e.Get(ctx)
	if err != nil {
		log.Warn("cache read failed", "key", e.key, "error", err)
	}
	if found {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := e.Set(ctx, value); err != nil {
		log.Warn("cache write failed", "key", e.key, "error", err)
	}
	return value, nil
}

// opContext bounds a cache round trip without extending a tighter caller deadline.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < CACHE_OP_TIMEOUT {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, CACHE_OP_TIMEOUT)
}
