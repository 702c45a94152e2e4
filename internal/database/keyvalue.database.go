package database

import (
	"context"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

// KeyValueStore is the small slice of key-value behavior the rate limiter and the
// reminder dedupe need. Keys expire on their own.
type KeyValueStore interface {
	// Incr increments key and returns the new value. The ttl is applied when the key is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// SetNX stores value only when key is absent and reports whether it was stored.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type valkeyKeyValueStore struct {
	client CacheClient
}

func NewValkeyKeyValueStore(client CacheClient) KeyValueStore {
	return &valkeyKeyValueStore{client: client}
}

// Incr seeds the counter with its ttl and increments it in one pipeline, so a key can never
// outlive its window.
func (s *valkeyKeyValueStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	results := s.client.DoMulti(ctx,
		s.client.B().Set().Key(key).Value("0").Nx().ExSeconds(ttlSeconds(ttl)).Build(),
		s.client.B().Incr().Key(key).Build(),
	)
	if err := results[0].Error(); err != nil && !valkey.IsValkeyNil(err) {
		return 0, err
	}
	return results[1].AsInt64()
}

func (s *valkeyKeyValueStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	err := s.client.Do(ctx, s.client.B().Set().Key(key).Value(value).Nx().ExSeconds(ttlSeconds(ttl)).Build()).Error()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Delete removes key. Missing keys are not an error.
func (s *valkeyKeyValueStore) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error()
}

func ttlSeconds(ttl time.Duration) int64 {
	return max(int64(ttl.Seconds()), 1)
}

type memoryEntry struct {
	value     string
	count     int64
	expiresAt time.Time
}

// MemoryKeyValueStore keeps keys in process memory. Used when no cache is configured and in tests.
type MemoryKeyValueStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKeyValueStore(now func() time.Time) *MemoryKeyValueStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryKeyValueStore{entries: make(map[string]memoryEntry), now: now}
}

func (s *MemoryKeyValueStore) live(key string) (memoryEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryKeyValueStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key)
	if !ok {
		entry = memoryEntry{expiresAt: s.now().Add(ttl)}
	}
	entry.count++
	s.entries[key] = entry

	return entry.count, nil
}

func (s *MemoryKeyValueStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}

	return true, nil
}

func (s *MemoryKeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
