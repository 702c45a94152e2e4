package database

import (
	"context"
	"fmt"
	"restocoach/config"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey logical databases, one per cache category.
const (
	GENERAL_CACHE_INDEX   = iota // gamification settings snapshot
	USER_CACHE_INDEX             // user rows by id
	EVENTS_CACHE_INDEX           // pub/sub event bus
	KEY_VALUE_CACHE_INDEX        // rate limit counters, reminder dedupe markers
)

type cacheSlot struct {
	index  int
	name   string
	client *CacheClient
}

// slots lists every cache category in index order.
func (c *Cache) slots() []cacheSlot {
	return []cacheSlot{
		{GENERAL_CACHE_INDEX, "General", &c.General},
		{USER_CACHE_INDEX, "User", &c.User},
		{EVENTS_CACHE_INDEX, "Events", &c.Events},
		{KEY_VALUE_CACHE_INDEX, "KeyValue", &c.KeyValue},
	}
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.ErrMsg("cache address or port is empty")
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	log.Info("initializing cache database", "address", address)

	var cache Cache
	for _, slot := range cache.slots() {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    slot.index,
		})
		if err != nil {
			cache.close()
			return log.Err("failed to create valkey client", err, "cache", slot.name)
		}
		*slot.client = client
	}

	s.Cache = cache

	if config.DatabaseCacheReset != -1 {
		go s.Cache.flushIndex(config.DatabaseCacheReset)
	}

	return nil
}

// flushIndex clears one category at boot, selected by DB_CACHE_RESET.
func (c *Cache) flushIndex(index int) {
	log := logger.New("database").Function("flushIndex")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, slot := range c.slots() {
		if slot.index != index || *slot.client == nil {
			continue
		}
		client := *slot.client
		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			log.Er("failed to clear cache database", err, "cache", slot.name)
			return
		}
		log.Info("cleared cache database", "cache", slot.name)
		return
	}

	log.Warn("invalid cache database index", "index", index)
}

func (c *Cache) close() {
	for _, slot := range c.slots() {
		if *slot.client != nil {
			(*slot.client).Close()
			*slot.client = nil
		}
	}
}
