package services

import (
	"context"
	"fmt"
	"restocoach/internal/database"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// RateLimiterService counts requests per subject in fixed one-minute windows.
type RateLimiterService struct {
	store database.KeyValueStore
	limit int
	now   func() time.Time
	log   logger.Logger
}

func NewRateLimiterService(store database.KeyValueStore, limit int, now func() time.Time) *RateLimiterService {
	if now == nil {
		now = time.Now
	}
	return &RateLimiterService{
		store: store,
		limit: limit,
		now:   now,
		log:   logger.New("rateLimiterService"),
	}
}

// Allow records one request and reports whether it fits the window. A limit of zero or less
// disables limiting. Store failures let the request through.
func (s *RateLimiterService) Allow(ctx context.Context, subject string) (bool, int, error) {
	if s.limit <= 0 || s.store == nil {
		return true, 0, nil
	}

	window := s.now().UTC().Truncate(RATE_LIMIT_WINDOW)
	key := fmt.Sprintf("%s:%s:%d", RATE_LIMIT_KEY_PREFIX, subject, window.Unix())

	count, err := s.store.Incr(ctx, key, 2*RATE_LIMIT_WINDOW)
	if err != nil {
		return true, 0, s.log.Function("Allow").Err("failed to count request", err, "subject", subject)
	}

	remaining := s.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= s.limit, remaining, nil
}

func (s *RateLimiterService) Limit() int {
	return s.limit
}
