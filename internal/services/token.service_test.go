package services

import (
	"context"
	"restocoach/internal/database"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	service := NewTokenService("test-secret", func() time.Time { return now })
	userID := uuid.New()

	token, err := service.Issue(userID, time.Hour)
	require.NoError(t, err)

	parsed, err := service.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestTokenService_RejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	service := NewTokenService("test-secret", func() time.Time { return now })

	token, err := service.Issue(uuid.New(), time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = service.Parse(token)
	assert.Error(t, err)

	other := NewTokenService("another-secret", nil)
	foreign, err := other.Issue(uuid.New(), time.Hour)
	require.NoError(t, err)
	_, err = NewTokenService("test-secret", nil).Parse(foreign)
	assert.Error(t, err)

	_, err = service.Parse("not-a-token")
	assert.Error(t, err)
}

func TestRateLimiterService_FixedWindow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 10, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := NewRateLimiterService(database.NewMemoryKeyValueStore(clock), 2, clock)
	ctx := context.Background()

	for range 2 {
		allowed, _, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	other, _, err := limiter.Allow(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, other)

	now = now.Add(time.Minute)
	allowed, _, err = limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterService_DisabledLimit(t *testing.T) {
	limiter := NewRateLimiterService(database.NewMemoryKeyValueStore(nil), 0, nil)

	allowed, _, err := limiter.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)
}
