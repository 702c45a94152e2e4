package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultThresholds() []*LevelThreshold {
	return []*LevelThreshold{
		{Level: 3, XPRequired: 150},
		{Level: 1, XPRequired: 0},
		{Level: 2, XPRequired: 50},
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp       int
		expected int
	}{
		{xp: 0, expected: 1},
		{xp: 49, expected: 1},
		{xp: 50, expected: 2},
		{xp: 149, expected: 2},
		{xp: 150, expected: 3},
		{xp: 10000, expected: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LevelForXP(defaultThresholds(), tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelForXP_NoThresholds(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(nil, 500))
	assert.Equal(t, 1, LevelForXP([]*LevelThreshold{{Level: 2, XPRequired: 100}}, 10))
}

func TestNextThreshold(t *testing.T) {
	next := NextThreshold(defaultThresholds(), 60)
	if assert.NotNil(t, next) {
		assert.Equal(t, 3, next.Level)
	}

	assert.Nil(t, NextThreshold(defaultThresholds(), 150))
}
