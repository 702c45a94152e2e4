package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ServerPort:       8288,
		JWTSecret:        "secret",
		AppTimezone:      "Europe/Paris",
		MissionsPerDay:   3,
		NotificationHour: 10,
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("test")

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "invalid port", mutate: func(c *Config) { c.ServerPort = 0 }, wantError: true},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantError: true},
		{name: "unknown timezone", mutate: func(c *Config) { c.AppTimezone = "Mars/Olympus" }, wantError: true},
		{name: "no mission slots", mutate: func(c *Config) { c.MissionsPerDay = 0 }, wantError: true},
		{name: "notification hour out of range", mutate: func(c *Config) { c.NotificationHour = 24 }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := validateConfig(config, log)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation_DefaultsToParis(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}
