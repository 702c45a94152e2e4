package server

import (
	"restocoach/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiberConfig(t *testing.T) {
	cfg := fiberConfig(config.Config{
		GeneralVersion:       "1.2.0",
		Environment:          "production",
		ServerBodyLimitKB:    64,
		ServerTimeoutSeconds: 10,
	})

	assert.Equal(t, 64*1024, cfg.BodyLimit)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 40*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "restocoach/1.2.0", cfg.ServerHeader)
	assert.True(t, cfg.DisableStartupMessage)
	assert.False(t, cfg.EnablePrintRoutes)
}

func TestFiberConfig_Defaults(t *testing.T) {
	cfg := fiberConfig(config.Config{Environment: "development"})

	assert.Equal(t, 1024*1024, cfg.BodyLimit)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.True(t, cfg.EnablePrintRoutes)
}
