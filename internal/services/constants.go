package services

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)

const (
	DEFAULT_TOKEN_TTL     = 30 * 24 * time.Hour
	RATE_LIMIT_KEY_PREFIX = "ratelimit"
	RATE_LIMIT_WINDOW     = time.Minute
)
