package middleware

import (
	"restocoach/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	tokens      *services.TokenService
	users       *services.UserService
	rateLimiter *services.RateLimiterService
	log         logger.Logger
}

func New(services services.Service) Middleware {
	return Middleware{
		tokens:      services.Token,
		users:       services.User,
		rateLimiter: services.RateLimiter,
		log:         logger.New("middleware"),
	}
}
