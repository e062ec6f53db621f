package middleware

import (
	"family-hub/config"
	"family-hub/pkg/log"
)

type Middleware struct {
	l       log.Logger
	limiter *rateLimiter
}

func New(l log.Logger, cfg config.RateLimitConfig) Middleware {
	return Middleware{
		l:       l,
		limiter: newRateLimiter(cfg.PerMinute, cfg.Burst, cfg.MaxClients),
	}
}
