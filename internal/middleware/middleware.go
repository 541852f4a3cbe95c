package middleware

import (
	appcontext "github.com/SeakMengs/CadetTrack/internal/app_context"
	ratelimiter "github.com/SeakMengs/CadetTrack/internal/rate_limiter"
)

type Middleware struct {
	// nil disables rate limiting
	rateLimiter ratelimiter.Limiter
	app         *appcontext.Application
}

func NewMiddleware(app *appcontext.Application,
	rateLimiter ratelimiter.Limiter,
) *Middleware {
	return &Middleware{app: app, rateLimiter: rateLimiter}
}
