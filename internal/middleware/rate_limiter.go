package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	if m.rateLimiter == nil {
		ctx.Next()
		return
	}

	allowed, retryAfter, err := m.rateLimiter.Allow(ctx, ctx.ClientIP())
	if err != nil {
		// A broken limiter backend should not take the api down with it.
		m.app.Logger.Warnw("Rate limiter unavailable", "error", err)
		ctx.Next()
		return
	}

	if !allowed {
		ctx.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		util.ResponseFailed(ctx, http.StatusTooManyRequests, "Too many requests", nil, gin.H{
			"retryAfter": retryAfter.String(),
		})
		return
	}

	ctx.Next()
}
