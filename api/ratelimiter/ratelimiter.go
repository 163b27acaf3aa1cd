package ratelimiter

import (
	"time"

	"github.com/nknorg/powledger/common"
	"golang.org/x/time/rate"
)

var rateLimiters = common.NewGoCache(10*time.Minute, 5*time.Minute)

// GetLimiter returns the token bucket for key, creating it with limit events
// per second and the given burst on first use.
func GetLimiter(key string, limit float64, burst int) *rate.Limiter {
	return rateLimiters.GetOrCreate(key, func() interface{} {
		return rate.NewLimiter(rate.Limit(limit), burst)
	}).(*rate.Limiter)
}

// Allow reports whether one more event for key fits in its bucket. A non
// positive limit disables limiting.
func Allow(key string, limit float64, burst int) bool {
	if limit <= 0 {
		return true
	}
	return GetLimiter(key, limit, burst).Allow()
}
