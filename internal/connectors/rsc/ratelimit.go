package rsc

import (
	"context"

	"golang.org/x/time/rate"
)

// ProactiveRate is the request throttle applied to the GraphQL endpoint.
// RSC publishes no per-client quota headers, so the limiter is purely
// proactive.
const ProactiveRate = 5.0

// RateLimiter throttles outgoing API requests.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a rate limiter with the proactive throttle rate.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}
