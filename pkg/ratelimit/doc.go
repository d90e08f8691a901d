// Package ratelimit throttles media downloads against the image CDN.
//
// A TokenBucket grants N requests per period and refills completely once the
// period has elapsed. Download workers call Wait before each request:
//
//	limiter := ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
