package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig holds rate limiting configuration. Requests are counted
// per key (caller IP, prefixed by clinic when known) in fixed windows: once a
// key exceeds MaxRequests inside a window, further requests are rejected
// until the window rolls over.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// DefaultRateLimitConfig returns default rate limiting settings.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 100,
		Window:      time.Minute,
	}
}

// window tracks the request count for one key in the current fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// rateLimiterStore holds per-key fixed windows.
type rateLimiterStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	config    RateLimitConfig
	nextSweep time.Time
}

func newRateLimiterStore(cfg RateLimitConfig) *rateLimiterStore {
	return &rateLimiterStore{
		windows: make(map[string]*window),
		config:  cfg,
	}
}

// allow increments the counter for key and reports whether the request fits
// in the current window, along with the seconds until the window resets.
func (s *rateLimiterStore) allow(key string, now time.Time) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop expired windows once per window length so the map does not grow
	// with one entry per caller ever seen.
	if now.After(s.nextSweep) {
		for k, w := range s.windows {
			if now.After(w.resetAt) {
				delete(s.windows, k)
			}
		}
		s.nextSweep = now.Add(s.config.Window)
	}

	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(s.config.Window)}
		s.windows[key] = w
	}

	retryAfter := int(time.Until(w.resetAt).Seconds()) + 1
	if w.count >= s.config.MaxRequests {
		return false, retryAfter
	}
	w.count++
	return true, retryAfter
}

// RateLimit returns a fixed-window rate limiting middleware.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.MaxRequests <= 0 {
		cfg = DefaultRateLimitConfig()
	}
	store := newRateLimiterStore(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Key by caller IP, prefixed by clinic when known
			key := c.RealIP()
			if clinicID, ok := c.Get("jwt_clinic_id").(string); ok && clinicID != "" {
				key = clinicID + ":" + key
			}

			ok, retryAfter := store.allow(key, time.Now())
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
