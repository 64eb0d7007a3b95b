package middleware

import (
	"sync"
	"time"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/handlers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore hands out one token bucket per key. Buckets idle for longer
// than ttl are dropped; ttl must cover a full refill or a dropped bucket
// would reset the limit.
type limiterStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func newLimiterStore(limit rate.Limit, burst int, ttl time.Duration) *limiterStore {
	return &limiterStore{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	v, exists := s.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (s *limiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.visitors, key)
		}
	}
}

func (s *limiterStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

// RateLimiter limits requests per client IP.
func RateLimiter(requestsPerSecond, burst int) echo.MiddlewareFunc {
	store := newLimiterStore(rate.Limit(requestsPerSecond), burst, 3*time.Minute)
	go store.cleanupLoop()

	return limitBy(store, func(c echo.Context) string {
		return c.RealIP()
	})
}

// UserRateLimiter limits an authenticated user to perHour requests per hour,
// allowing bursts of burst. It must run after RequireSession; requests
// without a user fall back to the client IP.
func UserRateLimiter(perHour, burst int) echo.MiddlewareFunc {
	store := newLimiterStore(rate.Every(time.Hour/time.Duration(max(perHour, 1))), burst, 2*time.Hour)
	go store.cleanupLoop()

	return limitBy(store, func(c echo.Context) string {
		if userID, ok := c.Get("user_id").(uuid.UUID); ok {
			return "user:" + userID.String()
		}
		return "ip:" + c.RealIP()
	})
}

func limitBy(store *limiterStore, key func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !store.allow(key(c)) {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}
