package ratelimit

import (
	"context"
	"earn-server/internal/observability"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed      bool      `json:"allowed"`
	Limit        int       `json:"limit"`
	Remaining    int       `json:"remaining"`
	ResetAt      time.Time `json:"reset_at"`
	RetryAfterMs int       `json:"retry_after_ms,omitempty"`
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Service keeps a token bucket per user. The bucket refills at
// requestsPerMinute/60 tokens a second and holds a full minute of requests.
type Service struct {
	requestsPerMinute int
	now               func() time.Time
	logger            *observability.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewService creates a new rate limiting service
func NewService(requestsPerMinute int, logger *observability.Logger) *Service {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Service{
		requestsPerMinute: requestsPerMinute,
		now:               time.Now,
		logger:            logger,
		visitors:          make(map[string]*visitor),
	}
}

// CheckRateLimit consumes one request for userID
func (s *Service) CheckRateLimit(ctx context.Context, userID string) RateLimitResult {
	now := s.now()
	limiter := s.obtainLimiter(userID, now)

	perSecond := float64(s.requestsPerMinute) / 60
	if limiter.AllowN(now, 1) {
		tokens := limiter.TokensAt(now)
		missing := float64(s.requestsPerMinute) - tokens
		return RateLimitResult{
			Allowed:   true,
			Limit:     s.requestsPerMinute,
			Remaining: int(math.Floor(tokens)),
			ResetAt:   now.Add(time.Duration(missing / perSecond * float64(time.Second))),
		}
	}

	wait := time.Duration((1 - limiter.TokensAt(now)) / perSecond * float64(time.Second))
	return RateLimitResult{
		Allowed:      false,
		Limit:        s.requestsPerMinute,
		Remaining:    0,
		ResetAt:      now.Add(wait),
		RetryAfterMs: int(wait.Milliseconds()),
	}
}

func (s *Service) obtainLimiter(userID string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visitors[userID]
	if !ok {
		limit := rate.Limit(float64(s.requestsPerMinute) / 60)
		v = &visitor{limiter: rate.NewLimiter(limit, s.requestsPerMinute)}
		s.visitors[userID] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Prune forgets users not seen since cutoff
func (s *Service) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, id)
			removed++
		}
	}
	return removed
}
