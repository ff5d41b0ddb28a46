package ratelimit

import (
	"context"
	"earn-server/internal/auth/telegram"
	"earn-server/internal/observability"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestService(rpm int, now time.Time) *Service {
	s := NewService(rpm, observability.NewNopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestCheckRateLimit_ExhaustsBurst(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(3, now)

	for i := 0; i < 3; i++ {
		result := s.CheckRateLimit(context.Background(), "42")
		require.True(t, result.Allowed, "request %d", i)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result := s.CheckRateLimit(context.Background(), "42")
	assert.False(t, result.Allowed)
	assert.Equal(t, 3, result.Limit)
	assert.InDelta(t, 20000, result.RetryAfterMs, 1)

	other := s.CheckRateLimit(context.Background(), "43")
	assert.True(t, other.Allowed)
}

func TestCheckRateLimit_Refills(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(1, now)

	require.True(t, s.CheckRateLimit(context.Background(), "42").Allowed)
	require.False(t, s.CheckRateLimit(context.Background(), "42").Allowed)

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.True(t, s.CheckRateLimit(context.Background(), "42").Allowed)
}

func TestPrune(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(10, now)
	s.CheckRateLimit(context.Background(), "1")
	s.CheckRateLimit(context.Background(), "2")

	assert.Equal(t, 0, s.Prune(now))
	assert.Equal(t, 2, s.Prune(now.Add(time.Second)))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	s := newTestService(1, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			telegram.SetIdentity(c, telegram.Identity{ID: 7})
		}
		c.Next()
	}, s.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(withUser bool) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if withUser {
			req.Header.Set("X-User", "1")
		}
		router.ServeHTTP(w, req)
		return w
	}

	first := do(true)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do(true)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")

	assert.Equal(t, http.StatusOK, do(false).Code)
}
