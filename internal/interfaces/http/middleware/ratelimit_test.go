package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests up to the limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("customer:a"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("customer:a"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)

		assert.True(t, limiter.Allow("customer:a"))
		assert.False(t, limiter.Allow("customer:a"))
		assert.True(t, limiter.Allow("customer:b"))
	})

	t.Run("window reset restores the budget", func(t *testing.T) {
		limiter := NewRateLimiter(1, 20*time.Millisecond)

		assert.True(t, limiter.Allow("ip:10.0.0.1"))
		assert.False(t, limiter.Allow("ip:10.0.0.1"))

		time.Sleep(30 * time.Millisecond)
		assert.True(t, limiter.Allow("ip:10.0.0.1"))
	})

	t.Run("remaining counts down", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		assert.Equal(t, 3, limiter.Remaining("customer:a"))
		limiter.Allow("customer:a")
		assert.Equal(t, 2, limiter.Remaining("customer:a"))
		limiter.Allow("customer:a")
		limiter.Allow("customer:a")
		assert.Equal(t, 0, limiter.Remaining("customer:a"))
	})
}

func newRateLimitRouter(limit int, window time.Duration, customerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if customerID != "" {
		r.Use(func(c *gin.Context) {
			c.Set(JWTCustomerIDKey, customerID)
		})
	}
	r.Use(RateLimit(NewRateLimiter(limit, window)))
	r.GET("/api/v1/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})
	return r
}

func TestRateLimit(t *testing.T) {
	t.Run("rejects with 429 once the limit is hit", func(t *testing.T) {
		r := newRateLimitRouter(2, time.Minute, "cust-42")

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		r := newRateLimitRouter(5, time.Minute, "cust-42")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("separate customers get separate budgets", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(JWTCustomerIDKey, c.GetHeader("X-Test-Customer"))
		})
		r.Use(RateLimit(limiter))
		r.GET("/api/v1/catalog", func(c *gin.Context) { c.Status(http.StatusOK) })

		send := func(customer string) int {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
			req.Header.Set("X-Test-Customer", customer)
			r.ServeHTTP(w, req)
			return w.Code
		}

		assert.Equal(t, http.StatusOK, send("cust-1"))
		assert.Equal(t, http.StatusTooManyRequests, send("cust-1"))
		assert.Equal(t, http.StatusOK, send("cust-2"))
	})

	t.Run("unauthenticated requests fall back to the client IP", func(t *testing.T) {
		r := newRateLimitRouter(1, time.Minute, "")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
