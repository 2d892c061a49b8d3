package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newAccessLogRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
	})
	r.Use(AccessLog(zap.New(core)))
	return r, logs
}

func TestAccessLog(t *testing.T) {
	t.Run("logs an authenticated order request", func(t *testing.T) {
		r, logs := newAccessLogRouter(t)
		r.GET("/api/v1/orders", func(c *gin.Context) {
			c.Set("jwt_customer_id", "cust-42")
			c.JSON(http.StatusOK, gin.H{"data": []string{}})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=2", nil))

		entries := logs.FilterMessage("request").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/api/v1/orders", fields["path"])
		assert.Equal(t, "cust-42", fields["customer_id"])
		assert.Equal(t, "page=2", fields["query"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		r, logs := newAccessLogRouter(t)
		r.POST("/api/v1/auth/login", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "INVALID_CREDENTIALS"}})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

		entries := logs.FilterMessage("request").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		// no customer on an unauthenticated request
		assert.NotContains(t, entries[0].ContextMap(), "customer_id")
	})

	t.Run("server errors log at error", func(t *testing.T) {
		r, logs := newAccessLogRouter(t)
		r.GET("/api/v1/catalog", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": "INTERNAL"}})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

		entries := logs.FilterMessage("request").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/api/v1/orders/export", func(c *gin.Context) {
		panic("csv writer broke")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/export", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/v1/orders/export", fields["path"])
	assert.Equal(t, "csv writer broke", fields["error"])
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the request logger set by AccessLog", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		log := zap.NewExample()
		c.Set("logger", log)
		assert.Same(t, log, GetGinLogger(c))
	})

	t.Run("falls back to nop when unset", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		require.NotNil(t, GetGinLogger(c))
	})
}
