package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// registrarFunc adapts a function to RouteRegistrar, standing in for the
// portal's handlers.
type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_Setup(t *testing.T) {
	t.Run("mounts routes under /api/v1 by default", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		r.Register(registrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/orders", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"data": []string{}})
			})
		}))
		r.Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/orders").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/orders").Code)
	})

	t.Run("honors a custom API version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v2"))

		r.Register(registrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/catalog", func(c *gin.Context) { c.Status(http.StatusOK) })
		}))
		r.Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/catalog").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/catalog").Code)
	})

	t.Run("registers every handler", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		r.Register(registrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
		})).Register(registrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/customers", func(c *gin.Context) { c.Status(http.StatusOK) })
		}))
		r.Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/products").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/customers").Code)
	})
}

func TestRouter_Use(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	// middleware registered through Use must run before any handler route
	r.Use(func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED"}})
			return
		}
		c.Next()
	})
	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/orders", func(c *gin.Context) { c.Status(http.StatusOK) })
	}))
	r.Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/orders").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
