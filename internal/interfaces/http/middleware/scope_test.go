package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessScope(t *testing.T) {
	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(BusinessScope())
		router.GET("/supplies", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		router.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "healthy")
		})
		return router
	}

	t.Run("rejects request without business header", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/supplies", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "X-Business-ID")
	})

	t.Run("rejects request with malformed business header", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/supplies", nil)
		req.Header.Set(BusinessHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects nil business ID", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/supplies", nil)
		req.Header.Set(BusinessHeaderKey, uuid.Nil.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes valid business ID to handler", func(t *testing.T) {
		businessID := uuid.New()
		var got uuid.UUID
		var ok bool

		router := gin.New()
		router.Use(BusinessScope())
		router.GET("/supplies", func(c *gin.Context) {
			got, ok = GetBusinessID(c)
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("GET", "/supplies", nil)
		req.Header.Set(BusinessHeaderKey, businessID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, ok)
		assert.Equal(t, businessID, got)
	})

	t.Run("parses optional store ID", func(t *testing.T) {
		businessID := uuid.New()
		storeID := uuid.New()
		var gotStore uuid.UUID
		var ok bool

		router := gin.New()
		router.Use(BusinessScope())
		router.GET("/supplies", func(c *gin.Context) {
			gotStore, ok = GetStoreID(c)
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("GET", "/supplies", nil)
		req.Header.Set(BusinessHeaderKey, businessID.String())
		req.Header.Set(StoreHeaderKey, storeID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, ok)
		assert.Equal(t, storeID, gotStore)
	})

	t.Run("rejects malformed store ID", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/supplies", nil)
		req.Header.Set(BusinessHeaderKey, uuid.New().String())
		req.Header.Set(StoreHeaderKey, "garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("skips health endpoints", func(t *testing.T) {
		router := newRouter()
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
