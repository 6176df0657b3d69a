package middleware

import (
	"net/http"

	"github.com/bomcraft/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys for business scoping
const (
	BusinessIDKey     = "business_id"
	StoreIDKey        = "store_id"
	BusinessHeaderKey = "X-Business-ID"
	StoreHeaderKey    = "X-Store-ID"
)

// BusinessScopeConfig holds configuration for the business scope middleware
type BusinessScopeConfig struct {
	// SkipPaths are paths that don't require a business scope
	SkipPaths []string
}

// DefaultBusinessScopeConfig returns the default business scope configuration
func DefaultBusinessScopeConfig() BusinessScopeConfig {
	return BusinessScopeConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// BusinessScope extracts the owning business from the X-Business-ID header.
// Every data-bearing route requires it; requests without a valid business ID
// are rejected before reaching any handler.
func BusinessScope() gin.HandlerFunc {
	return BusinessScopeWithConfig(DefaultBusinessScopeConfig())
}

// BusinessScopeWithConfig returns the business scope middleware with custom configuration
func BusinessScopeWithConfig(cfg BusinessScopeConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		header := c.GetHeader(BusinessHeaderKey)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing X-Business-ID header"))
			return
		}
		businessID, err := uuid.Parse(header)
		if err != nil || businessID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid X-Business-ID header"))
			return
		}
		c.Set(BusinessIDKey, businessID)

		if storeHeader := c.GetHeader(StoreHeaderKey); storeHeader != "" {
			storeID, err := uuid.Parse(storeHeader)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid X-Store-ID header"))
				return
			}
			c.Set(StoreIDKey, storeID)
		}

		c.Next()
	}
}

// GetBusinessID retrieves the business ID set by BusinessScope
func GetBusinessID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(BusinessIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetStoreID retrieves the optional store ID set by BusinessScope
func GetStoreID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(StoreIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
