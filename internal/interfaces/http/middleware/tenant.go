package middleware

import (
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Tenant and user context keys and headers
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
	UserKey         = "user"
	UserHeaderKey   = "X-User-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// SkipPaths are paths that don't require tenant context (e.g., health check)
	SkipPaths []string
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		SkipPaths: []string{"/health", "/api/v1/health"},
	}
}

// TenantMiddleware requires a UUID X-Tenant-ID header on every request
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns tenant middleware with custom configuration.
// The optional X-User-ID header is carried as the acting user recorded in
// audit entries; it is free text and never authenticated.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		raw := strings.TrimSpace(c.GetHeader(TenantHeaderKey))
		if raw == "" {
			abortTenant(c, "X-Tenant-ID header is required")
			return
		}
		if len(raw) > MaxTenantIDLength {
			abortTenant(c, "Invalid tenant ID format")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil {
			abortTenant(c, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Set(UserKey, strings.TrimSpace(c.GetHeader(UserHeaderKey)))

		ctx, reqLogger := logger.WithTenantID(c.Request.Context(), logger.GetGinLogger(c), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", reqLogger)

		c.Next()
	}
}

func abortTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeTenantRequired),
		dto.NewErrorResponseWithRequestID(dto.ErrCodeTenantRequired, message, GetRequestID(c)))
}

// GetTenantID returns the tenant ID set by the tenant middleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(TenantIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUser returns the acting user name, empty when not supplied
func GetUser(c *gin.Context) string {
	return c.GetString(UserKey)
}
