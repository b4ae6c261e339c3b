package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// gin context keys shared with the HTTP middleware package
const (
	ginLoggerKey    = "logger"
	ginRequestIDKey = "request_id"
	ginTenantIDKey  = "tenant_id"
	ginErrorCodeKey = "error_code"
)

// GinMiddleware puts a request-scoped logger into the gin and request
// contexts and writes one access log line per request. Middleware further
// down the chain may replace the logger (the tenant middleware does); the
// access line uses whichever logger is current when the handler returns.
func GinMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := logger.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		ctx, reqLogger := WithRequestID(c.Request.Context(), reqLogger, c.GetString(ginRequestIDKey))
		if tenantID := c.GetString(ginTenantIDKey); tenantID != "" {
			ctx, reqLogger = WithTenantID(ctx, reqLogger, tenantID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if code := c.GetString(ginErrorCodeKey); code != "" {
			fields = append(fields, zap.String("error_code", code))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		access := GetGinLogger(c)
		switch {
		case status >= http.StatusInternalServerError:
			access.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			access.Warn("HTTP request", fields...)
		default:
			access.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 INTERNAL_ERROR envelope and
// logs the stack. The panic value is never sent to the client.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString(ginRequestIDKey)
			logger.Error("Panic recovered",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.Set(ginErrorCodeKey, "INTERNAL_ERROR")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "INTERNAL_ERROR",
					"message":    "An unexpected error occurred",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}

// GetGinLogger returns the request logger, or a no-op logger outside a request
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
