package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Header length limits for identifiers copied into logs and spans
const (
	MaxRequestIDLength = 128
	MaxTenantIDLength  = 64
)

// ErrorCodeKey holds the envelope error code of a failed request
const ErrorCodeKey = "error_code"

type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig wraps otelgin; spans are named after the route pattern.
// When disabled it is a pass-through.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector copies the request, tenant and user identifiers
// onto the current span. It must run after TenantMiddleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			var attrs []attribute.KeyValue
			if id := GetRequestID(c); id != "" {
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if id := c.GetString(TenantIDKey); id != "" {
				attrs = append(attrs, attribute.String("tenant_id", id))
			}
			if user := GetUser(c); user != "" {
				attrs = append(attrs, attribute.String("user", user))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}

// SetErrorCode records the error code sent to the client so that the span
// and the access log can carry it
func SetErrorCode(c *gin.Context, code string) {
	c.Set(ErrorCodeKey, code)
}

// SpanErrorMarker sets an error status on spans of 4xx and 5xx responses.
// The status description is the envelope error code when one was recorded,
// e.g. INSUFFICIENT_STOCK, otherwise the HTTP status text.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		description := http.StatusText(status)
		if code := c.GetString(ErrorCodeKey); code != "" {
			description = code
			span.SetAttributes(attribute.String("error.code", code))
		}
		span.SetStatus(codes.Error, description)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
