package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func spanAttr(attrs []attribute.KeyValue, key string) string {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.Emit()
		}
	}
	return ""
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{ServiceName: "test", Enabled: false}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_EnrichesAndMarksErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)
	tenantID := uuid.New()

	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{ServiceName: "test", Enabled: true}))
	router.Use(SpanErrorMarker())
	router.Use(TenantMiddleware())
	router.Use(TracingAttributeInjector())
	router.POST("/api/v1/inventory/items/:id/adjust", func(c *gin.Context) {
		SetErrorCode(c, "INSUFFICIENT_STOCK")
		c.Status(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/items/x/adjust", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	req.Header.Set(UserHeaderKey, "alice")
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", span.Status().Description)
	assert.Equal(t, "INSUFFICIENT_STOCK", spanAttr(span.Attributes(), "error.code"))
	assert.Equal(t, "req-42", spanAttr(span.Attributes(), "request_id"))
	assert.Equal(t, tenantID.String(), spanAttr(span.Attributes(), "tenant_id"))
	assert.Equal(t, "alice", spanAttr(span.Attributes(), "user"))
}
