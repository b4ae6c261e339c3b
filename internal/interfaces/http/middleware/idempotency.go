package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key of a POST request
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader marks a response served from the store
	IdempotentReplayHeader = "Idempotent-Replayed"
	// MaxIdempotencyKeyLength bounds the header value
	MaxIdempotencyKeyLength = 255
)

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a POST carrying an
// Idempotency-Key already seen for the same tenant and path. A retried
// payment is therefore recorded once. Keys whose first attempt ended in a
// 5xx are released so the client may retry. Requests without the header
// pass through.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = cache.DefaultIdempotencyTTL
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		log := logger.GetGinLogger(c)
		storeKey := c.GetString(TenantIDKey) + ":" + c.Request.URL.Path + ":" + key

		reserved, err := store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			log.Warn("idempotency store unavailable, processing anyway", zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			resp, err := store.Lookup(ctx, storeKey)
			if err != nil {
				log.Warn("failed to read idempotent response", zap.Error(err))
			}
			if resp == nil {
				c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeRequestInFlight,
					"A request with this Idempotency-Key is still being processed",
					GetRequestID(c)))
				return
			}
			c.Header(IdempotentReplayHeader, "true")
			c.Data(resp.Status, resp.ContentType, resp.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		// The request context may already be done after a timeout; the key
		// must still be released or completed.
		ctx = context.WithoutCancel(ctx)
		status := rec.Status()
		if status >= http.StatusInternalServerError {
			if err := store.Release(ctx, storeKey); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
			return
		}
		err = store.Complete(ctx, storeKey, cache.StoredResponse{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}, ttl)
		if err != nil {
			log.Warn("failed to store idempotent response", zap.Error(err))
		}
	}
}
