package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotencyRouter(t *testing.T, store cache.IdempotencyStore) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	calls := 0
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, c.GetHeader("X-Tenant-ID"))
		c.Next()
	})
	router.Use(Idempotency(store, time.Hour))
	router.POST("/payments", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	router.POST("/flaky", func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"call": calls})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	router.GET("/payments", func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})
	return router, &calls
}

func postWithKey(router *gin.Engine, path, tenant, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
	req.Header.Set("X-Tenant-ID", tenant)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	router, calls := newIdempotencyRouter(t, store)

	first := postWithKey(router, "/payments", "t1", "pay-1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(IdempotentReplayHeader))

	second := postWithKey(router, "/payments", "t1", "pay-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls)
}

func TestIdempotency_KeysAreScopedByTenantAndPath(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	router, calls := newIdempotencyRouter(t, store)

	postWithKey(router, "/payments", "t1", "k")
	postWithKey(router, "/payments", "t2", "k")
	postWithKey(router, "/flaky", "t1", "k")
	assert.Equal(t, 3, *calls)
}

func TestIdempotency_WithoutKeyOrNonPost(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	router, calls := newIdempotencyRouter(t, store)

	postWithKey(router, "/payments", "t1", "")
	postWithKey(router, "/payments", "t1", "")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/payments", nil)
		req.Header.Set(IdempotencyKeyHeader, "same")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 4, *calls)
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	router, calls := newIdempotencyRouter(t, store)

	assert.Equal(t, http.StatusInternalServerError, postWithKey(router, "/flaky", "t1", "retry").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(router, "/flaky", "t1", "retry").Code)

	replay := postWithKey(router, "/flaky", "t1", "retry")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, 2, *calls)
}

func TestIdempotency_InFlight(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	router, calls := newIdempotencyRouter(t, store)

	ok, err := store.Reserve(context.Background(), "t1:/payments:busy", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	w := postWithKey(router, "/payments", "t1", "busy")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_IN_FLIGHT")
	assert.Zero(t, *calls)
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	router, calls := newIdempotencyRouter(t, store)

	w := postWithKey(router, "/payments", "t1", strings.Repeat("k", MaxIdempotencyKeyLength+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, *calls)
}

type failingStore struct{ cache.IdempotencyStore }

func (failingStore) Reserve(context.Context, string, time.Duration) (bool, error) {
	return false, fmt.Errorf("redis down")
}

func TestIdempotency_StoreFailureFallsThrough(t *testing.T) {
	router, calls := newIdempotencyRouter(t, failingStore{})

	postWithKey(router, "/payments", "t1", "k")
	postWithKey(router, "/payments", "t1", "k")
	assert.Equal(t, 2, *calls)
}

// ctxCheckingStore fails writes on a done context the way the Redis client does
type ctxCheckingStore struct{ cache.IdempotencyStore }

func (s ctxCheckingStore) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.IdempotencyStore.Release(ctx, key)
}

func (s ctxCheckingStore) Complete(ctx context.Context, key string, resp cache.StoredResponse, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.IdempotencyStore.Complete(ctx, key, resp, ttl)
}

func TestIdempotency_TimedOutRequestReleasesKey(t *testing.T) {
	mem := cache.NewInMemoryIdempotencyStore()
	defer mem.Close()
	store := ctxCheckingStore{mem}

	gin.SetMode(gin.TestMode)
	calls := 0
	router := gin.New()
	router.Use(Timeout(20 * time.Millisecond))
	router.Use(Idempotency(store, time.Hour))
	router.POST("/payments", func(c *gin.Context) {
		calls++
		if calls == 1 {
			<-c.Request.Context().Done()
			c.JSON(http.StatusInternalServerError, gin.H{"call": calls})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	assert.Equal(t, http.StatusInternalServerError, postWithKey(router, "/payments", "t1", "slow").Code)

	retry := postWithKey(router, "/payments", "t1", "slow")
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Empty(t, retry.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, 2, calls)
}
