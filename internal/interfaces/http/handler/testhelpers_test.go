package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	inventoryapp "github.com/erp/backoffice/internal/application/inventory"
	reportapp "github.com/erp/backoffice/internal/application/report"
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/lock"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testServer is the full HTTP stack over a private in-memory sqlite database
type testServer struct {
	t        *testing.T
	engine   *gin.Engine
	db       *persistence.Database
	tenantID uuid.UUID
	headers  map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	locker := lock.NewMemoryLocker(time.Second)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	historyRepo := persistence.NewGormHistoryRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)

	inventoryService := inventoryapp.NewInventoryService(itemRepo, historyRepo,
		persistence.NewGormInventoryTransactionScope(db.DB), locker)
	purchaseService := tradeapp.NewPurchaseService(purchaseRepo,
		persistence.NewGormPurchaseTransactionScope(db.DB), locker)
	reportService := reportapp.NewReportService(itemRepo, purchaseRepo, 30*24*time.Hour)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewSystemHandler("backoffice", "test", db).Health)

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	router.NewRouter(engine, router.WithMiddleware(
		middleware.TenantMiddleware(),
		middleware.Idempotency(idem, time.Hour),
	)).
		Register(
			InventoryRoutes(NewInventoryHandler(inventoryService)),
			PurchaseRoutes(NewPurchaseHandler(purchaseService)),
			ReportRoutes(NewReportHandler(reportService)),
		).
		Setup()

	return &testServer{t: t, engine: engine, db: db, tenantID: uuid.New(), headers: map[string]string{}}
}

// apiResponse keeps data raw so each test decodes it into its own type
type apiResponse = APIResponse[json.RawMessage]

func (s *testServer) doAs(tenant, method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenant != "" {
		req.Header.Set(middleware.TenantHeaderKey, tenant)
	}
	req.Header.Set(middleware.UserHeaderKey, "tester")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()
	return s.doAs(s.tenantID.String(), method, path, body)
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
