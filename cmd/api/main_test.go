package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                "test",
		FacilityOffsetMinutes: 240,
		VatRate:               decimal.NewFromInt(5),
		MaxBookingHours:       12,
		LookAheadDays:         14,
		BookingTxTimeout:      5 * time.Second,
		NotifyTimeout:         time.Second,
		AvailabilityCacheTTL:  time.Minute,
		MamoPayBaseURL:        "http://127.0.0.1:0",
		RateLimitPerMinute:    600,
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouterWith(t, testConfig())
}

func setupRouterWith(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var r *gin.Engine
	require.NotPanics(t, func() { r = newRouter(ctx, cfg, db, nil) })
	return r
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRoutesAreMounted(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/studios", http.StatusOK},
		{http.MethodGet, "/api/v1/packages", http.StatusOK},
		{http.MethodGet, "/api/v1/additional-services", http.StatusOK},
		{http.MethodGet, "/api/v1/leads", http.StatusOK},
		{http.MethodGet, "/api/v1/discounts", http.StatusOK},
		{http.MethodGet, "/api/v1/studios/" + uuid.NewString() + "/availability", http.StatusNotFound},
		{http.MethodGet, "/api/v1/bookings/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodGet, "/api/v1/bookings/" + uuid.NewString() + "/payment-status", http.StatusNotFound},
		{http.MethodPost, "/api/v1/payments/webhook", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(nil))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body, "success")
		})
	}
}

func TestPaymentWebhookIsNotRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	r := setupRouterWith(t, cfg)

	post := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(nil)))
		return w.Code
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusBadRequest, post("/api/v1/payments/webhook"))
	}
	assert.NotEqual(t, http.StatusTooManyRequests, post("/api/v1/leads"))
	assert.Equal(t, http.StatusTooManyRequests, post("/api/v1/leads"))
}
