package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, f := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, f
}

func doJSON(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func bookingBody(f fixture, startHour int) map[string]any {
	return map[string]any{
		"studio_id":       f.studio.ID,
		"package_id":      f.pkg.ID,
		"start_time":      localTime(startHour).Format(time.RFC3339),
		"duration":        2,
		"number_of_seats": 1,
		"lead": map[string]any{
			"full_name":    "Omar Haddad",
			"email":        "omar@example.com",
			"phone_number": "+971500000003",
		},
	}
}

func TestHandlerCreateAndGetBooking(t *testing.T) {
	r, f := setupRouter(t)

	w, body := doJSON(r, http.MethodPost, "/api/v1/bookings", bookingBody(f, 14))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	created := body["data"].(map[string]any)["booking"].(map[string]any)
	assert.Equal(t, "PENDING", created["status"])
	assert.Equal(t, "1260.00", decimal.RequireFromString(created["total_cost"].(string)).StringFixed(2))

	w, body = doJSON(r, http.MethodGet, "/api/v1/bookings/"+created["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := body["data"].(map[string]any)["booking"].(map[string]any)
	assert.Equal(t, created["id"], got["id"])
}

func TestHandlerOverlapIsBadRequest(t *testing.T) {
	r, f := setupRouter(t)

	w, _ := doJSON(r, http.MethodPost, "/api/v1/bookings", bookingBody(f, 14))
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := doJSON(r, http.MethodPost, "/api/v1/bookings", bookingBody(f, 15))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "TIME_SLOT_UNAVAILABLE", body["error"].(map[string]any)["code"])
}

func TestHandlerErrors(t *testing.T) {
	r, _ := setupRouter(t)

	w, _ := doJSON(r, http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := doJSON(r, http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOKING_NOT_FOUND", body["error"].(map[string]any)["code"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
