package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
)

func setupRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api/v1"))
	return r, f
}

func doRaw(r http.Handler, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHandlerPaymentLink(t *testing.T) {
	r, f := setupRouter(t)
	path := "/api/v1/bookings/" + f.booking.ID.String() + "/payment-link"

	w, body := doRaw(r, http.MethodPost, path, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])
	link := body["data"].(map[string]any)["payment_link"].(map[string]any)
	assert.Equal(t, "https://pay.example/MB-LINK-1", link["url"])

	w, body = doRaw(r, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, body["data"].(map[string]any)["created"])

	w, body = doRaw(r, http.MethodGet, "/api/v1/bookings/"+f.booking.ID.String()+"/payment-status", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(domain.PaymentPending), body["data"].(map[string]any)["status"])

	w, body = doRaw(r, http.MethodPost, "/api/v1/bookings/"+uuid.NewString()+"/payment-link", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOKING_NOT_FOUND", errorCode(body))

	w, _ = doRaw(r, http.MethodPost, "/api/v1/bookings/not-a-uuid/payment-link", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerRefund(t *testing.T) {
	r, f := setupRouter(t)
	path := "/api/v1/bookings/" + f.booking.ID.String() + "/refund"

	w, body := doRaw(r, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PAYMENT_NOT_FOUND", errorCode(body))

	f.hook.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	w, _ = doRaw(r, http.MethodPost, "/api/v1/payments/webhook", chargeEvent(EventChargeSucceeded, "captured", f.booking.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body = doRaw(r, http.MethodPost, path, []byte(`{"reason":"studio closed"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(domain.PaymentRefunded), body["data"].(map[string]any)["status"])
	assert.Equal(t, domain.BookingCancelled, f.bookingStatus(t, f.booking.ID))

	w, _ = doRaw(r, http.MethodPost, path, []byte(`{"reason":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerWebhook(t *testing.T) {
	r, f := setupRouter(t)
	f.hook.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tests := []struct {
		name   string
		body   []byte
		status int
		code   string
		event  domain.WebhookEventStatus
	}{
		{
			name:   "charge succeeded",
			body:   chargeEvent(EventChargeSucceeded, "captured", f.booking.ID),
			status: http.StatusOK,
			event:  domain.WebhookProcessed,
		},
		{
			name:   "link created",
			body:   []byte(`{"event_type":"payment_link.create","id":"MB-LINK-7"}`),
			status: http.StatusOK,
			event:  domain.WebhookAcknowledged,
		},
		{
			name:   "no booking reference",
			body:   []byte(`{"event_type":"charge.failed","id":"MPB-CHRG-2","status":"failed"}`),
			status: http.StatusBadRequest,
			code:   "MISSING_BOOKING_ID",
			event:  domain.WebhookFailed,
		},
		{
			name:   "unknown booking",
			body:   chargeEvent(EventChargeFailed, "failed", uuid.New()),
			status: http.StatusNotFound,
			code:   "BOOKING_NOT_FOUND",
			event:  domain.WebhookError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doRaw(r, http.MethodPost, "/api/v1/payments/webhook", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(body))
			}
			assert.Equal(t, tt.event, f.lastEvent(t).Status)
		})
	}

	assert.Equal(t, domain.BookingConfirmed, f.bookingStatus(t, f.booking.ID))
}

func TestHandlerWebhookRejectsInvalidJSON(t *testing.T) {
	r, f := setupRouter(t)

	w, body := doRaw(r, http.MethodPost, "/api/v1/payments/webhook", []byte(`{"event_type":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_WEBHOOK_PAYLOAD", errorCode(body))

	var n int64
	require.NoError(t, f.db.Model(&domain.WebhookEvent{}).Count(&n).Error)
	assert.Zero(t, n)
}
