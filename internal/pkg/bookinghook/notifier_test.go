package bookinghook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/jwt"
)

func testBooking() *domain.Booking {
	start := time.Date(2026, 11, 2, 11, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:            uuid.New(),
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		DurationHours: 2,
		Status:        domain.BookingConfirmed,
		Studio:        &domain.Studio{Name: "Setup A"},
	}
}

func TestNotifyStaticToken(t *testing.T) {
	var got struct {
		Event   string         `json:"event"`
		Payload map[string]any `json:"payload"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tr_dev_1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, Token: "tr_dev_1", Enabled: true, Timeout: time.Second, OffsetMinutes: 240})
	b := testBooking()
	require.NoError(t, n.Notify(context.Background(), EventBookingConfirmed, b))

	assert.Equal(t, EventBookingConfirmed, got.Event)
	assert.Equal(t, "2026-11-02T15:00:00+04:00", got.Payload["start_time"])
	assert.Equal(t, "2026-11-02T17:00:00+04:00", got.Payload["end_time"])
	assert.Equal(t, b.ID.String(), got.Payload["id"])
	// caller's booking is untouched
	assert.Equal(t, time.UTC, b.StartTime.Location())
}

func TestNotifySignedToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, SigningSecret: "s3cret", Enabled: true, Timeout: time.Second})
	b := testBooking()
	require.NoError(t, n.Notify(context.Background(), EventBookingCreated, b))

	claims, err := jwt.New("s3cret", time.Minute).ValidateToken(strings.TrimPrefix(auth, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, EventBookingCreated, claims.Event)
	assert.Equal(t, b.ID.String(), claims.BookingID)
}

func TestNotifyDisabled(t *testing.T) {
	n := New(Config{URL: "http://localhost", Enabled: false})
	assert.False(t, n.Enabled())
	assert.ErrorIs(t, n.Notify(context.Background(), EventBookingCreated, testBooking()), ErrDisabled)
}

func TestNotifyNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := New(Config{URL: srv.URL, Enabled: true, Timeout: time.Second})
	err := n.Notify(context.Background(), EventBookingCreated, testBooking())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}
