package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := New("secret", time.Minute)

	token, err := s.GenerateToken("booking.created", "b-1")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "booking.created", claims.Event)
	assert.Equal(t, "b-1", claims.BookingID)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := New("secret", time.Minute).GenerateToken("booking.created", "b-1")
	require.NoError(t, err)

	_, err = New("other", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredRejected(t *testing.T) {
	s := New("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := s.GenerateToken("booking.created", "b-1")
	require.NoError(t, err)

	_, err = New("secret", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
