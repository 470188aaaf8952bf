// Package bookinghook posts booking lifecycle events to the automation webhook.
package bookinghook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/facilitytime"
	"studiobooking/internal/pkg/jwt"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"

	tokenTTL = 5 * time.Minute
)

var ErrDisabled = errors.New("bookinghook: notifier is disabled")

type Config struct {
	URL           string
	Token         string
	SigningSecret string
	Enabled       bool
	Timeout       time.Duration
	OffsetMinutes int
}

type Notifier struct {
	cfg    Config
	http   *http.Client
	signer *jwt.Service
}

func New(cfg Config) *Notifier {
	n := &Notifier{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.SigningSecret != "" {
		n.signer = jwt.New(cfg.SigningSecret, tokenTTL)
	}
	return n
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.cfg.Enabled && strings.TrimSpace(n.cfg.URL) != ""
}

type envelope struct {
	Event   string          `json:"event"`
	Payload *domain.Booking `json:"payload"`
}

// Notify sends the booking with its instants expressed in facility local time.
func (n *Notifier) Notify(ctx context.Context, event string, b *domain.Booking) error {
	if !n.Enabled() {
		return ErrDisabled
	}

	local := *b
	local.StartTime = facilitytime.ToLocal(b.StartTime, n.cfg.OffsetMinutes)
	local.EndTime = facilitytime.ToLocal(b.EndTime, n.cfg.OffsetMinutes)
	local.CreatedAt = facilitytime.ToLocal(b.CreatedAt, n.cfg.OffsetMinutes)
	local.UpdatedAt = facilitytime.ToLocal(b.UpdatedAt, n.cfg.OffsetMinutes)

	body, err := json.Marshal(envelope{Event: event, Payload: &local})
	if err != nil {
		return fmt.Errorf("bookinghook encode: %w", err)
	}

	token, err := n.bearer(event, b.ID.String())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bookinghook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("bookinghook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bookinghook http error: status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}

func (n *Notifier) bearer(event, bookingID string) (string, error) {
	if n.signer == nil {
		return n.cfg.Token, nil
	}
	token, err := n.signer.GenerateToken(event, bookingID)
	if err != nil {
		return "", fmt.Errorf("bookinghook sign: %w", err)
	}
	return token, nil
}
