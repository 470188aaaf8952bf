// Package mamopay is a client for the MamoPay business API: payment links,
// transaction lookups and refunds.
package mamopay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
)

const defaultTimeout = 15 * time.Second

var ErrNotConfigured = errors.New("mamopay: api key is not configured")

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mamopay http error: status=%d body=%s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type CustomData struct {
	BookingID string `json:"bookingId"`
	StudioID  string `json:"studioId,omitempty"`
	PackageID string `json:"packageId,omitempty"`
}

type LinkRequest struct {
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	Amount                float64    `json:"amount"`
	AmountCurrency        string     `json:"amount_currency"`
	ReturnURL             string     `json:"return_url"`
	FailureReturnURL      string     `json:"failure_return_url"`
	EnableCustomerDetails bool       `json:"enable_customer_details"`
	SendCustomerReceipt   bool       `json:"send_customer_receipt"`
	ExternalID            string     `json:"external_id"`
	CustomData            CustomData `json:"custom_data"`
	FirstName             string     `json:"first_name,omitempty"`
	LastName              string     `json:"last_name,omitempty"`
	Email                 string     `json:"email,omitempty"`
}

type Link struct {
	ID         string `json:"id"`
	PaymentURL string `json:"payment_url"`
	Active     bool   `json:"active"`
}

type Transaction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

type RefundResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) CreatePaymentLink(ctx context.Context, req LinkRequest) (*Link, error) {
	var out Link
	if err := c.do(ctx, http.MethodPost, "/links", req, &out); err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	if out.ID == "" || out.PaymentURL == "" {
		return nil, errors.New("create payment link: provider returned no link")
	}
	return &out, nil
}

func (c *Client) GetTransaction(ctx context.Context, externalID string) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(externalID), nil, &out); err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &out, nil
}

// GetPaymentStatus returns the mapped status of a transaction.
func (c *Client) GetPaymentStatus(ctx context.Context, externalID string) (domain.PaymentStatus, error) {
	tx, err := c.GetTransaction(ctx, externalID)
	if err != nil {
		return "", err
	}
	return MapStatus(tx.Status), nil
}

func (c *Client) Refund(ctx context.Context, externalID string, amount decimal.Decimal, reason string) (*RefundResult, error) {
	body := map[string]any{
		"amount": amount.InexactFloat64(),
		"reason": reason,
	}
	var out RefundResult
	if err := c.do(ctx, http.MethodPost, "/transactions/"+url.PathEscape(externalID)+"/refund", body, &out); err != nil {
		return nil, fmt.Errorf("refund: %w", err)
	}
	return &out, nil
}

// MapStatus translates the provider vocabulary. Unknown values stay pending.
func MapStatus(status string) domain.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed", "captured":
		return domain.PaymentCompleted
	case "failed", "cancelled":
		return domain.PaymentFailed
	case "refunded":
		return domain.PaymentRefunded
	default:
		return domain.PaymentPending
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.http == nil {
		return errors.New("mamopay: client is nil")
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("mamopay request error: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("mamopay request error: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("mamopay read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("mamopay decode error: %w", err)
	}
	return nil
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("mamopay timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("mamopay network error: %w", err)
	}
	return fmt.Errorf("mamopay request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
