// Package notion writes booking and lead rows into the sales team's Notion database.
package notion

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
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	APIVersion     = "2022-06-28"

	defaultPackageName   = "Recording Only"
	defaultPaymentMethod = "Card"
)

var ErrDisabled = errors.New("notion: client is not configured")

type Client struct {
	baseURL    string
	token      string
	databaseID string
	http       *http.Client
}

func NewClient(token, databaseID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		token:      strings.TrimSpace(token),
		databaseID: strings.TrimSpace(databaseID),
		http:       &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.token != "" && c.databaseID != ""
}

// BookingEntry is the CRM view of a booking.
type BookingEntry struct {
	BookingID      string
	FullName       string
	Email          string
	PhoneNumber    string
	WhatsappNumber string
	Location       string
	Seats          int
	Start          time.Time
	End            time.Time
	StudioName     string
	PackageName    string
}

// NewBookingEntry flattens a booking loaded with its studio, package and lead.
func NewBookingEntry(b *domain.Booking, offsetMinutes int) BookingEntry {
	e := BookingEntry{
		BookingID: b.ID.String(),
		Seats:     b.NumberOfSeats,
		Start:     facilitytime.ToLocal(b.StartTime, offsetMinutes),
		End:       facilitytime.ToLocal(b.EndTime, offsetMinutes),
	}
	if b.Lead != nil {
		e.FullName = b.Lead.FullName
		e.Email = b.Lead.EmailValue()
		e.PhoneNumber = b.Lead.PhoneNumber
		e.WhatsappNumber = b.Lead.WhatsappNumber
		e.Location = b.Lead.RecordingLocation
	}
	if b.Studio != nil {
		e.StudioName = b.Studio.Name
	}
	if b.Package != nil {
		e.PackageName = b.Package.Name
	}
	return e
}

func (c *Client) CreateBookingEntry(ctx context.Context, e BookingEntry) error {
	packageName := e.PackageName
	if packageName == "" {
		packageName = defaultPackageName
	}
	whatsapp := e.WhatsappNumber
	if whatsapp == "" {
		whatsapp = e.PhoneNumber
	}

	props := map[string]any{
		"Name":             title(e.FullName),
		"bookingID":        richText(e.BookingID),
		"location":         richText(e.Location),
		"Number of guests": map[string]any{"number": e.Seats},
		"Booking Date": map[string]any{"date": map[string]string{
			"start": e.Start.Format(time.RFC3339),
			"end":   e.End.Format(time.RFC3339),
		}},
		"Customer Email": map[string]any{"email": nullable(e.Email)},
		"Phone Number":   map[string]any{"phone_number": nullable(e.PhoneNumber)},
		"Setup":          selectOption(e.StudioName),
		"Package":        selectOption(packageName),
		"Payment Method": selectOption(defaultPaymentMethod),
		"Whatsapp":       map[string]any{"phone_number": nullable(whatsapp)},
	}
	return c.createPage(ctx, props)
}

func (c *Client) CreateLeadEntry(ctx context.Context, lead *domain.Lead) error {
	whatsapp := lead.WhatsappNumber
	if whatsapp == "" {
		whatsapp = lead.PhoneNumber
	}
	props := map[string]any{
		"Name":           title(lead.FullName),
		"location":       richText(lead.RecordingLocation),
		"Customer Email": map[string]any{"email": nullable(lead.EmailValue())},
		"Phone Number":   map[string]any{"phone_number": nullable(lead.PhoneNumber)},
		"Whatsapp":       map[string]any{"phone_number": nullable(whatsapp)},
	}
	return c.createPage(ctx, props)
}

func (c *Client) createPage(ctx context.Context, props map[string]any) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	payload, err := json.Marshal(map[string]any{
		"parent":     map[string]string{"database_id": c.databaseID},
		"properties": props,
	})
	if err != nil {
		return fmt.Errorf("notion request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notion request error: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notion http error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func title(s string) map[string]any {
	return map[string]any{"title": []map[string]any{{"text": map[string]string{"content": s}}}}
}

func richText(s string) map[string]any {
	return map[string]any{"rich_text": []map[string]any{{"text": map[string]string{"content": s}}}}
}

func selectOption(name string) map[string]any {
	if name == "" {
		return map[string]any{"select": nil}
	}
	return map[string]any{"select": map[string]string{"name": name}}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
