package messaging

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
)

const (
	// DefaultGoHighLevelURL is the LeadConnector API root.
	DefaultGoHighLevelURL = "https://services.leadconnectorhq.com"
	goHighLevelVersion    = "2021-07-28"
	providerGoHighLevel   = "gohighlevel"
	maxErrorBody          = 512
)

// GoHighLevelConfig carries the CRM credentials for a single dealership location.
type GoHighLevelConfig struct {
	BaseURL    string
	APIKey     string
	LocationID string
	Timeout    time.Duration
}

// GoHighLevel delivers codes through the dealership CRM so the SMS lands in the same
// conversation thread sales staff already use.
type GoHighLevel struct {
	cfg    GoHighLevelConfig
	client *http.Client
}

// NewGoHighLevel builds a CRM-backed Messenger.
func NewGoHighLevel(cfg GoHighLevelConfig) *GoHighLevel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoHighLevelURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GoHighLevel{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type upsertContactRequest struct {
	LocationID string `json:"locationId"`
	Phone      string `json:"phone"`
	FirstName  string `json:"firstName,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Only the contact id matters; the rest of the payload is ignored.
type upsertContactResponse struct {
	Contact *struct {
		ID string `json:"id"`
	} `json:"contact"`
}

type sendMessageRequest struct {
	Type      string `json:"type"`
	ContactID string `json:"contactId"`
	Message   string `json:"message"`
}

// UpsertContact creates or updates the CRM contact for phone and returns its id.
func (g *GoHighLevel) UpsertContact(ctx context.Context, phone, displayName string) (ContactRef, error) {
	var resp upsertContactResponse
	err := g.post(ctx, "/contacts/upsert", upsertContactRequest{
		LocationID: g.cfg.LocationID,
		Phone:      phone,
		FirstName:  displayName,
		Source:     "website verification",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Contact == nil || resp.Contact.ID == "" {
		return "", errors.New("gohighlevel: upsert response missing contact id")
	}
	return ContactRef(resp.Contact.ID), nil
}

// SendSMS posts an outbound SMS into the contact's conversation.
func (g *GoHighLevel) SendSMS(ctx context.Context, ref ContactRef, message string) error {
	if ref == "" {
		return errors.New("gohighlevel: contact reference is required")
	}
	return g.post(ctx, "/conversations/messages", sendMessageRequest{
		Type:      "SMS",
		ContactID: string(ref),
		Message:   message,
	}, nil)
}

func (g *GoHighLevel) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gohighlevel: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("gohighlevel: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Version", goHighLevelVersion)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gohighlevel: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Provider: providerGoHighLevel, Status: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gohighlevel: decode %s response: %w", path, err)
	}
	return nil
}
