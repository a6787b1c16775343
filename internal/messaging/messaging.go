package messaging

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by every call when no SMS provider credentials are present.
var ErrNotConfigured = errors.New("sms provider not configured")

// ContactRef is the provider-side handle used to address a text message.
type ContactRef string

// Messenger is the external CRM/SMS collaborator used to deliver verification codes.
type Messenger interface {
	UpsertContact(ctx context.Context, phone, displayName string) (ContactRef, error)
	SendSMS(ctx context.Context, ref ContactRef, message string) error
}

// APIError reports a non-2xx response from a provider.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.Status, e.Body)
}

// Disabled is the Messenger used when neither GoHighLevel nor Twilio is configured.
type Disabled struct{}

// UpsertContact always fails with ErrNotConfigured.
func (Disabled) UpsertContact(context.Context, string, string) (ContactRef, error) {
	return "", ErrNotConfigured
}

// SendSMS always fails with ErrNotConfigured.
func (Disabled) SendSMS(context.Context, ContactRef, string) error {
	return ErrNotConfigured
}

const (
	ProviderGoHighLevel = "ghl"
	ProviderTwilio      = "twilio"
)

// Settings selects and configures the SMS provider.
type Settings struct {
	Provider    string
	GoHighLevel GoHighLevelConfig
	Twilio      TwilioConfig
}

func (s Settings) goHighLevelReady() bool {
	return s.GoHighLevel.APIKey != "" && s.GoHighLevel.LocationID != ""
}

func (s Settings) twilioReady() bool {
	return s.Twilio.AccountSID != "" && s.Twilio.AuthToken != "" && s.Twilio.FromPhone != ""
}

// New returns the configured Messenger. An explicit provider without credentials, or no
// credentials at all, yields Disabled so sends fail fast instead of hanging.
func New(s Settings) Messenger {
	switch s.Provider {
	case ProviderGoHighLevel:
		if s.goHighLevelReady() {
			return NewGoHighLevel(s.GoHighLevel)
		}
		return Disabled{}
	case ProviderTwilio:
		if s.twilioReady() {
			return NewTwilio(s.Twilio)
		}
		return Disabled{}
	}
	switch {
	case s.goHighLevelReady():
		return NewGoHighLevel(s.GoHighLevel)
	case s.twilioReady():
		return NewTwilio(s.Twilio)
	default:
		return Disabled{}
	}
}
