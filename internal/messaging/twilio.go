package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig holds the account used for direct SMS delivery.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromPhone  string
	Timeout    time.Duration
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio sends codes straight to the handset. It has no contact book, so the
// normalized phone doubles as the contact reference.
type Twilio struct {
	api  messageCreator
	from string
}

// NewTwilio builds a Twilio-backed Messenger.
func NewTwilio(cfg TwilioConfig) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Twilio{api: client.Api, from: cfg.FromPhone}
}

// UpsertContact returns the phone itself.
func (t *Twilio) UpsertContact(_ context.Context, phone, _ string) (ContactRef, error) {
	if t.from == "" {
		return "", ErrNotConfigured
	}
	return ContactRef(phone), nil
}

// SendSMS creates an outbound message. The Twilio SDK call is not context aware, so a
// cancelled ctx abandons the wait but not the request.
func (t *Twilio) SendSMS(ctx context.Context, ref ContactRef, message string) error {
	if ref == "" {
		return errors.New("twilio: destination is required")
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(string(ref))
	params.SetFrom(t.from)
	params.SetBody(message)

	done := make(chan error, 1)
	go func() {
		_, err := t.api.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("twilio: create message: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("twilio: create message: %w", ctx.Err())
	}
}
