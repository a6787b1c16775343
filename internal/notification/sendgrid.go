package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridConfig addresses lead emails.
type SendGridConfig struct {
	APIKey      string
	FromEmail   string
	FromName    string
	ToEmail     string
	SandboxMode bool
}

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier emails each new lead to the sales inbox.
type SendGridNotifier struct {
	cfg    SendGridConfig
	client mailSender
}

// NewSendGridNotifier builds an email notifier.
func NewSendGridNotifier(cfg SendGridConfig) *SendGridNotifier {
	return &SendGridNotifier{cfg: cfg, client: sendgrid.NewSendClient(cfg.APIKey)}
}

// Send emails message to the configured inbox.
func (n *SendGridNotifier) Send(ctx context.Context, message Message) error {
	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromEmail)
	to := mail.NewEmail(n.cfg.FromName+" Sales", n.cfg.ToEmail)
	msg := mail.NewSingleEmail(from, message.Subject, to, message.Body, "")
	if n.cfg.SandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
