package notification

import (
	"context"
	"log/slog"
)

const (
	// KindConsignment announces a new consignment lead.
	KindConsignment = "consignment"
	// KindAppointment announces a new appointment request.
	KindAppointment = "appointment"
	// KindCreditApplication announces a new credit application.
	KindCreditApplication = "credit_application"
)

// Message describes a lead announcement for dealership staff.
type Message struct {
	Kind    string
	LeadID  string
	Subject string
	Body    string
}

// Notifier delivers lead announcements to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes announcements to the structured logger. It is the fallback when
// no email provider is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("lead notification",
		slog.String("kind", message.Kind),
		slog.String("lead_id", message.LeadID),
		slog.String("subject", message.Subject),
	)
	return nil
}
