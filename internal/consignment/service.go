package consignment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/dealerhub/internal/notification"
)

// PhoneGuard resolves a submitted phone into its verified, normalized form.
type PhoneGuard interface {
	Require(ctx context.Context, rawPhone string) (string, error)
}

// Service accepts consignment leads from verified phones.
type Service struct {
	repo     Repository
	guard    PhoneGuard
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs a consignment service.
func NewService(repo Repository, guard PhoneGuard, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, guard: guard, notifier: notifier, logger: logger}
}

// Submit stores the lead under the normalized phone. Nothing is written unless the phone
// has been verified.
func (s *Service) Submit(ctx context.Context, input Input) (Consignment, error) {
	normalized, err := s.guard.Require(ctx, input.Phone)
	if err != nil {
		return Consignment{}, err
	}

	c := Consignment{
		ID:          uuid.New().String(),
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.TrimSpace(input.Email),
		Phone:       normalized,
		VIN:         strings.ToUpper(strings.TrimSpace(input.VIN)),
		Year:        input.Year,
		Make:        strings.TrimSpace(input.Make),
		Model:       strings.TrimSpace(input.Model),
		Trim:        strings.TrimSpace(input.Trim),
		Mileage:     input.Mileage,
		Condition:   input.Condition,
		AskingPrice: input.AskingPrice,
		Notes:       input.Notes,
		Status:      StatusNew,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Consignment{}, fmt.Errorf("store consignment: %w", err)
	}

	s.announce(ctx, c)
	return c, nil
}

func (s *Service) announce(ctx context.Context, c Consignment) {
	if s.notifier == nil {
		return
	}
	msg := notification.Message{
		Kind:    notification.KindConsignment,
		LeadID:  c.ID,
		Subject: fmt.Sprintf("New consignment: %d %s %s", c.Year, c.Make, c.Model),
		Body: fmt.Sprintf("%s %s (%s, %s) wants to consign a %d %s %s %s.\nMileage: %d\nCondition: %s\nAsking: $%d\nVIN: %s\n\n%s",
			c.FirstName, c.LastName, c.Phone, c.Email, c.Year, c.Make, c.Model, c.Trim,
			c.Mileage, c.Condition, c.AskingPrice, c.VIN, c.Notes),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("consignment notification failed", slog.String("consignment_id", c.ID), slog.Any("error", err))
	}
}
