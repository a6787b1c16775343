package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/dealerhub/internal/notification"
)

// ErrPreferredTimeInPast rejects requests for a slot that has already gone by.
var ErrPreferredTimeInPast = errors.New("preferred time must be in the future")

// PhoneGuard resolves a submitted phone into its verified, normalized form.
type PhoneGuard interface {
	Require(ctx context.Context, rawPhone string) (string, error)
}

// Service books appointment requests from verified phones.
type Service struct {
	repo     Repository
	guard    PhoneGuard
	notifier notification.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs an appointment service.
func NewService(repo Repository, guard PhoneGuard, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, guard: guard, notifier: notifier, logger: logger, now: time.Now}
}

// Request stores an appointment request.
func (s *Service) Request(ctx context.Context, input Input) (Appointment, error) {
	now := s.now().UTC()
	if !input.PreferredAt.After(now) {
		return Appointment{}, ErrPreferredTimeInPast
	}
	normalized, err := s.guard.Require(ctx, input.Phone)
	if err != nil {
		return Appointment{}, err
	}

	a := Appointment{
		ID:          uuid.New().String(),
		Kind:        input.Kind,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.TrimSpace(input.Email),
		Phone:       normalized,
		VehicleID:   strings.TrimSpace(input.VehicleID),
		PreferredAt: input.PreferredAt.UTC(),
		Notes:       input.Notes,
		Status:      StatusRequested,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, fmt.Errorf("store appointment: %w", err)
	}

	if s.notifier != nil {
		err := s.notifier.Send(ctx, notification.Message{
			Kind:    notification.KindAppointment,
			LeadID:  a.ID,
			Subject: fmt.Sprintf("New %s request for %s", strings.ReplaceAll(a.Kind, "_", " "), a.PreferredAt.Format("Jan 2 15:04 MST")),
			Body: fmt.Sprintf("%s %s (%s, %s)\nVehicle: %s\n\n%s",
				a.FirstName, a.LastName, a.Phone, a.Email, a.VehicleID, a.Notes),
		})
		if err != nil {
			s.logger.Warn("appointment notification failed", slog.String("appointment_id", a.ID), slog.Any("error", err))
		}
	}
	return a, nil
}
