package creditapp

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

// ErrUnderage rejects applicants younger than MinimumAge.
var ErrUnderage = fmt.Errorf("applicant must be at least %d years old", MinimumAge)

// ErrNegativeAmount rejects negative income or payment figures.
var ErrNegativeAmount = errors.New("amounts must not be negative")

// PhoneGuard resolves a submitted phone into its verified, normalized form.
type PhoneGuard interface {
	Require(ctx context.Context, rawPhone string) (string, error)
}

// Service records credit applications from verified phones.
type Service struct {
	repo     Repository
	guard    PhoneGuard
	notifier notification.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a credit application service.
func NewService(repo Repository, guard PhoneGuard, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, guard: guard, notifier: notifier, logger: logger, now: time.Now}
}

// Apply validates and stores an application.
func (s *Service) Apply(ctx context.Context, input Input) (Application, error) {
	now := s.now().UTC()
	if ageOn(input.DateOfBirth, now) < MinimumAge {
		return Application{}, ErrUnderage
	}
	if input.AnnualIncome < 0 || input.HousingPayment < 0 || input.DownPayment < 0 {
		return Application{}, ErrNegativeAmount
	}
	normalized, err := s.guard.Require(ctx, input.Phone)
	if err != nil {
		return Application{}, err
	}

	a := Application{
		ID:             uuid.New().String(),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          normalized,
		DateOfBirth:    input.DateOfBirth,
		AnnualIncome:   input.AnnualIncome,
		Employer:       strings.TrimSpace(input.Employer),
		HousingPayment: input.HousingPayment,
		VehicleID:      strings.TrimSpace(input.VehicleID),
		DownPayment:    input.DownPayment,
		Status:         StatusSubmitted,
		CreatedAt:      now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, fmt.Errorf("store credit application: %w", err)
	}

	if s.notifier != nil {
		// Figures stay out of the notification; staff read them from the store.
		err := s.notifier.Send(ctx, notification.Message{
			Kind:    notification.KindCreditApplication,
			LeadID:  a.ID,
			Subject: fmt.Sprintf("New credit application from %s %s", a.FirstName, a.LastName),
			Body:    fmt.Sprintf("Phone: %s\nEmail: %s\nVehicle: %s\nApplication id: %s", a.Phone, a.Email, a.VehicleID, a.ID),
		})
		if err != nil {
			s.logger.Warn("credit application notification failed", slog.String("application_id", a.ID), slog.Any("error", err))
		}
	}
	return a, nil
}
