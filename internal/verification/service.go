package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/dealerhub/internal/messaging"
	"github.com/dealerhub/dealerhub/internal/phone"
)

// CodeTTL is how long an issued code can be checked.
const CodeTTL = 10 * time.Minute

const (
	codeMin = 100000
	codeMax = 999999
)

// Service is the phone verification gate: it issues codes, checks them and answers
// whether a phone has ever been verified.
type Service struct {
	repo      Repository
	messenger messaging.Messenger
	logger    *slog.Logger
	timeout   time.Duration
	now       func() time.Time
	newCode   func() string
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator overrides the random code source.
func WithCodeGenerator(gen func() string) Option {
	return func(s *Service) { s.newCode = gen }
}

// WithDeliveryTimeout bounds each call to the messaging provider.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService builds a verification gate.
func NewService(repo Repository, messenger messaging.Messenger, logger *slog.Logger, opts ...Option) *Service {
	if messenger == nil {
		messenger = messaging.Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:      repo,
		messenger: messenger,
		logger:    logger,
		timeout:   10 * time.Second,
		now:       time.Now,
		newCode:   randomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// randomCode draws uniformly from [100000, 999999]. Codes are short lived and scoped to
// a phone, so math/rand is enough.
func randomCode() string {
	return strconv.Itoa(codeMin + rand.IntN(codeMax-codeMin+1))
}

// Send issues a new code for rawPhone and texts it. Earlier codes stay valid until they
// expire on their own.
func (s *Service) Send(ctx context.Context, rawPhone, displayName string) error {
	if !phone.Valid(rawPhone) {
		return ErrInvalidPhone
	}
	normalized := phone.Normalize(rawPhone)

	ref, err := s.upsertContact(ctx, normalized, displayName)
	if err != nil {
		s.logger.Warn("verification contact upsert failed", slog.String("phone", normalized), slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrDeliveryUnavailable, err)
	}

	now := s.now().UTC()
	record := PhoneVerification{
		ID:         uuid.NewString(),
		Phone:      normalized,
		Code:       s.newCode(),
		ContactRef: string(ref),
		CreatedAt:  now,
		ExpiresAt:  now.Add(CodeTTL),
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return fmt.Errorf("store verification: %w", err)
	}

	if err := s.sendSMS(ctx, ref, smsBody(record.Code)); err != nil {
		s.logger.Warn("verification sms failed",
			slog.String("phone", normalized),
			slog.String("verification_id", record.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.logger.Info("verification code sent", slog.String("phone", normalized), slog.String("verification_id", record.ID))
	return nil
}

// Check confirms code for rawPhone. Checking an already verified pair again succeeds
// without touching the stored timestamp.
func (s *Service) Check(ctx context.Context, rawPhone, code string) error {
	normalized := phone.Normalize(rawPhone)
	if code == "" {
		return ErrInvalidOrExpiredCode
	}

	now := s.now().UTC()
	record, err := s.repo.FindActive(ctx, normalized, code, now)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidOrExpiredCode
	}
	if err != nil {
		return fmt.Errorf("lookup verification: %w", err)
	}

	if record.Verified() {
		return nil
	}
	if err := s.repo.MarkVerified(ctx, record.ID, now); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	s.logger.Info("phone verified", slog.String("phone", normalized), slog.String("verification_id", record.ID))
	return nil
}

// IsVerified reports whether any code for rawPhone was ever confirmed. Verified status
// does not expire.
func (s *Service) IsVerified(ctx context.Context, rawPhone string) (bool, error) {
	return s.repo.IsPhoneVerified(ctx, phone.Normalize(rawPhone))
}

func (s *Service) upsertContact(ctx context.Context, normalized, displayName string) (messaging.ContactRef, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.messenger.UpsertContact(ctx, normalized, displayName)
}

func (s *Service) sendSMS(ctx context.Context, ref messaging.ContactRef, body string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.messenger.SendSMS(ctx, ref, body)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func smsBody(code string) string {
	return fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(CodeTTL/time.Minute))
}
