package verification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dealerhub/dealerhub/internal/logging"
	"github.com/dealerhub/dealerhub/internal/messaging"
)

type fakeMessenger struct {
	mu        sync.Mutex
	upsertErr error
	sendErr   error
	upserts   []string
	messages  []string
}

func (m *fakeMessenger) UpsertContact(_ context.Context, phone, _ string) (messaging.ContactRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, phone)
	if m.upsertErr != nil {
		return "", m.upsertErr
	}
	return messaging.ContactRef("ct-" + phone), nil
}

func (m *fakeMessenger) SendSMS(_ context.Context, _ messaging.ContactRef, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.messages = append(m.messages, message)
	return nil
}

type blockingMessenger struct{}

func (blockingMessenger) UpsertContact(ctx context.Context, _, _ string) (messaging.ContactRef, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingMessenger) SendSMS(ctx context.Context, _ messaging.ContactRef, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sequence struct {
	codes []string
	next  int
}

func (s *sequence) Code() string {
	code := s.codes[s.next%len(s.codes)]
	s.next++
	return code
}

func newTestService(t *testing.T, m messaging.Messenger, codes ...string) (*Service, Repository, *testClock) {
	t.Helper()
	repo := NewMemoryRepository()
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	opts := []Option{WithClock(clock.Now)}
	if len(codes) > 0 {
		seq := &sequence{codes: codes}
		opts = append(opts, WithCodeGenerator(seq.Code))
	}
	return NewService(repo, m, logging.Discard(), opts...), repo, clock
}

func TestSendThenCheckAcrossFormatting(t *testing.T) {
	m := &fakeMessenger{}
	svc, _, _ := newTestService(t, m, "482913")
	ctx := context.Background()

	if err := svc.Send(ctx, "555-123-4567", "Dana"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(m.upserts) != 1 || m.upserts[0] != "+15551234567" {
		t.Fatalf("expected upsert with normalized phone, got %v", m.upserts)
	}

	if ok, _ := svc.IsVerified(ctx, "5551234567"); ok {
		t.Fatal("phone must not be verified before check")
	}
	if err := svc.Check(ctx, "(555) 123-4567", "482913"); err != nil {
		t.Fatalf("check: %v", err)
	}
	ok, err := svc.IsVerified(ctx, "+1 555 123 4567")
	if err != nil {
		t.Fatalf("is verified: %v", err)
	}
	if !ok {
		t.Fatal("expected phone to be verified")
	}
}

func TestSendRejectsShortPhone(t *testing.T) {
	m := &fakeMessenger{}
	svc, repo, _ := newTestService(t, m)
	ctx := context.Background()

	err := svc.Send(ctx, "555-1234", "Dana")
	if !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
	if Code(err) != CodeInvalidPhone {
		t.Fatalf("unexpected code %q", Code(err))
	}
	if len(m.upserts) != 0 {
		t.Fatal("messenger must not be called for invalid phones")
	}
	rows, _ := repo.ListByPhone(ctx, "+5551234")
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestSendUnavailableCreatesNoRecord(t *testing.T) {
	for name, m := range map[string]messaging.Messenger{
		"provider error": &fakeMessenger{upsertErr: errors.New("connection refused")},
		"not configured": messaging.Disabled{},
	} {
		t.Run(name, func(t *testing.T) {
			svc, repo, _ := newTestService(t, m)
			ctx := context.Background()

			err := svc.Send(ctx, "5551234567", "Dana")
			if !errors.Is(err, ErrDeliveryUnavailable) {
				t.Fatalf("expected ErrDeliveryUnavailable, got %v", err)
			}
			rows, _ := repo.ListByPhone(ctx, "+15551234567")
			if len(rows) != 0 {
				t.Fatalf("expected no rows, got %d", len(rows))
			}
		})
	}
}

func TestSendTimeoutIsUnavailable(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, blockingMessenger{}, logging.Discard(), WithDeliveryTimeout(20*time.Millisecond))

	err := svc.Send(context.Background(), "5551234567", "")
	if !errors.Is(err, ErrDeliveryUnavailable) {
		t.Fatalf("expected ErrDeliveryUnavailable after timeout, got %v", err)
	}
}

func TestSendDeliveryFailedKeepsRecord(t *testing.T) {
	m := &fakeMessenger{sendErr: errors.New("carrier rejected")}
	svc, repo, _ := newTestService(t, m, "111222")
	ctx := context.Background()

	err := svc.Send(ctx, "5551234567", "Dana")
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	rows, _ := repo.ListByPhone(ctx, "+15551234567")
	if len(rows) != 1 {
		t.Fatalf("expected orphaned row to remain, got %d", len(rows))
	}
	if rows[0].ContactRef != "ct-+15551234567" {
		t.Fatalf("unexpected contact ref %q", rows[0].ContactRef)
	}
	if ok, _ := svc.IsVerified(ctx, "5551234567"); ok {
		t.Fatal("orphaned row must not verify the phone")
	}
}

func TestSMSCarriesCodeAndExpiry(t *testing.T) {
	m := &fakeMessenger{}
	svc, repo, clock := newTestService(t, m)
	ctx := context.Background()

	if err := svc.Send(ctx, "5551234567", "Dana"); err != nil {
		t.Fatalf("send: %v", err)
	}
	rows, _ := repo.ListByPhone(ctx, "+15551234567")
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if len(row.Code) != 6 {
		t.Fatalf("expected 6 digit code, got %q", row.Code)
	}
	if !strings.Contains(m.messages[0], row.Code) {
		t.Fatalf("sms %q does not carry stored code %q", m.messages[0], row.Code)
	}
	if !strings.Contains(m.messages[0], "expires in 10 minutes") {
		t.Fatalf("sms %q lacks expiry notice", m.messages[0])
	}
	if !row.ExpiresAt.Equal(clock.Now().Add(10 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", row.ExpiresAt)
	}
	if row.VerifiedAt != nil {
		t.Fatal("new rows start unverified")
	}

	if err := svc.Check(ctx, "5551234567", row.Code); err != nil {
		t.Fatalf("stored code should check byte for byte: %v", err)
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	svc, repo, clock := newTestService(t, &fakeMessenger{}, "654321")
	ctx := context.Background()

	if err := svc.Send(ctx, "5551234567", ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.Check(ctx, "5551234567", "654321"); err != nil {
		t.Fatalf("first check: %v", err)
	}
	rows, _ := repo.ListByPhone(ctx, "+15551234567")
	first := *rows[0].VerifiedAt

	clock.Advance(time.Minute)
	if err := svc.Check(ctx, "5551234567", "654321"); err != nil {
		t.Fatalf("second check should succeed: %v", err)
	}
	rows, _ = repo.ListByPhone(ctx, "+15551234567")
	if !rows[0].VerifiedAt.Equal(first) {
		t.Fatalf("verified_at changed from %v to %v", first, *rows[0].VerifiedAt)
	}
}

func TestCheckExpiredAndWrongCodeAreIndistinguishable(t *testing.T) {
	svc, _, clock := newTestService(t, &fakeMessenger{}, "700700")
	ctx := context.Background()

	if err := svc.Send(ctx, "5551234567", ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	wrong := svc.Check(ctx, "5551234567", "700701")
	if !errors.Is(wrong, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode for wrong code, got %v", wrong)
	}

	clock.Advance(CodeTTL)
	expired := svc.Check(ctx, "5551234567", "700700")
	if !errors.Is(expired, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode for expired code, got %v", expired)
	}
	if wrong.Error() != expired.Error() || Code(wrong) != Code(expired) {
		t.Fatal("wrong and expired codes must surface identically")
	}
	if ok, _ := svc.IsVerified(ctx, "5551234567"); ok {
		t.Fatal("failed checks must not verify")
	}
}

func TestVerifiedStatusOutlivesCodeExpiry(t *testing.T) {
	svc, _, clock := newTestService(t, &fakeMessenger{}, "246810")
	ctx := context.Background()

	_ = svc.Send(ctx, "5551234567", "")
	if err := svc.Check(ctx, "5551234567", "246810"); err != nil {
		t.Fatalf("check: %v", err)
	}
	clock.Advance(48 * time.Hour)
	if ok, _ := svc.IsVerified(ctx, "5551234567"); !ok {
		t.Fatal("verified status does not expire")
	}
}

func TestEarlierCodeStaysValidAfterResend(t *testing.T) {
	m := &fakeMessenger{}
	svc, repo, clock := newTestService(t, m, "111111", "222222")
	ctx := context.Background()

	if err := svc.Send(ctx, "5551234567", ""); err != nil {
		t.Fatalf("first send: %v", err)
	}
	clock.Advance(time.Minute)
	if err := svc.Send(ctx, "5551234567", ""); err != nil {
		t.Fatalf("second send: %v", err)
	}
	rows, _ := repo.ListByPhone(ctx, "+15551234567")
	if len(rows) != 2 {
		t.Fatalf("expected two independent rows, got %d", len(rows))
	}
	if err := svc.Check(ctx, "5551234567", "111111"); err != nil {
		t.Fatalf("first code should still check: %v", err)
	}
}

func TestCodesDoNotCrossPhones(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeMessenger{}, "333333")
	ctx := context.Background()

	_ = svc.Send(ctx, "5551234567", "")
	_ = svc.Send(ctx, "5559876543", "")

	if err := svc.Check(ctx, "5550000000", "333333"); !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("code must not validate for another phone, got %v", err)
	}
	if err := svc.Check(ctx, "5559876543", "333333"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok, _ := svc.IsVerified(ctx, "5551234567"); ok {
		t.Fatal("verifying one phone must not verify another sharing the code")
	}
}

func TestCheckEmptyCode(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeMessenger{})
	if err := svc.Check(context.Background(), "5551234567", ""); !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode, got %v", err)
	}
}

func TestRandomCodeRange(t *testing.T) {
	for i := 0; i < 5000; i++ {
		code := randomCode()
		if len(code) != 6 || code[0] == '0' {
			t.Fatalf("code %q outside [100000, 999999]", code)
		}
	}
}

func TestGuard(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeMessenger{}, "909090")
	guard := NewGuard(svc)
	ctx := context.Background()

	if _, err := guard.Require(ctx, "(555) 123-4567"); !errors.Is(err, ErrPhoneNotVerified) {
		t.Fatalf("expected ErrPhoneNotVerified, got %v", err)
	}

	_ = svc.Send(ctx, "5551234567", "")
	_ = svc.Check(ctx, "5551234567", "909090")

	normalized, err := guard.Require(ctx, "(555) 123-4567")
	if err != nil {
		t.Fatalf("require: %v", err)
	}
	if normalized != "+15551234567" {
		t.Fatalf("expected normalized phone, got %q", normalized)
	}
}
