package consignment

import (
	"context"
	"errors"
	"testing"

	"github.com/dealerhub/dealerhub/internal/logging"
	"github.com/dealerhub/dealerhub/internal/messaging"
	"github.com/dealerhub/dealerhub/internal/notification"
	"github.com/dealerhub/dealerhub/internal/verification"
)

type okMessenger struct{}

func (okMessenger) UpsertContact(_ context.Context, phone, _ string) (messaging.ContactRef, error) {
	return messaging.ContactRef(phone), nil
}

func (okMessenger) SendSMS(context.Context, messaging.ContactRef, string) error { return nil }

type testNotifier struct {
	last notification.Message
	err  error
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.last = msg
	return n.err
}

func newTestService() (*Service, *verification.Service, Repository, *testNotifier) {
	verifier := verification.NewService(verification.NewMemoryRepository(), okMessenger{}, logging.Discard(),
		verification.WithCodeGenerator(func() string { return "123456" }))
	repo := NewMemoryRepository()
	notifier := &testNotifier{}
	svc := NewService(repo, verification.NewGuard(verifier), notifier, logging.Discard())
	return svc, verifier, repo, notifier
}

func sampleInput(phone string) Input {
	return Input{
		FirstName: "Dana",
		LastName:  "Reyes",
		Phone:     phone,
		Year:      2019,
		Make:      "Honda",
		Model:     "Civic",
		Mileage:   42000,
		Condition: "good",
		VIN:       "2hgfc2f59kh512345",
	}
}

func TestSubmitRequiresVerifiedPhone(t *testing.T) {
	svc, verifier, repo, notifier := newTestService()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, sampleInput("(555) 123-4567")); !errors.Is(err, verification.ErrPhoneNotVerified) {
		t.Fatalf("expected ErrPhoneNotVerified, got %v", err)
	}
	rows, _ := repo.List(ctx, 10)
	if len(rows) != 0 {
		t.Fatalf("no consignment may be written for an unverified phone, got %d", len(rows))
	}
	if notifier.last.LeadID != "" {
		t.Fatal("rejected submissions must not notify")
	}

	if err := verifier.Send(ctx, "555-123-4567", "Dana"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := verifier.Check(ctx, "5551234567", "123456"); err != nil {
		t.Fatalf("check: %v", err)
	}

	created, err := svc.Submit(ctx, sampleInput("(555) 123-4567"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.Phone != "+15551234567" {
		t.Fatalf("expected normalized phone, got %q", created.Phone)
	}
	if created.VIN != "2HGFC2F59KH512345" {
		t.Fatalf("expected upper-cased VIN, got %q", created.VIN)
	}
	stored, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != StatusNew || stored.Phone != "+15551234567" {
		t.Fatalf("unexpected stored record %+v", stored)
	}
	if notifier.last.Kind != notification.KindConsignment || notifier.last.LeadID != created.ID {
		t.Fatalf("expected consignment notification, got %+v", notifier.last)
	}
}

func TestSubmitSurvivesNotifierFailure(t *testing.T) {
	svc, verifier, repo, notifier := newTestService()
	notifier.err = errors.New("smtp down")
	ctx := context.Background()

	_ = verifier.Send(ctx, "5551234567", "")
	_ = verifier.Check(ctx, "5551234567", "123456")

	if _, err := svc.Submit(ctx, sampleInput("5551234567")); err != nil {
		t.Fatalf("notifier failures must not fail the submission: %v", err)
	}
	rows, _ := repo.List(ctx, 10)
	if len(rows) != 1 {
		t.Fatalf("expected one stored consignment, got %d", len(rows))
	}
}
