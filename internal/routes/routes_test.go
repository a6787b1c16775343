package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/dealerhub/internal/config"
	"github.com/dealerhub/dealerhub/internal/logging"
	"github.com/dealerhub/dealerhub/internal/messaging"
	"github.com/dealerhub/dealerhub/internal/notification"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type inbox struct {
	mu       sync.Mutex
	messages []string
}

func (i *inbox) UpsertContact(_ context.Context, phone, _ string) (messaging.ContactRef, error) {
	return messaging.ContactRef("contact-" + phone), nil
}

func (i *inbox) SendSMS(_ context.Context, _ messaging.ContactRef, message string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, message)
	return nil
}

func (i *inbox) lastCode(t *testing.T) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	require.NotEmpty(t, i.messages)
	code := codePattern.FindString(i.messages[len(i.messages)-1])
	require.NotEmpty(t, code)
	return code
}

type leadCounter struct {
	mu    sync.Mutex
	kinds []string
}

func (l *leadCounter) Send(_ context.Context, msg notification.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kinds = append(l.kinds, msg.Kind)
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *inbox, *leadCounter) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	cfg := config.Config{
		AppEnv:         "test",
		IdempotencyTTL: time.Hour,
		SendLimit:      config.RateLimit{Max: 3, Window: 10 * time.Minute},
		Messaging:      config.Messaging{Timeout: time.Second},
	}
	box := &inbox{}
	leads := &leadCounter{}
	app := fiber.New()
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logging.Discard(), Messenger: box, Notifier: leads}))
	return app, box, leads
}

func call(t *testing.T, app *fiber.App, method, target, body string, headers ...string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestLeadFlowRequiresVerification(t *testing.T) {
	app, box, leads := newTestApp(t)
	consignmentBody := `{"firstName":"Dana","lastName":"Reyes","phone":"(555) 123-4567","year":2018,"make":"Toyota","model":"Camry","mileage":60000,"condition":"fair"}`

	status, body := call(t, app, fiber.MethodPost, "/api/v1/consignments", consignmentBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "phone not verified", body["error"])

	status, body = call(t, app, fiber.MethodPost, "/api/v1/verify/send", `{"phone":"555-123-4567","firstName":"Dana"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "verification code sent", body["message"])
	require.NotContains(t, body, "code")

	status, body = call(t, app, fiber.MethodPost, "/api/v1/verify/check", `{"phone":"5551234567","code":"000000"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "INVALID_OR_EXPIRED_CODE", body["code"])

	status, body = call(t, app, fiber.MethodPost, "/api/v1/verify/check", `{"phone":"+15551234567","code":"`+box.lastCode(t)+`"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["verified"])

	status, body = call(t, app, fiber.MethodGet, "/api/v1/verify/status?phone=555.123.4567", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "+15551234567", body["phone"])
	require.Equal(t, true, body["verified"])

	status, first := call(t, app, fiber.MethodPost, "/api/v1/consignments", consignmentBody, "Idempotency-Key", "lead-1")
	require.Equal(t, http.StatusCreated, status)
	status, replay := call(t, app, fiber.MethodPost, "/api/v1/consignments", consignmentBody, "Idempotency-Key", "lead-1")
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, first["id"], replay["id"])

	require.Equal(t, []string{notification.KindConsignment}, leads.kinds)
}

func TestSendIsRateLimitedPerPhone(t *testing.T) {
	app, _, _ := newTestApp(t)
	for i := 0; i < 3; i++ {
		status, _ := call(t, app, fiber.MethodPost, "/api/v1/verify/send", `{"phone":"5551234567","firstName":"Dana"}`)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := call(t, app, fiber.MethodPost, "/api/v1/verify/send", `{"phone":"+1 555 123 4567","firstName":"Dana"}`)
	require.Equal(t, http.StatusTooManyRequests, status)
}

func TestFinancingAndHealthRoutes(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := call(t, app, fiber.MethodGet, "/api/v1/financing/estimate?price=50000&downPayment=0&rate=6&term=60", "")
	require.Equal(t, http.StatusOK, status)
	require.InDelta(t, 966.64, body["monthlyPayment"], 0.01)

	status, body = call(t, app, fiber.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, map[string]any{"postgres": "disabled", "redis": "ok"}, body["status"])

	status, body = call(t, app, fiber.MethodGet, "/api/v1/ping", "", "X-Request-ID", "trace-7")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "trace-7", body["request_id"])
}

func TestSetupRequiresStoresOutsideDevelopment(t *testing.T) {
	err := Setup(fiber.New(), Deps{Cfg: config.Config{AppEnv: "production"}, Logger: logging.Discard()})
	require.Error(t, err)
}
