package consignment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const validBody = `{"firstName":"Dana","lastName":"Reyes","phone":"555-123-4567","year":2019,"make":"Honda","model":"Civic","mileage":42000,"condition":"good"}`

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/consignments", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestCreateHandler(t *testing.T) {
	svc, verifier, repo, _ := newTestService()
	app := fiber.New()
	app.Post("/consignments", NewHandler(svc).Create)

	status, body := post(t, app, validBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "phone not verified", body["error"])
	require.Equal(t, "PHONE_NOT_VERIFIED", body["code"])

	status, body = post(t, app, `{"phone":"555-123-4567","condition":"mint"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", body["code"])
	require.NotEmpty(t, body["details"])

	ctx := context.Background()
	require.NoError(t, verifier.Send(ctx, "5551234567", "Dana"))
	require.NoError(t, verifier.Check(ctx, "5551234567", "123456"))

	status, body = post(t, app, validBody)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, StatusNew, body["status"])

	stored, err := repo.Get(ctx, body["id"].(string))
	require.NoError(t, err)
	require.Equal(t, "+15551234567", stored.Phone)
}
