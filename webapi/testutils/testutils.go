// Package testutils provides helpers for webapi handler tests: an app built
// on the in-memory unit of work and bank simulator, and bearer token minting.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devdibi/dondoc/infra/provider/mockbank"
	"github.com/devdibi/dondoc/internal/fixtures/memuow"
	"github.com/devdibi/dondoc/pkg/app"
	"github.com/devdibi/dondoc/pkg/config"
	"github.com/devdibi/dondoc/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestSecret signs tokens in handler tests.
const TestSecret = "test-secret"

// TestEnv bundles everything a handler test touches.
type TestEnv struct {
	App  *fiber.App
	Uow  *memuow.UoW
	Bank *mockbank.MockBank
	Cfg  *config.App
}

// NewTestEnv builds a full Fiber app over in-memory infrastructure.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	uow := memuow.New()
	bank := mockbank.New()
	cfg := &config.App{
		Env:       "test",
		Server:    &config.Server{},
		Log:       &config.Log{},
		DB:        &config.DB{},
		Jwt:       &config.Jwt{Secret: TestSecret, Expiry: time.Hour},
		Bank:      &config.Bank{},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
	deps := &app.Deps{Uow: uow, Gateway: bank, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	a := app.New(deps, cfg)
	return &TestEnv{
		App:  webapi.SetupApp(a),
		Uow:  uow,
		Bank: bank,
		Cfg:  cfg,
	}
}

// BearerToken mints a signed token for the given user.
func BearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(TestSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

// DoJSON performs a request against the app with an optional JSON body and
// decodes the envelope.
func (e *TestEnv) DoJSON(t *testing.T, method, path, authorization string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp, envelope
}
