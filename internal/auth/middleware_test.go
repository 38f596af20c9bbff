package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

type stubValidator struct {
	tokens map[string]string
	calls  int
}

func (s *stubValidator) Validate(_ context.Context, token string) (string, error) {
	s.calls++
	if clientID, ok := s.tokens[token]; ok {
		return clientID, nil
	}
	return "", apperrors.NewInvalidToken()
}

func newTestApp(validator TokenValidator) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	mw := NewAuthMiddleware(validator)
	app.Get("/whoami", mw.Handle, RequireClient(), func(c *fiber.Ctx) error {
		clientID, _ := ClientIDFromContext(c)
		fromCtx, _ := ClientIDFrom(c.UserContext())
		return c.JSON(fiber.Map{"clientId": clientID, "ctx": fromCtx})
	})
	app.Post("/write", mw.Handle, func(c *fiber.Ctx) error {
		clientID, err := EnsureClientMatch(c, c.Query("clientId"))
		if err != nil {
			return err
		}
		return c.SendString(clientID)
	})
	app.Post("/admin", RequireAdminKey("admin-key"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantCode   string
		wantLookup bool
	}{
		{"bearer header", "/whoami", "Bearer good", http.StatusOK, "", true},
		{"lowercase scheme", "/whoami", "bearer good", http.StatusOK, "", true},
		{"query fallback", "/whoami?token=good", "", http.StatusOK, "", true},
		{"missing token", "/whoami", "", http.StatusBadRequest, apperrors.CodeMissingToken, false},
		{"empty query token", "/whoami?token=", "", http.StatusBadRequest, apperrors.CodeMissingToken, false},
		{"bearer without value", "/whoami", "Bearer ", http.StatusBadRequest, apperrors.CodeMissingToken, false},
		{"basic scheme", "/whoami", "Basic Zm9vOmJhcg==", http.StatusBadRequest, apperrors.CodeMissingToken, false},
		{"bare token", "/whoami", "good", http.StatusBadRequest, apperrors.CodeMissingToken, false},
		{"header wins over query", "/whoami?token=good", "Token good", http.StatusBadRequest, apperrors.CodeMissingToken, false},
		{"unknown token", "/whoami", "Bearer bad", http.StatusUnauthorized, apperrors.CodeInvalidToken, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &stubValidator{tokens: map[string]string{"good": "client-1"}}
			app := newTestApp(validator)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLookup, validator.calls > 0)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, resp))
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "client-1", body["clientId"])
			assert.Equal(t, "client-1", body["ctx"])
		})
	}
}

func TestEnsureClientMatch(t *testing.T) {
	app := newTestApp(&stubValidator{tokens: map[string]string{"good": "client-1"}})

	req := httptest.NewRequest(http.MethodPost, "/write?clientId=client-1", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/write?clientId=client-2", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apperrors.CodeClientMismatch, errorCode(t, resp))
}

func TestRequireAdminKey(t *testing.T) {
	app := newTestApp(&stubValidator{})

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "admin-key")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
