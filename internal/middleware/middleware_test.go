package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/auth"
	"github.com/example/almajid/internal/models"
)

type stubAuth map[string]*auth.Session

func (s stubAuth) Authenticate(_ context.Context, token string) (*auth.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return nil, &apperrors.ErrUnauthorized{Message: "invalid token"}
}

var sessions = stubAuth{
	"user-token":  {User: models.User{Email: "sari@example.com"}},
	"admin-token": {User: models.User{Email: "admin@almajidbatik.com"}, IsAdmin: true},
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperrors.HTTPStatus(err)).SendString(err.Error())
		},
	})
}

func do(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header.Get(auth.GuestHeader)
}

func TestRequireAuthAndAdmin(t *testing.T) {
	app := newApp()
	app.Get("/me", RequireAuth(sessions), func(c *fiber.Ctx) error {
		s, _ := CurrentSession(c)
		return c.SendString(s.Identifier())
	})
	app.Get("/admin", RequireAuth(sessions), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	status, _, _ := do(t, app, "/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = do(t, app, "/me", map[string]string{"Authorization": "Token x"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = do(t, app, "/me", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body, _ := do(t, app, "/me", map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "sari@example.com", body)

	status, _, _ = do(t, app, "/admin", map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _, _ = do(t, app, "/admin", map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestIdentity(t *testing.T) {
	app := newApp()
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/who", OptionalAuth(sessions), Identity(), func(c *fiber.Ctx) error {
		return c.SendString(UserIdentifier(c))
	})

	status, body, header := do(t, app, "/who", map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "sari@example.com", body)
	assert.Empty(t, header)

	guest := "guest_1714550400000_abc123xyz"
	_, body, header = do(t, app, "/who", map[string]string{auth.GuestHeader: guest})
	assert.Equal(t, guest, body)
	assert.Equal(t, guest, header)

	_, body, header = do(t, app, "/who", map[string]string{auth.GuestHeader: "'; drop table"})
	assert.True(t, auth.ValidGuestID(body), body)
	assert.Equal(t, body, header)

	_, body, _ = do(t, app, "/who", nil)
	assert.True(t, auth.ValidGuestID(body), body)
}
