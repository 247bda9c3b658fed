package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/auth"
)

const sessionContextKey = "currentSession"

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", &apperrors.ErrUnauthorized{Message: "invalid authorization header"}
	}
	return strings.TrimSpace(parts[1]), nil
}

// OptionalAuth loads the session when a bearer token is present. Requests
// without one continue anonymously; a bad token is rejected.
func OptionalAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if token == "" {
			return c.Next()
		}

		session, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(sessionContextKey, session)
		return c.Next()
	}
}

// RequireAuth rejects requests without a valid session.
func RequireAuth(a Authenticator) fiber.Handler {
	optional := OptionalAuth(a)
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentSession(c); ok {
			return c.Next()
		}
		if _, err := bearerToken(c); err != nil {
			return err
		}
		if c.Get(fiber.HeaderAuthorization) == "" {
			return &apperrors.ErrUnauthorized{Message: "missing authorization header"}
		}
		return optional(c)
	}
}

// RequireAdmin rejects sessions without admin rights. It must run after
// RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := CurrentSession(c)
		if !ok {
			return &apperrors.ErrUnauthorized{}
		}
		if !session.IsAdmin {
			return &apperrors.ErrForbidden{Message: "admin access required"}
		}
		return c.Next()
	}
}

// CurrentSession extracts the authenticated session from context.
func CurrentSession(c *fiber.Ctx) (*auth.Session, bool) {
	session, ok := c.Locals(sessionContextKey).(*auth.Session)
	return session, ok && session != nil
}
