package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/auth"
	"github.com/example/almajid/internal/middleware"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// SignUp creates a new account and returns its session.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req auth.SignUpInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.SignUp(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": session})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates an existing account.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return &apperrors.ErrValidation{Message: "email and password are required"}
	}

	session, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": session})
}

// SignOut ends the current session.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return &apperrors.ErrUnauthorized{}
	}
	if err := h.auth.SignOut(c.UserContext(), session); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Session returns the current session without its token.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return &apperrors.ErrUnauthorized{}
	}
	out := *session
	out.Token = ""
	return c.JSON(fiber.Map{"success": true, "data": out})
}
