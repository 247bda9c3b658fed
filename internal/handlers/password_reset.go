package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/auth"
)

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	auth *auth.Service
	log  *zap.Logger
	// exposeToken returns the reset token in the response; enabled outside
	// production where no mailer is configured.
	exposeToken bool
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(svc *auth.Service, log *zap.Logger, exposeToken bool) *PasswordResetHandler {
	return &PasswordResetHandler{auth: svc, log: log, exposeToken: exposeToken}
}

type resetRequest struct {
	Email string `json:"email"`
}

// RequestReset issues a reset token. The answer is the same whether or not
// the address belongs to an account.
func (h *PasswordResetHandler) RequestReset(c *fiber.Ctx) error {
	var req resetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	resp := fiber.Map{"success": true, "message": "if the address is registered, a reset link has been sent"}
	if token != "" {
		h.log.Info("password reset token issued", zap.String("email", auth.NormalizeEmail(req.Email)))
		if h.exposeToken {
			resp["token"] = token
		}
	}
	return c.JSON(resp)
}

type confirmResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmReset sets a new password using a reset token.
func (h *PasswordResetHandler) ConfirmReset(c *fiber.Ctx) error {
	var req confirmResetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
