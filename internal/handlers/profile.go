package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/auth"
	"github.com/example/almajid/internal/middleware"
)

// ProfileHandler exposes the signed-in account's profile.
type ProfileHandler struct {
	auth *auth.Service
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(svc *auth.Service) *ProfileHandler {
	return &ProfileHandler{auth: svc}
}

// UpdateProfile modifies full name, phone and metadata.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return &apperrors.ErrUnauthorized{}
	}

	var req auth.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updated, err := h.auth.UpdateProfile(c.UserContext(), session, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": updated.User})
}
