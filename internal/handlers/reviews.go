package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/almajid/internal/middleware"
	"github.com/example/almajid/internal/services"
)

// ReviewHandler serves product reviews.
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List returns a product's reviews, newest first.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.List(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": reviews, "count": len(reviews)})
}

// Summary returns the product's rating average and distribution.
func (h *ReviewHandler) Summary(c *fiber.Ctx) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.reviews.Summary(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// Create records a review by the caller.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req services.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.UserContext(), productID, middleware.UserIdentifier(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

// Update edits the caller's own review.
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req services.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Update(c.UserContext(), id, middleware.UserIdentifier(c), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": review})
}

// Delete removes a review owned by the caller, or any review for an admin.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	session, _ := middleware.CurrentSession(c)
	isAdmin := session != nil && session.IsAdmin
	if err := h.reviews.Delete(c.UserContext(), id, middleware.UserIdentifier(c), isAdmin); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
