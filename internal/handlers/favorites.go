package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/almajid/internal/middleware"
	"github.com/example/almajid/internal/services"
)

// FavoriteHandler serves the caller's favorites. The caller is the signed-in
// account or the guest identity resolved by middleware.Identity.
type FavoriteHandler struct {
	favorites *services.FavoriteService
}

// NewFavoriteHandler constructs FavoriteHandler.
func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List returns the caller's favorites, newest first.
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	favorites, err := h.favorites.List(c.UserContext(), middleware.UserIdentifier(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": favorites, "count": len(favorites)})
}

// Check reports whether a product is favorited.
func (h *FavoriteHandler) Check(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	favorited, err := h.favorites.IsFavorite(c.UserContext(), middleware.UserIdentifier(c), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "favorited": favorited})
}

// Add favorites a product.
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	favorite, err := h.favorites.Add(c.UserContext(), middleware.UserIdentifier(c), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "favorited": true, "data": favorite})
}

// Remove unfavorites a product.
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	if err := h.favorites.Remove(c.UserContext(), middleware.UserIdentifier(c), productID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "favorited": false})
}

// Toggle flips the favorite state and returns the new one.
func (h *FavoriteHandler) Toggle(c *fiber.Ctx) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return err
	}
	favorited, err := h.favorites.Toggle(c.UserContext(), middleware.UserIdentifier(c), productID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "favorited": favorited})
}
