package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/repository"
	"github.com/example/almajid/internal/services"
	"github.com/example/almajid/internal/storage"
	"github.com/example/almajid/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	products   *services.ProductService
	categories repository.CategoryRepository
	uploader   *storage.Uploader
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(products *services.ProductService, categories repository.CategoryRepository, uploader *storage.Uploader) *AdminHandler {
	return &AdminHandler{products: products, categories: categories, uploader: uploader}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.products.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// PreviewSKU suggests a SKU for the product form.
func (h *AdminHandler) PreviewSKU(c *fiber.Ctx) error {
	category := c.Query("category")
	name := c.Query("name")
	if name == "" {
		return apperrors.Validation("name", "name is required")
	}
	return c.JSON(fiber.Map{"success": true, "sku": h.products.PreviewSKU(category, name)})
}

// ListProducts returns the admin product table with pagination, search,
// category and status filtering.
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, utils.AdminPageSize)
	filter := repository.AdminProductFilter{
		Search: c.Query("search"),
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}

	if status := c.Query("status"); status != "" {
		s := repository.ProductStatus(status)
		switch s {
		case repository.StatusAvailable, repository.StatusUnavailable, repository.StatusFeatured, repository.StatusOutOfStock:
			filter.Status = s
		default:
			return apperrors.Validation("status", "unknown status")
		}
	}

	if category := c.Query("category"); category != "" {
		id, err := h.resolveCategory(c, category)
		if err != nil {
			return err
		}
		filter.CategoryID = &id
	}

	products, total, err := h.products.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
			"total_pages":    pg.TotalPages(total),
		},
	})
}

// resolveCategory accepts either a category id or slug.
func (h *AdminHandler) resolveCategory(c *fiber.Ctx, value string) (uuid.UUID, error) {
	if id, err := uuid.Parse(value); err == nil {
		return id, nil
	}
	category, err := h.categories.GetCategoryBySlug(c.UserContext(), value)
	if err != nil {
		return uuid.Nil, err
	}
	return category.ID, nil
}

// GetProduct returns a product by id, including unavailable ones.
func (h *AdminHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// CreateProduct inserts a product.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.products.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct applies a partial update.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req services.ProductInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product together with its favorites and reviews.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// UploadImage stores a product image sent as multipart field "file".
func (h *AdminHandler) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		// Let the uploader classify the missing file.
		_, err = h.uploader.UploadImage(c.UserContext(), "", 0, strings.NewReader(""))
		return err
	}

	file, err := header.Open()
	if err != nil {
		return &apperrors.ErrValidation{Message: "cannot read uploaded file"}
	}
	defer file.Close()

	obj, err := h.uploader.UploadImage(c.UserContext(), header.Header.Get(fiber.HeaderContentType), header.Size, file)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": obj})
}

// RemoveImage deletes a stored product image.
func (h *AdminHandler) RemoveImage(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return apperrors.Validation("path", "path is required")
	}
	if err := h.uploader.Remove(c.UserContext(), path); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
