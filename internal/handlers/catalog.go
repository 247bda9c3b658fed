package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/repository"
)

// CatalogHandler serves the customer-facing catalog.
type CatalogHandler struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	pipeline   *catalog.Pipeline
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(categories repository.CategoryRepository, products repository.ProductRepository, pipeline *catalog.Pipeline) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products, pipeline: pipeline}
}

// ListCategories returns the category taxonomy.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// GetCategory returns a category by slug.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.categories.GetCategoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": category})
}

// Options returns the filter vocabularies and presets.
func (h *CatalogHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": catalog.FilterOptions()})
}

// ListProducts runs the catalog pipeline. The client's seq is echoed so it
// can drop responses to superseded requests. A failed fetch answers with an
// empty list and the error. count is the size of this page; total is the
// number of available products in the category, or in the whole catalog
// when no known category is selected.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	q, err := parseListQuery(c)
	if err != nil {
		return err
	}

	res := h.pipeline.List(c.UserContext(), q.Criteria, q.Page)
	views := catalog.PresentAll(res.Products)
	body := fiber.Map{
		"success": res.Err == nil,
		"data":    views,
		"count":   len(views),
		"seq":     q.Seq,
		"filters": q.Criteria.ActiveFilterCount(),
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
		return c.Status(apperrors.HTTPStatus(res.Err)).JSON(body)
	}

	total, err := h.availableTotal(c, q.Criteria.CategorySlug)
	if err != nil {
		return err
	}
	body["total"] = total
	return c.JSON(body)
}

func (h *CatalogHandler) availableTotal(c *fiber.Ctx, slug string) (int64, error) {
	var categoryID *uuid.UUID
	if slug != "" {
		category, err := h.categories.GetCategoryBySlug(c.UserContext(), slug)
		switch {
		case err == nil:
			categoryID = &category.ID
		case !apperrors.IsNotFound(err):
			return 0, err
		}
	}
	return h.products.CountAvailable(c.UserContext(), categoryID)
}

// GetProduct returns one available product.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.products.GetByID(c.UserContext(), id, false)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": catalog.Present(*product)})
}
