package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
)

// skuAttempts bounds how many generated SKUs are tried on duplicate keys.
const skuAttempts = 3

// ProductInput is the admin product form. Nil fields are left unchanged on
// update; an empty Material or Pattern clears it.
type ProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	SKU         *string          `json:"sku"`
	ImageURL    *string          `json:"image_url"`
	ImageURLs   *[]string        `json:"image_urls"`
	Sizes       *[]string        `json:"sizes"`
	Colors      *[]string        `json:"colors"`
	Material    *string          `json:"material"`
	Pattern     *string          `json:"pattern"`
	IsFeatured  *bool            `json:"is_featured"`
	IsAvailable *bool            `json:"is_available"`
}

// ProductService implements the admin product flows.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	log        *zap.Logger
	now        func() time.Time
	onRetry    func()
}

// NewProductService constructs a ProductService.
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{products: products, categories: categories, log: log, now: time.Now}
}

// OnSKURetry registers a hook called each time a generated SKU collides.
func (s *ProductService) OnSKURetry(fn func()) {
	s.onRetry = fn
}

// Get returns a product by id, including unavailable ones.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.GetByID(ctx, id, true)
}

// List returns a page of the admin product table.
func (s *ProductService) List(ctx context.Context, filter repository.AdminProductFilter) ([]models.Product, int64, error) {
	return s.products.ListAdmin(ctx, filter)
}

// Stats returns the dashboard figures.
func (s *ProductService) Stats(ctx context.Context) (repository.ProductStats, error) {
	return s.products.Stats(ctx, catalog.LowStockThreshold)
}

// PreviewSKU suggests a SKU for the product form.
func (s *ProductService) PreviewSKU(categorySlug, name string) string {
	return catalog.GenerateSKU(categorySlug, name, s.now())
}

// Create validates in and inserts a product. A blank SKU is generated from
// the category slug and name; generated SKUs are retried on collision,
// admin-supplied ones are not.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	fields := map[string]string{}
	requireText(fields, "name", in.Name)
	requireText(fields, "description", in.Description)
	if in.CategoryID == nil || *in.CategoryID == uuid.Nil {
		fields["category_id"] = "category is required"
	}
	if in.Price == nil {
		fields["price"] = "price is required"
	}
	if in.Stock == nil {
		fields["stock"] = "stock is required"
	}
	validateInput(fields, in)
	if len(fields) > 0 {
		return nil, &apperrors.ErrValidation{Message: "invalid product", Fields: fields}
	}

	category, err := s.resolveCategory(ctx, *in.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{IsAvailable: true}
	apply(product, in)
	product.CategoryID = category.ID

	if in.SKU != nil && strings.TrimSpace(*in.SKU) != "" {
		if err := s.products.Create(ctx, product); err != nil {
			return nil, skuConflict(err)
		}
	} else if err := s.createWithGeneratedSKU(ctx, product, category.Slug); err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.String("id", product.ID.String()), zap.String("sku", product.SKU))
	product.Category = category
	return product, nil
}

func (s *ProductService) createWithGeneratedSKU(ctx context.Context, product *models.Product, categorySlug string) error {
	var err error
	for attempt := 0; attempt < skuAttempts; attempt++ {
		product.ID = uuid.Nil
		product.SKU = catalog.GenerateSKU(categorySlug, product.Name, s.now().Add(time.Duration(attempt)*time.Millisecond))
		err = s.products.Create(ctx, product)
		if !apperrors.IsConflict(err) {
			return err
		}
		s.log.Warn("generated sku collided", zap.String("sku", product.SKU), zap.Int("attempt", attempt+1))
		if s.onRetry != nil {
			s.onRetry()
		}
	}
	return &apperrors.ErrConflict{Message: "could not generate a unique sku, please enter one"}
}

// Update applies the non-nil fields of in to product id.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	fields := map[string]string{}
	if in.Name != nil {
		requireText(fields, "name", in.Name)
	}
	if in.Description != nil {
		requireText(fields, "description", in.Description)
	}
	if in.SKU != nil && strings.TrimSpace(*in.SKU) == "" {
		fields["sku"] = "sku is required"
	}
	validateInput(fields, in)
	if len(fields) > 0 {
		return nil, &apperrors.ErrValidation{Message: "invalid product", Fields: fields}
	}

	if in.CategoryID != nil {
		if _, err := s.resolveCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := s.products.Update(ctx, id, updateFields(in))
	if err != nil {
		return nil, skuConflict(err)
	}
	s.log.Info("product updated", zap.String("id", id.String()))
	return product, nil
}

// Delete removes a product immediately; its favorites and reviews go with it.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("id", id.String()))
	return nil
}

func (s *ProductService) resolveCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.Validation("category_id", "category not found")
	}
	return category, err
}

func skuConflict(err error) error {
	if apperrors.IsConflict(err) {
		return &apperrors.ErrConflict{Message: "sku already in use"}
	}
	return err
}

func requireText(fields map[string]string, name string, v *string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		fields[name] = name + " is required"
	}
}

func validateInput(fields map[string]string, in ProductInput) {
	if in.Name != nil && utf8.RuneCountInString(*in.Name) > 200 {
		fields["name"] = "name must be at most 200 characters"
	}
	if in.Price != nil && in.Price.IsNegative() {
		fields["price"] = "price must be >= 0"
	}
	if in.Stock != nil && *in.Stock < 0 {
		fields["stock"] = "stock must be >= 0"
	}
	if in.SKU != nil {
		if sku := strings.TrimSpace(*in.SKU); sku != "" && !catalog.ValidSKU(sku) {
			fields["sku"] = "sku must not contain spaces and be at most 64 characters"
		}
	}
	if in.Sizes != nil {
		for _, size := range *in.Sizes {
			if !models.IsSize(size) {
				fields["sizes"] = "unknown size " + size
				break
			}
		}
	}
	if in.Colors != nil {
		for _, color := range *in.Colors {
			if !models.IsColor(color) {
				fields["colors"] = "unknown color " + color
				break
			}
		}
	}
	if in.Material != nil && *in.Material != "" && !models.IsMaterial(*in.Material) {
		fields["material"] = "unknown material " + *in.Material
	}
	if in.Pattern != nil && *in.Pattern != "" && !models.IsPattern(*in.Pattern) {
		fields["pattern"] = "unknown pattern " + *in.Pattern
	}
}

func optional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}

func apply(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.ImageURLs != nil {
		p.ImageURLs = pq.StringArray(*in.ImageURLs)
	}
	if in.Sizes != nil {
		p.Sizes = pq.StringArray(models.CanonicalSizes(*in.Sizes))
	}
	if in.Colors != nil {
		p.Colors = pq.StringArray(*in.Colors)
	}
	if in.Material != nil {
		p.Material = optional(in.Material)
	}
	if in.Pattern != nil {
		p.Pattern = optional(in.Pattern)
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
}

// updateFields renders the non-nil fields of in as a column map.
func updateFields(in ProductInput) map[string]interface{} {
	var p models.Product
	apply(&p, in)

	fields := map[string]interface{}{}
	set := func(present bool, column string, value interface{}) {
		if present {
			fields[column] = value
		}
	}
	set(in.Name != nil, "name", p.Name)
	set(in.Description != nil, "description", p.Description)
	set(in.CategoryID != nil, "category_id", derefUUID(in.CategoryID))
	set(in.Price != nil, "price", p.Price)
	set(in.Stock != nil, "stock", p.Stock)
	set(in.SKU != nil, "sku", p.SKU)
	set(in.ImageURL != nil, "image_url", p.ImageURL)
	set(in.ImageURLs != nil, "image_urls", p.ImageURLs)
	set(in.Sizes != nil, "sizes", p.Sizes)
	set(in.Colors != nil, "colors", p.Colors)
	set(in.Material != nil, "material", p.Material)
	set(in.Pattern != nil, "pattern", p.Pattern)
	set(in.IsFeatured != nil, "is_featured", p.IsFeatured)
	set(in.IsAvailable != nil, "is_available", p.IsAvailable)
	return fields
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
