package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
)

type productRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB, logger *zap.Logger) *productRepository {
	return &productRepository{db: db, logger: logger}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// orderClause renders one ordering directive. Columns come from the fixed
// catalog ordering table, never from request input.
func orderClause(t catalog.OrderTerm) string {
	var b strings.Builder
	b.WriteString(t.Column)
	if t.Desc {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	if t.NullsLast {
		b.WriteString(" NULLS LAST")
	}
	return b.String()
}

// catalogScope applies every push-down predicate of q.
func catalogScope(q catalog.Query) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.OnlyAvailable {
			tx = tx.Where("is_available = ?", true)
		}
		if q.CategoryID != nil {
			tx = tx.Where("category_id = ?", *q.CategoryID)
		}
		if q.NameContains != "" {
			tx = tx.Where("name ILIKE ?", containsPattern(q.NameContains))
		}
		if q.FeaturedOnly {
			tx = tx.Where("is_featured = ?", true)
		}
		if q.MinPrice != nil {
			tx = tx.Where("price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			tx = tx.Where("price <= ?", *q.MaxPrice)
		}
		for _, term := range q.Order {
			tx = tx.Order(orderClause(term))
		}
		if q.Limit > 0 {
			tx = tx.Limit(q.Limit)
		}
		if q.Offset > 0 {
			tx = tx.Offset(q.Offset)
		}
		return tx
	}
}

func (r *productRepository) FindProducts(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(catalogScope(q)).
		Preload("Category").
		Find(&products).Error
	if err != nil {
		r.logger.Error("product query failed", zap.Error(err))
		return nil, translate(err, "product", "")
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID, includeUnavailable bool) (*models.Product, error) {
	tx := r.db.WithContext(ctx).Preload("Category")
	if !includeUnavailable {
		tx = tx.Where("is_available = ?", true)
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product", id.String())
	}
	return &product, nil
}

// adminScope applies the admin table filters.
func adminScope(f repository.AdminProductFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(f.Search); s != "" {
			p := containsPattern(s)
			tx = tx.Where("(name ILIKE ? OR sku ILIKE ?)", p, p)
		}
		if f.CategoryID != nil {
			tx = tx.Where("category_id = ?", *f.CategoryID)
		}
		switch f.Status {
		case repository.StatusAvailable:
			tx = tx.Where("is_available = ?", true)
		case repository.StatusUnavailable:
			tx = tx.Where("is_available = ?", false)
		case repository.StatusFeatured:
			tx = tx.Where("is_featured = ?", true)
		case repository.StatusOutOfStock:
			tx = tx.Where("stock <= 0")
		}
		return tx
	}
}

func (r *productRepository) ListAdmin(ctx context.Context, f repository.AdminProductFilter) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(adminScope(f))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "product", "")
	}

	var products []models.Product
	tx := base.Session(&gorm.Session{}).Preload("Category").Order("created_at DESC").Order("id ASC")
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit).Offset(f.Offset)
	}
	if err := tx.Find(&products).Error; err != nil {
		return nil, 0, translate(err, "product", "")
	}
	return products, total, nil
}

func (r *productRepository) CountAvailable(ctx context.Context, categoryID *uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_available = ?", true)
	if categoryID != nil {
		tx = tx.Where("category_id = ?", *categoryID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, translate(err, "product", "")
	}
	return total, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return translate(err, "product", product.SKU)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error, "product", id.String())
		}
		if res.RowsAffected == 0 {
			return nil, translate(gorm.ErrRecordNotFound, "product", id.String())
		}
	}
	return r.GetByID(ctx, id, true)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "product", id.String())
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product", id.String())
	}
	return nil
}

const statsQuery = `
	SELECT
		COUNT(*) AS total_products,
		COALESCE(SUM(stock), 0) AS total_stock,
		COALESCE(SUM(price * stock), 0) AS inventory_value,
		COUNT(*) FILTER (WHERE is_featured) AS featured,
		COUNT(*) FILTER (WHERE stock <= 0) AS out_of_stock,
		COUNT(*) FILTER (WHERE stock > 0 AND stock <= ?) AS low_stock
	FROM products
`

func (r *productRepository) Stats(ctx context.Context, lowStockThreshold int) (repository.ProductStats, error) {
	var stats repository.ProductStats
	if err := r.db.WithContext(ctx).Raw(statsQuery, lowStockThreshold).Scan(&stats).Error; err != nil {
		return repository.ProductStats{}, translate(err, "product", "")
	}
	return stats, nil
}
