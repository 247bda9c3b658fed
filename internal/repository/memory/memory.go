// Package memory implements the repositories in process memory. It
// evaluates queries the way the postgres package does and backs the service
// and handler tests.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/catalog"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository"
)

// Store holds every table. Its methods are safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	categories map[uuid.UUID]models.Category
	products   map[uuid.UUID]models.Product
	favorites  map[uuid.UUID]models.Favorite
	reviews    map[uuid.UUID]models.Review
	users      map[uuid.UUID]models.User
	revoked    map[string]time.Time
	resets     map[string]models.PasswordResetToken
	now        func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		categories: map[uuid.UUID]models.Category{},
		products:   map[uuid.UUID]models.Product{},
		favorites:  map[uuid.UUID]models.Favorite{},
		reviews:    map[uuid.UUID]models.Review{},
		users:      map[uuid.UUID]models.User{},
		revoked:    map[string]time.Time{},
		resets:     map[string]models.PasswordResetToken{},
		now:        time.Now,
	}
}

// Repositories exposes the store through the repository contracts.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Product:  Products{s},
		Category: Categories{s},
		Favorite: Favorites{s},
		Review:   Reviews{s},
		User:     Users{s},
		Token:    Tokens{s},
	}
}

// PutCategory inserts or replaces a category.
func (s *Store) PutCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.categories[c.ID] = c
	return c
}

// PutProduct inserts or replaces a product without uniqueness checks.
func (s *Store) PutProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.Category = nil
	s.products[p.ID] = p
	return p
}

func (s *Store) withCategory(p models.Product) models.Product {
	p.Normalize()
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

// Products implements repository.ProductRepository.
type Products struct{ s *Store }

func (r Products) FindProducts(_ context.Context, q catalog.Query) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Product
	for _, p := range r.s.products {
		switch {
		case q.OnlyAvailable && !p.IsAvailable:
		case q.CategoryID != nil && p.CategoryID != *q.CategoryID:
		case q.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.NameContains)):
		case q.FeaturedOnly && !p.IsFeatured:
		case q.MinPrice != nil && p.Price.LessThan(*q.MinPrice):
		case q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice):
		default:
			out = append(out, r.s.withCategory(p))
		}
	}

	mode := sortModeOf(q.Order)
	catalog.Sort(out, mode)
	return window(out, q.Limit, q.Offset), nil
}

// sortModeOf recovers the sort mode from the ordering directives.
func sortModeOf(order []catalog.OrderTerm) catalog.SortMode {
	for _, mode := range []catalog.SortMode{catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortNameAsc, catalog.SortRatingDesc} {
		want := catalog.RemoteOrder(mode)
		if len(order) > 0 && order[0] == want[0] {
			return mode
		}
	}
	return catalog.SortNewest
}

func window(products []models.Product, limit, offset int) []models.Product {
	if offset >= len(products) {
		return []models.Product{}
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products
}

func (r Products) GetByID(_ context.Context, id uuid.UUID, includeUnavailable bool) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || (!includeUnavailable && !p.IsAvailable) {
		return nil, &apperrors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	p = r.s.withCategory(p)
	return &p, nil
}

func (r Products) ListAdmin(_ context.Context, f repository.AdminProductFilter) ([]models.Product, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Product
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		switch f.Status {
		case repository.StatusAvailable:
			if !p.IsAvailable {
				continue
			}
		case repository.StatusUnavailable:
			if p.IsAvailable {
				continue
			}
		case repository.StatusFeatured:
			if !p.IsFeatured {
				continue
			}
		case repository.StatusOutOfStock:
			if p.Stock > 0 {
				continue
			}
		}
		out = append(out, r.s.withCategory(p))
	}
	catalog.Sort(out, catalog.SortNewest)
	total := int64(len(out))
	return window(out, f.Limit, f.Offset), total, nil
}

func (r Products) CountAvailable(_ context.Context, categoryID *uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		if p.IsAvailable && (categoryID == nil || p.CategoryID == *categoryID) {
			n++
		}
	}
	return n, nil
}

func (r Products) Create(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return &apperrors.ErrConflict{Message: "product already exists"}
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := r.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.Category = nil
	r.s.products[p.ID] = stored
	return nil
}

func (r Products) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	r.s.mu.Lock()
	p, ok := r.s.products[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, &apperrors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if sku, ok := fields["sku"].(string); ok {
		for otherID, other := range r.s.products {
			if otherID != id && other.SKU == sku {
				r.s.mu.Unlock()
				return nil, &apperrors.ErrConflict{Message: "product already exists"}
			}
		}
	}
	for column, value := range fields {
		setColumn(&p, column, value)
	}
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	r.s.mu.Unlock()
	return r.GetByID(ctx, id, true)
}

func setColumn(p *models.Product, column string, value interface{}) {
	switch column {
	case "name":
		p.Name = value.(string)
	case "description":
		p.Description = value.(string)
	case "category_id":
		p.CategoryID = value.(uuid.UUID)
	case "price":
		p.Price = value.(decimal.Decimal)
	case "stock":
		p.Stock = value.(int)
	case "sku":
		p.SKU = value.(string)
	case "image_url":
		p.ImageURL = value.(string)
	case "image_urls":
		p.ImageURLs = value.(pq.StringArray)
	case "sizes":
		p.Sizes = value.(pq.StringArray)
	case "colors":
		p.Colors = value.(pq.StringArray)
	case "material":
		p.Material = value.(*string)
	case "pattern":
		p.Pattern = value.(*string)
	case "is_featured":
		p.IsFeatured = value.(bool)
	case "is_available":
		p.IsAvailable = value.(bool)
	}
}

func (r Products) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return &apperrors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	delete(r.s.products, id)
	for fid, f := range r.s.favorites {
		if f.ProductID == id {
			delete(r.s.favorites, fid)
		}
	}
	for rid, rv := range r.s.reviews {
		if rv.ProductID == id {
			delete(r.s.reviews, rid)
		}
	}
	return nil
}

func (r Products) Stats(_ context.Context, lowStockThreshold int) (repository.ProductStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := repository.ProductStats{InventoryValue: decimal.Zero}
	for _, p := range r.s.products {
		stats.TotalProducts++
		stats.TotalStock += int64(p.Stock)
		stats.InventoryValue = stats.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.IsFeatured {
			stats.Featured++
		}
		if p.Stock <= 0 {
			stats.OutOfStock++
		} else if p.Stock <= lowStockThreshold {
			stats.LowStock++
		}
	}
	return stats, nil
}

// Categories implements repository.CategoryRepository.
type Categories struct{ s *Store }

func (r Categories) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r Categories) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "category", ID: id.String()}
	}
	return &c, nil
}

func (r Categories) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "category", ID: slug}
}

// Favorites implements repository.FavoriteRepository.
type Favorites struct{ s *Store }

func (r Favorites) ListByUser(_ context.Context, userIdentifier string) ([]models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Favorite{}
	for _, f := range r.s.favorites {
		if f.UserIdentifier != userIdentifier {
			continue
		}
		if p, ok := r.s.products[f.ProductID]; ok {
			p = r.s.withCategory(p)
			f.Product = &p
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r Favorites) Find(_ context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.findFavorite(userIdentifier, productID); ok {
		return &f, nil
	}
	return nil, &apperrors.ErrNotFound{Resource: "favorite", ID: productID.String()}
}

func (s *Store) findFavorite(userIdentifier string, productID uuid.UUID) (models.Favorite, bool) {
	for _, f := range s.favorites {
		if f.UserIdentifier == userIdentifier && f.ProductID == productID {
			return f, true
		}
	}
	return models.Favorite{}, false
}

func (r Favorites) Add(_ context.Context, userIdentifier string, productID uuid.UUID) (*models.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.findFavorite(userIdentifier, productID); ok {
		return &f, nil
	}
	now := r.s.now()
	f := models.Favorite{
		BaseModel:      models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserIdentifier: userIdentifier,
		ProductID:      productID,
	}
	r.s.favorites[f.ID] = f
	return &f, nil
}

func (r Favorites) Remove(_ context.Context, userIdentifier string, productID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.findFavorite(userIdentifier, productID)
	if ok {
		delete(r.s.favorites, f.ID)
	}
	return ok, nil
}

// Reviews implements repository.ReviewRepository.
type Reviews struct{ s *Store }

func (r Reviews) ListByProduct(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Review{}
	for _, rv := range r.s.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r Reviews) GetByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	return &rv, nil
}

func (r Reviews) Create(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[review.ProductID]; !ok {
		return &apperrors.ErrConflict{Message: "review references a missing record"}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	now := r.s.now()
	review.CreatedAt, review.UpdatedAt = now, now
	r.s.reviews[review.ID] = *review
	r.s.recompute(review.ProductID)
	return nil
}

func (r Reviews) Update(_ context.Context, id uuid.UUID, rating int, comment string) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	rv.Rating, rv.Comment, rv.UpdatedAt = rating, comment, r.s.now()
	r.s.reviews[id] = rv
	r.s.recompute(rv.ProductID)
	return &rv, nil
}

func (r Reviews) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return &apperrors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	delete(r.s.reviews, id)
	r.s.recompute(rv.ProductID)
	return nil
}

func (r Reviews) Summary(_ context.Context, productID uuid.UUID) (repository.RatingSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[int]int64{}
	for _, rv := range r.s.reviews {
		if rv.ProductID == productID {
			counts[rv.Rating]++
		}
	}
	return repository.BuildRatingSummary(counts), nil
}

// recompute mirrors the postgres rating refresh. Callers hold s.mu.
func (s *Store) recompute(productID uuid.UUID) {
	p, ok := s.products[productID]
	if !ok {
		return
	}
	var sum, n int
	for _, rv := range s.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			n++
		}
	}
	p.ReviewCount = n
	p.AverageRating = nil
	if n > 0 {
		avg := math.Round(float64(sum)/float64(n)*100) / 100
		p.AverageRating = &avg
	}
	s.products[productID] = p
}
