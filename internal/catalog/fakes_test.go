package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
)

var (
	mens   = models.Category{BaseModel: models.BaseModel{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a")}, Name: "Men's Clothing", Slug: "mens-clothing"}
	womens = models.Category{BaseModel: models.BaseModel{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b")}, Name: "Women's Clothing", Slug: "womens-clothing"}
)

type fakeCategories struct {
	bySlug map[string]models.Category
	err    error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{bySlug: map[string]models.Category{mens.Slug: mens, womens.Slug: womens}}
}

func (f *fakeCategories) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.bySlug[slug]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "category", ID: slug}
	}
	return &c, nil
}

// fakeFinder evaluates a Query in memory the way the store would.
type fakeFinder struct {
	mu       sync.Mutex
	products []models.Product
	queries  []Query
	err      error
}

func (f *fakeFinder) FindProducts(_ context.Context, q Query) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	var out []models.Product
	for _, p := range f.products {
		if q.OnlyAvailable && !p.IsAvailable {
			continue
		}
		if q.CategoryID != nil && p.CategoryID != *q.CategoryID {
			continue
		}
		if q.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.NameContains)) {
			continue
		}
		if q.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if c, ok := categoryOf(p.CategoryID); ok {
			p.Category = &c
		}
		out = append(out, p)
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []models.Product{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeFinder) lastQuery() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func categoryOf(id uuid.UUID) (models.Category, bool) {
	switch id {
	case mens.ID:
		return mens, true
	case womens.ID:
		return womens, true
	}
	return models.Category{}, false
}

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type productOpt func(*models.Product)

func newProduct(n int, name string, price int64, opts ...productOpt) models.Product {
	p := models.Product{
		BaseModel: models.BaseModel{
			ID:        uuid.MustParse(fmt.Sprintf("10000000-0000-0000-0000-%012d", n)),
			CreatedAt: baseTime.Add(time.Duration(n) * time.Hour),
		},
		Name:        name,
		CategoryID:  mens.ID,
		Price:       decimal.NewFromInt(price),
		Stock:       20,
		IsAvailable: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func withSizes(sizes ...string) productOpt {
	return func(p *models.Product) { p.Sizes = sizes }
}

func withMaterial(m string) productOpt {
	return func(p *models.Product) { p.Material = &m }
}

func withPattern(s string) productOpt {
	return func(p *models.Product) { p.Pattern = &s }
}

func withRating(r float64) productOpt {
	return func(p *models.Product) { p.AverageRating = &r }
}

func withCategory(c models.Category) productOpt {
	return func(p *models.Product) { p.CategoryID = c.ID }
}

func unavailable() productOpt {
	return func(p *models.Product) { p.IsAvailable = false }
}

func featured() productOpt {
	return func(p *models.Product) { p.IsFeatured = true }
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
