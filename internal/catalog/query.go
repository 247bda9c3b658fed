package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
)

// DefaultPageSize applies when an offset arrives without a limit.
const DefaultPageSize = 12

// Page is an optional limit/offset window. A zero Limit means unlimited.
type Page struct {
	Limit  int
	Offset int
}

// normalized returns the window actually sent to the store.
func (p Page) normalized() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Offset > 0 && p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	return p
}

// OrderTerm is one ordering directive of a remote query.
type OrderTerm struct {
	Column    string
	Desc      bool
	NullsLast bool
}

// Query is the push-down part of a listing: every predicate here is
// evaluated by the data store.
type Query struct {
	OnlyAvailable bool
	CategoryID    *uuid.UUID
	NameContains  string
	FeaturedOnly  bool
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Order         []OrderTerm
	Limit         int
	Offset        int
}

// orderings maps each sort mode to its remote ordering. Every ordering ends
// with the id so equal keys come back in a stable order.
var orderings = map[SortMode][]OrderTerm{
	SortNewest:     {{Column: "created_at", Desc: true}, {Column: "id"}},
	SortPriceAsc:   {{Column: "price"}, {Column: "id"}},
	SortPriceDesc:  {{Column: "price", Desc: true}, {Column: "id"}},
	SortNameAsc:    {{Column: "name"}, {Column: "id"}},
	SortRatingDesc: {{Column: "average_rating", Desc: true, NullsLast: true}, {Column: "id"}},
}

// RemoteOrder returns the ordering directives for mode.
func RemoteOrder(mode SortMode) []OrderTerm {
	terms, ok := orderings[mode]
	if !ok {
		terms = orderings[SortNewest]
	}
	return append([]OrderTerm(nil), terms...)
}

// CategoryLookup resolves a category slug. A missing slug must be reported
// as apperrors.ErrNotFound.
type CategoryLookup interface {
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// ProductFinder executes a Query, embedding each product's category.
type ProductFinder interface {
	FindProducts(ctx context.Context, q Query) ([]models.Product, error)
}

// Result is the outcome of a listing fetch. On failure Products is empty and
// Err carries the cause.
type Result struct {
	Products []models.Product
	Err      error
}

// QueryBuilder turns Criteria into a Query and runs it.
type QueryBuilder struct {
	categories CategoryLookup
	products   ProductFinder
	log        *zap.Logger
	onMiss     func(slug string)
}

// NewQueryBuilder constructs a QueryBuilder.
func NewQueryBuilder(categories CategoryLookup, products ProductFinder, log *zap.Logger) *QueryBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryBuilder{categories: categories, products: products, log: log}
}

// OnCategoryMiss registers a hook called whenever a slug fails to resolve.
func (b *QueryBuilder) OnCategoryMiss(fn func(slug string)) {
	b.onMiss = fn
}

// Build translates the push-down part of c into a Query. An unknown category
// slug is not an error: the category predicate is skipped.
func (b *QueryBuilder) Build(ctx context.Context, c Criteria, page Page) (Query, error) {
	page = page.normalized()
	q := Query{
		OnlyAvailable: true,
		NameContains:  c.Search,
		FeaturedOnly:  c.FeaturedOnly,
		Order:         RemoteOrder(c.Sort),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}

	if c.CategorySlug != "" {
		category, err := b.categories.GetCategoryBySlug(ctx, c.CategorySlug)
		switch {
		case err == nil:
			id := category.ID
			q.CategoryID = &id
		case apperrors.IsNotFound(err):
			b.log.Warn("category slug did not resolve, listing without category filter",
				zap.String("slug", c.CategorySlug))
			if b.onMiss != nil {
				b.onMiss(c.CategorySlug)
			}
		default:
			return Query{}, err
		}
	}

	if c.Price != nil {
		if c.Price.Min.IsPositive() {
			min := c.Price.Min
			q.MinPrice = &min
		}
		if c.Price.Max != nil {
			max := *c.Price.Max
			q.MaxPrice = &max
		}
	}

	return q, nil
}

// Fetch builds and runs the remote query. It never retries; failures come
// back as an empty Result with Err set.
func (b *QueryBuilder) Fetch(ctx context.Context, c Criteria, page Page) Result {
	q, err := b.Build(ctx, c, page)
	if err != nil {
		return Result{Products: []models.Product{}, Err: err}
	}

	products, err := b.products.FindProducts(ctx, q)
	if err != nil {
		b.log.Error("catalog fetch failed", zap.Error(err))
		return Result{Products: []models.Product{}, Err: err}
	}
	if products == nil {
		products = []models.Product{}
	}
	return Result{Products: products}
}
