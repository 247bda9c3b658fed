package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/almajid/internal/models"
)

func queryFixture() []models.Product {
	return []models.Product{
		newProduct(1, "Kemeja Parang", 150000),
		newProduct(2, "Kemeja Kawung", 250000, featured()),
		newProduct(3, "Blus Sogan", 500000, withCategory(womens)),
		newProduct(4, "Gamis Batik", 900000, withCategory(womens), featured()),
		newProduct(5, "Kemeja Arsip", 300000, unavailable()),
	}
}

func TestPageNormalized(t *testing.T) {
	assert.Equal(t, Page{}, Page{}.normalized())
	assert.Equal(t, Page{Limit: 12, Offset: 24}, Page{Offset: 24}.normalized())
	assert.Equal(t, Page{Limit: 5}, Page{Limit: 5, Offset: -3}.normalized())
	assert.Equal(t, Page{}, Page{Limit: -1}.normalized())
}

func TestRemoteOrderEndsWithID(t *testing.T) {
	for _, mode := range []SortMode{SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc} {
		terms := RemoteOrder(mode)
		require.NotEmpty(t, terms)
		assert.Equal(t, OrderTerm{Column: "id"}, terms[len(terms)-1])
	}
	assert.True(t, RemoteOrder(SortRatingDesc)[0].NullsLast)
	assert.Equal(t, RemoteOrder(SortNewest), RemoteOrder("bogus"))
}

func TestBuildPushesDownPredicates(t *testing.T) {
	b := NewQueryBuilder(newFakeCategories(), &fakeFinder{}, nil)
	max := decimal.NewFromInt(500000)
	c := NewCriteria().
		WithCategory("womens-clothing").
		WithSearch("batik").
		WithFeaturedOnly(true).
		WithPriceRange(decimal.NewFromInt(200000), &max).
		WithSort(SortPriceAsc)

	q, err := b.Build(context.Background(), c, Page{Limit: 12})
	require.NoError(t, err)

	assert.True(t, q.OnlyAvailable)
	require.NotNil(t, q.CategoryID)
	assert.Equal(t, womens.ID, *q.CategoryID)
	assert.Equal(t, "batik", q.NameContains)
	assert.True(t, q.FeaturedOnly)
	require.NotNil(t, q.MinPrice)
	assert.True(t, q.MinPrice.Equal(decimal.NewFromInt(200000)))
	require.NotNil(t, q.MaxPrice)
	assert.True(t, q.MaxPrice.Equal(max))
	assert.Equal(t, "price", q.Order[0].Column)
	assert.Equal(t, 12, q.Limit)
}

func TestBuildOmitsOpenBounds(t *testing.T) {
	b := NewQueryBuilder(newFakeCategories(), &fakeFinder{}, nil)

	q, err := b.Build(context.Background(), NewCriteria().WithPriceRange(decimal.Zero, nil), Page{})
	require.NoError(t, err)

	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Nil(t, q.CategoryID)
}

func TestFetchUnknownCategoryListsEverything(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	finder := &fakeFinder{products: queryFixture()}
	b := NewQueryBuilder(newFakeCategories(), finder, zap.New(core))
	var missed []string
	b.OnCategoryMiss(func(slug string) { missed = append(missed, slug) })

	res := b.Fetch(context.Background(), NewCriteria().WithCategory("kids"), Page{})

	require.NoError(t, res.Err)
	assert.Len(t, res.Products, 4)
	assert.Nil(t, finder.lastQuery().CategoryID)
	assert.Equal(t, []string{"kids"}, missed)
	assert.Equal(t, 1, logs.FilterField(zap.String("slug", "kids")).Len())
}

func TestFetchPriceRangeIsInclusive(t *testing.T) {
	finder := &fakeFinder{products: []models.Product{
		newProduct(1, "A", 150000),
		newProduct(2, "B", 250000),
		newProduct(3, "C", 500000),
		newProduct(4, "D", 900000),
	}}
	b := NewQueryBuilder(newFakeCategories(), finder, nil)
	preset := PriceRanges[2]

	res := b.Fetch(context.Background(), NewCriteria().WithPriceRange(preset.Min, preset.Max), Page{})

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"B", "C"}, names(res.Products))
}

func TestFetchExcludesUnavailable(t *testing.T) {
	b := NewQueryBuilder(newFakeCategories(), &fakeFinder{products: queryFixture()}, nil)

	res := b.Fetch(context.Background(), NewCriteria().WithSearch("kemeja"), Page{})

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"Kemeja Parang", "Kemeja Kawung"}, names(res.Products))
	for _, p := range res.Products {
		assert.True(t, p.IsAvailable)
		require.NotNil(t, p.Category)
	}
}

func TestFetchFailureYieldsEmptyResult(t *testing.T) {
	boom := errors.New("connection refused")
	finder := &fakeFinder{err: boom}
	b := NewQueryBuilder(newFakeCategories(), finder, nil)

	res := b.Fetch(context.Background(), NewCriteria(), Page{})

	assert.ErrorIs(t, res.Err, boom)
	assert.NotNil(t, res.Products)
	assert.Empty(t, res.Products)
	assert.Len(t, finder.queries, 1, "no retry")
}

func TestFetchSurfacesCategoryLookupFailure(t *testing.T) {
	boom := errors.New("timeout")
	categories := newFakeCategories()
	categories.err = boom
	finder := &fakeFinder{}
	b := NewQueryBuilder(categories, finder, nil)

	res := b.Fetch(context.Background(), NewCriteria().WithCategory("mens-clothing"), Page{})

	assert.ErrorIs(t, res.Err, boom)
	assert.Empty(t, finder.queries)
}
