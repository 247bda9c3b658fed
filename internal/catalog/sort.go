package catalog

import (
	"sort"
	"strings"

	"github.com/example/almajid/internal/models"
)

// Compare orders two products under mode, returning a negative number when a
// sorts first. Equal primary keys fall back to ascending id, so the order is
// total. Products without a rating sort after rated ones under SortRatingDesc.
func Compare(mode SortMode, a, b *models.Product) int {
	var c int
	switch mode {
	case SortPriceAsc:
		c = a.Price.Cmp(b.Price)
	case SortPriceDesc:
		c = b.Price.Cmp(a.Price)
	case SortNameAsc:
		c = strings.Compare(a.Name, b.Name)
	case SortRatingDesc:
		c = compareRatingDesc(a.AverageRating, b.AverageRating)
	default:
		c = b.CreatedAt.Compare(a.CreatedAt)
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func compareRatingDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}

// Sort orders products in place under mode.
func Sort(products []models.Product, mode SortMode) {
	sort.SliceStable(products, func(i, j int) bool {
		return Compare(mode, &products[i], &products[j]) < 0
	})
}
