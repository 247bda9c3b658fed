package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/models"
)

// SortMode selects the ordering of a listing.
type SortMode string

const (
	SortNewest     SortMode = "newest"
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
	SortNameAsc    SortMode = "name_asc"
	SortRatingDesc SortMode = "rating_desc"
)

// ParseSortMode maps an input string to a SortMode; anything unknown is SortNewest.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortRatingDesc:
		return m
	default:
		return SortNewest
	}
}

// PriceRange is an inclusive price window. A nil Max is unbounded.
type PriceRange struct {
	Min decimal.Decimal
	Max *decimal.Decimal
}

// Contains reports whether price lies inside the range, bounds included.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || !price.GreaterThan(*r.Max)
}

// Criteria is the filter and sort selection of one listing view. Values are
// immutable: every mutator returns a fresh copy and leaves the receiver alone.
type Criteria struct {
	CategorySlug string
	Search       string
	Sort         SortMode
	FeaturedOnly bool
	Price        *PriceRange
	Sizes        []string
	Materials    []string
	Patterns     []string
}

// NewCriteria returns the default selection: newest first, no constraints.
func NewCriteria() Criteria {
	return Criteria{Sort: SortNewest}
}

// WithCategory scopes the listing to a category slug; an empty slug clears it.
func (c Criteria) WithCategory(slug string) Criteria {
	out := c.clone()
	out.CategorySlug = strings.ToLower(strings.TrimSpace(slug))
	return out
}

// WithSearch sets the free-text name search. Whitespace-only text clears it.
func (c Criteria) WithSearch(text string) Criteria {
	out := c.clone()
	out.Search = strings.TrimSpace(text)
	return out
}

// WithSort sets the ordering.
func (c Criteria) WithSort(mode SortMode) Criteria {
	out := c.clone()
	out.Sort = ParseSortMode(string(mode))
	return out
}

// WithFeaturedOnly restricts the listing to featured products.
func (c Criteria) WithFeaturedOnly(featured bool) Criteria {
	out := c.clone()
	out.FeaturedOnly = featured
	return out
}

// WithPriceRange sets the price window. min is clamped to >= 0 and a max below
// min is raised to min.
func (c Criteria) WithPriceRange(min decimal.Decimal, max *decimal.Decimal) Criteria {
	out := c.clone()
	if min.IsNegative() {
		min = decimal.Zero
	}
	r := &PriceRange{Min: min}
	if max != nil {
		m := *max
		if m.LessThan(min) {
			m = min
		}
		r.Max = &m
	}
	out.Price = r
	return out
}

// WithoutPriceRange removes the price window.
func (c Criteria) WithoutPriceRange() Criteria {
	out := c.clone()
	out.Price = nil
	return out
}

// ToggleSize adds or removes a size. Tokens outside the vocabulary are ignored.
func (c Criteria) ToggleSize(size string) Criteria {
	if !models.IsSize(size) {
		return c.clone()
	}
	out := c.clone()
	out.Sizes = toggle(out.Sizes, size)
	return out
}

// ToggleMaterial adds or removes a material. Unknown materials are ignored.
func (c Criteria) ToggleMaterial(material string) Criteria {
	if !models.IsMaterial(material) {
		return c.clone()
	}
	out := c.clone()
	out.Materials = toggle(out.Materials, material)
	return out
}

// TogglePattern adds or removes a pattern. Unknown patterns are ignored.
func (c Criteria) TogglePattern(pattern string) Criteria {
	if !models.IsPattern(pattern) {
		return c.clone()
	}
	out := c.clone()
	out.Patterns = toggle(out.Patterns, pattern)
	return out
}

// Clear resets every field to its default.
func (c Criteria) Clear() Criteria {
	return NewCriteria()
}

// HasLocalFilters reports whether any size, material or pattern constraint is active.
func (c Criteria) HasLocalFilters() bool {
	return len(c.Sizes) > 0 || len(c.Materials) > 0 || len(c.Patterns) > 0
}

// ActiveFilterCount counts the constraints a filter panel would badge.
func (c Criteria) ActiveFilterCount() int {
	n := len(c.Sizes) + len(c.Materials) + len(c.Patterns)
	if c.Price != nil {
		n++
	}
	return n
}

func (c Criteria) clone() Criteria {
	out := c
	out.Sizes = append([]string(nil), c.Sizes...)
	out.Materials = append([]string(nil), c.Materials...)
	out.Patterns = append([]string(nil), c.Patterns...)
	if c.Price != nil {
		r := *c.Price
		if c.Price.Max != nil {
			m := *c.Price.Max
			r.Max = &m
		}
		out.Price = &r
	}
	if out.Sort == "" {
		out.Sort = SortNewest
	}
	return out
}

// toggle returns a sorted copy of set with value flipped.
func toggle(set []string, value string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
