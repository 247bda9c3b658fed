package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/catalog"
)

// listQuery is a parsed product listing request.
type listQuery struct {
	Criteria catalog.Criteria
	Page     catalog.Page
	Seq      string
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDecimal(fields map[string]string, name, raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fields[name] = name + " must be a number"
		return nil
	}
	return &d
}

func parseNonNegative(fields map[string]string, name, raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fields[name] = name + " must be a non-negative integer"
		return 0
	}
	return n
}

// parseListQuery builds criteria from query parameters: category, search,
// sort, price_range (index into the presets) or min_price/max_price,
// comma-separated sizes/materials/patterns, featured, limit, offset and seq.
// Unknown vocabulary values are ignored.
func parseListQuery(c *fiber.Ctx) (listQuery, error) {
	fields := map[string]string{}
	crit := catalog.NewCriteria().
		WithCategory(fiberutils.CopyString(c.Query("category"))).
		WithSearch(fiberutils.CopyString(c.Query("search"))).
		WithSort(catalog.SortMode(c.Query("sort"))).
		WithFeaturedOnly(c.QueryBool("featured", false))

	if raw := c.Query("price_range"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(catalog.PriceRanges) {
			fields["price_range"] = "unknown price range"
		} else if idx > 0 {
			r := catalog.PriceRanges[idx].Range()
			crit = crit.WithPriceRange(r.Min, r.Max)
		}
	} else {
		min := parseDecimal(fields, "min_price", c.Query("min_price"))
		max := parseDecimal(fields, "max_price", c.Query("max_price"))
		if min != nil || max != nil {
			lo := decimal.Zero
			if min != nil {
				lo = *min
			}
			crit = crit.WithPriceRange(lo, max)
		}
	}

	for _, s := range splitList(c.Query("sizes")) {
		if !contains(crit.Sizes, s) {
			crit = crit.ToggleSize(s)
		}
	}
	for _, m := range splitList(c.Query("materials")) {
		if !contains(crit.Materials, m) {
			crit = crit.ToggleMaterial(m)
		}
	}
	for _, p := range splitList(c.Query("patterns")) {
		if !contains(crit.Patterns, p) {
			crit = crit.TogglePattern(p)
		}
	}

	page := catalog.Page{
		Limit:  parseNonNegative(fields, "limit", c.Query("limit")),
		Offset: parseNonNegative(fields, "offset", c.Query("offset")),
	}
	if page.Limit > 100 {
		page.Limit = 100
	}

	if len(fields) > 0 {
		return listQuery{}, &apperrors.ErrValidation{Message: "invalid filter", Fields: fields}
	}
	return listQuery{Criteria: crit, Page: page, Seq: c.Query("seq")}, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
