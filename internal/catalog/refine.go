package catalog

import "github.com/example/almajid/internal/models"

// Refine applies the size, material and pattern predicates to an already
// fetched list. Each family is skipped when its selection is empty; active
// families are ANDed. The input slice is not modified.
func Refine(products []models.Product, c Criteria) []models.Product {
	if !c.HasLocalFilters() {
		return products
	}

	sizes := setOf(c.Sizes)
	materials := setOf(c.Materials)
	patterns := setOf(c.Patterns)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if len(sizes) > 0 && !intersects(p.Sizes, sizes) {
			continue
		}
		if len(materials) > 0 && !memberOf(p.Material, materials) {
			continue
		}
		if len(patterns) > 0 && !memberOf(p.Pattern, patterns) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func setOf(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func intersects(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func memberOf(value *string, set map[string]struct{}) bool {
	if value == nil {
		return false
	}
	_, ok := set[*value]
	return ok
}
