package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/example/almajid/internal/models"
)

// PricePreset is one selectable row of the price filter.
type PricePreset struct {
	Label string           `json:"label"`
	Min   decimal.Decimal  `json:"min"`
	Max   *decimal.Decimal `json:"max"`
}

// Range converts the preset into the inclusive range applied to listings.
func (p PricePreset) Range() PriceRange {
	return PriceRange{Min: p.Min, Max: p.Max}
}

// SortOption labels a SortMode for display.
type SortOption struct {
	Label string   `json:"label"`
	Value SortMode `json:"value"`
}

func rupiah(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

// PriceRanges are the preset price windows offered by the filter panel.
var PriceRanges = []PricePreset{
	{Label: "Semua Harga", Min: decimal.Zero, Max: nil},
	{Label: "Di bawah Rp 200.000", Min: decimal.Zero, Max: rupiah(200000)},
	{Label: "Rp 200.000 - Rp 500.000", Min: decimal.NewFromInt(200000), Max: rupiah(500000)},
	{Label: "Rp 500.000 - Rp 1.000.000", Min: decimal.NewFromInt(500000), Max: rupiah(1000000)},
	{Label: "Di atas Rp 1.000.000", Min: decimal.NewFromInt(1000000), Max: nil},
}

// SortOptions are the orderings offered to shoppers.
var SortOptions = []SortOption{
	{Label: "Terbaru", Value: SortNewest},
	{Label: "Harga: Rendah ke Tinggi", Value: SortPriceAsc},
	{Label: "Harga: Tinggi ke Rendah", Value: SortPriceDesc},
	{Label: "Nama: A-Z", Value: SortNameAsc},
	{Label: "Rating Tertinggi", Value: SortRatingDesc},
}

// Options bundles every vocabulary a filter panel renders.
type Options struct {
	Sizes       []string       `json:"sizes"`
	Materials   []string       `json:"materials"`
	Patterns    []string       `json:"patterns"`
	Colors      []models.Color `json:"colors"`
	PriceRanges []PricePreset  `json:"price_ranges"`
	SortOptions []SortOption   `json:"sort_options"`
}

// FilterOptions returns the filter vocabularies.
func FilterOptions() Options {
	return Options{
		Sizes:       models.Sizes,
		Materials:   models.Materials,
		Patterns:    models.Patterns,
		Colors:      models.Colors,
		PriceRanges: PriceRanges,
		SortOptions: SortOptions,
	}
}
