package catalog

import (
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp\u00a0250.000", FormatRupiah(decimal.NewFromInt(250000)))
	assert.Equal(t, "Rp\u00a01.250.000", FormatRupiah(decimal.NewFromInt(1250000)))
	assert.Equal(t, "Rp\u00a00", FormatRupiah(decimal.Zero))
	assert.Equal(t, "Rp\u00a01.000", FormatRupiah(decimal.RequireFromString("999.50")))
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "0.0", FormatRating(nil))
	tests := map[float64]string{
		4.26: "4.3",
		4.25: "4.3",
		2.25: "2.3",
		4.24: "4.2",
		5:    "5.0",
		1:    "1.0",
	}
	for avg, want := range tests {
		avg := avg
		assert.Equal(t, want, FormatRating(&avg), "%v", avg)
	}
}

func TestPresentStockFlags(t *testing.T) {
	tests := []struct {
		stock      int
		low, empty bool
	}{
		{0, false, true},
		{1, true, false},
		{10, true, false},
		{11, false, false},
	}
	for _, tt := range tests {
		p := newProduct(1, "Kemeja", 100000)
		p.Stock = tt.stock
		view := Present(p)
		assert.Equal(t, tt.low, view.LowStock, "stock %d", tt.stock)
		assert.Equal(t, tt.empty, view.OutOfStock, "stock %d", tt.stock)
	}
}

func TestPresentShape(t *testing.T) {
	p := newProduct(1, "Kemeja Parang", 250000, withSizes("XL", "S", "bogus"))
	p.Category = &mens

	view := Present(p)

	assert.Equal(t, "Rp\u00a0250.000", view.PriceLabel)
	assert.Equal(t, "0.0", view.RatingLabel)
	assert.Equal(t, []string{"S", "XL"}, view.Sizes)
	assert.Equal(t, []string{}, view.Colors)
	assert.Equal(t, []string{}, view.ImageURLs)
	require.NotNil(t, view.Category)
	assert.Equal(t, "mens-clothing", view.Category.Slug)
}

func TestPresentHasNoSideEffects(t *testing.T) {
	p := newProduct(1, "Kemeja", 100000)
	p.Sizes = pq.StringArray{"L", "S"}

	_ = Present(p)

	assert.Equal(t, pq.StringArray{"L", "S"}, p.Sizes)
	assert.Len(t, PresentAll(nil), 0)
	assert.NotNil(t, PresentAll(nil))
}
