package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalSizes(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"canonical order", []string{"XL", "S", "XXXL", "M"}, []string{"S", "M", "XL", "XXXL"}},
		{"drops unknown", []string{"M", "huge", "xs"}, []string{"M"}},
		{"drops duplicates", []string{"L", "L", "XS"}, []string{"XS", "L"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalSizes(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	empty := ""
	p := Product{
		Sizes:       pq.StringArray{"XXL", "bogus", "S"},
		Stock:       -3,
		ReviewCount: -1,
		Price:       decimal.NewFromInt(-10),
		Material:    &empty,
	}

	p.Normalize()

	assert.Equal(t, pq.StringArray{"S", "XXL"}, p.Sizes)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, 0, p.ReviewCount)
	assert.True(t, p.Price.IsZero())
	assert.Nil(t, p.Material)
}

func TestVocabularyMembership(t *testing.T) {
	assert.True(t, IsSize("XXXL"))
	assert.False(t, IsSize("4XL"))
	assert.True(t, IsMaterial("Katun Prima"))
	assert.False(t, IsMaterial("Polyester"))
	assert.True(t, IsPattern("Megamendung"))
	assert.True(t, IsColor("Emas"))
	assert.False(t, IsColor("Ungu"))
}
