package models

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is one catalog item. Price is stored in major currency units (Rupiah).
type Product struct {
	BaseModel
	Name          string          `gorm:"not null;index" json:"name"`
	Description   string          `json:"description"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"category_id"`
	Category      *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_products_price,price >= 0" json:"price"`
	Stock         int             `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	SKU           string          `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	ImageURL      string          `json:"image_url"`
	ImageURLs     pq.StringArray  `gorm:"type:text[]" json:"image_urls"`
	Sizes         pq.StringArray  `gorm:"type:text[]" json:"sizes"`
	Colors        pq.StringArray  `gorm:"type:text[]" json:"colors"`
	Material      *string         `json:"material"`
	Pattern       *string         `json:"pattern"`
	IsFeatured    bool            `gorm:"not null;index" json:"is_featured"`
	IsAvailable   bool            `gorm:"not null;index" json:"is_available"`
	AverageRating *float64        `gorm:"type:numeric(3,2)" json:"average_rating"`
	ReviewCount   int             `gorm:"not null" json:"review_count"`
}

// AfterFind normalizes rows as they leave the store so the rest of the
// application can trust the shape.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.Normalize()
	return nil
}

// Normalize drops unknown size tokens, orders sizes canonically and clamps
// counters that must not be negative.
func (p *Product) Normalize() {
	p.Sizes = pq.StringArray(CanonicalSizes(p.Sizes))
	if p.Stock < 0 {
		p.Stock = 0
	}
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}
	if p.Price.IsNegative() {
		p.Price = decimal.Zero
	}
	if p.Material != nil && *p.Material == "" {
		p.Material = nil
	}
	if p.Pattern != nil && *p.Pattern == "" {
		p.Pattern = nil
	}
}

// CanonicalSizes filters sizes to the vocabulary, removes duplicates and
// returns them in XS..XXXL order.
func CanonicalSizes(sizes []string) []string {
	seen := make(map[string]bool, len(sizes))
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if _, ok := sizeRank[s]; !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return sizeRank[out[i]] < sizeRank[out[j]] })
	return out
}
