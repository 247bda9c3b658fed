package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/example/almajid/internal/models"
)

// LowStockThreshold is the highest stock level still flagged as low.
const LowStockThreshold = 10

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders amount the way id-ID currency formatting does, with no
// decimal places: "Rp\u00a0250.000" (no-break space).
func FormatRupiah(amount decimal.Decimal) string {
	return "Rp\u00a0" + idPrinter.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatRating renders an average rating with one decimal, rounding halves
// up, "0.0" when unset.
func FormatRating(avg *float64) string {
	if avg == nil {
		return "0.0"
	}
	return decimal.NewFromFloat(*avg).StringFixed(1)
}

// CategoryView is the category embedded in a ProductView.
type CategoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Icon string    `json:"icon"`
}

// ProductView is the display shape of a product.
type ProductView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	PriceLabel    string          `json:"price_label"`
	Stock         int             `json:"stock"`
	LowStock      bool            `json:"low_stock"`
	OutOfStock    bool            `json:"out_of_stock"`
	Featured      bool            `json:"featured"`
	ImageURL      string          `json:"image_url"`
	ImageURLs     []string        `json:"image_urls"`
	Sizes         []string        `json:"sizes"`
	Colors        []string        `json:"colors"`
	Material      *string         `json:"material"`
	Pattern       *string         `json:"pattern"`
	AverageRating *float64        `json:"average_rating"`
	RatingLabel   string          `json:"rating_label"`
	ReviewCount   int             `json:"review_count"`
	Category      *CategoryView   `json:"category,omitempty"`
}

// Present maps a product and its embedded category to its display shape.
// It has no side effects.
func Present(p models.Product) ProductView {
	view := ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Price:         p.Price,
		PriceLabel:    FormatRupiah(p.Price),
		Stock:         p.Stock,
		LowStock:      p.Stock > 0 && p.Stock <= LowStockThreshold,
		OutOfStock:    p.Stock <= 0,
		Featured:      p.IsFeatured,
		ImageURL:      p.ImageURL,
		ImageURLs:     nonNil(p.ImageURLs),
		Sizes:         models.CanonicalSizes(p.Sizes),
		Colors:        nonNil(p.Colors),
		Material:      p.Material,
		Pattern:       p.Pattern,
		AverageRating: p.AverageRating,
		RatingLabel:   FormatRating(p.AverageRating),
		ReviewCount:   max(p.ReviewCount, 0),
	}
	if p.Category != nil {
		view.Category = &CategoryView{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
			Icon: p.Category.Icon,
		}
	}
	return view
}

// PresentAll maps a list of products.
func PresentAll(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, Present(p))
	}
	return views
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
