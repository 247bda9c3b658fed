package models

// Category is one of the storefront's top-level groups. Slug is the stable
// external reference used by navigation and filters.
type Category struct {
	BaseModel
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	Icon string `json:"icon"`
}

// DefaultCategories is the fixed taxonomy seeded on start-up.
var DefaultCategories = []Category{
	{Name: "Men's Clothing", Slug: "mens-clothing", Icon: "👔"},
	{Name: "Women's Clothing", Slug: "womens-clothing", Icon: "👗"},
}
