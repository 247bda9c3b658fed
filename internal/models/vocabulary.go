package models

// Sizes is the closed size vocabulary in canonical display order.
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// Materials lists the fabric values a product may carry.
var Materials = []string{
	"Katun",
	"Sutra",
	"Rayon",
	"Katun Prima",
	"Katun Halus",
	"Dobby",
	"Satin",
}

// Patterns lists the batik motifs a product may carry.
var Patterns = []string{
	"Parang",
	"Kawung",
	"Megamendung",
	"Truntum",
	"Sekar Jagad",
	"Sogan",
	"Sido Mukti",
	"Sido Luhur",
	"Lereng",
	"Ceplok",
}

// Color is a named swatch offered in the admin form.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Colors lists the swatches offered in the admin form.
var Colors = []Color{
	{Name: "Coklat", Hex: "#8B4513"},
	{Name: "Krem", Hex: "#F5F5DC"},
	{Name: "Emas", Hex: "#D4AF37"},
	{Name: "Hitam", Hex: "#000000"},
	{Name: "Putih", Hex: "#FFFFFF"},
	{Name: "Biru", Hex: "#1E3A8A"},
	{Name: "Merah", Hex: "#DC2626"},
	{Name: "Hijau", Hex: "#166534"},
}

var sizeRank = func() map[string]int {
	m := make(map[string]int, len(Sizes))
	for i, s := range Sizes {
		m[s] = i
	}
	return m
}()

// IsSize reports whether s belongs to the size vocabulary.
func IsSize(s string) bool {
	_, ok := sizeRank[s]
	return ok
}

// IsMaterial reports whether s belongs to the material vocabulary.
func IsMaterial(s string) bool { return contains(Materials, s) }

// IsPattern reports whether s belongs to the pattern vocabulary.
func IsPattern(s string) bool { return contains(Patterns, s) }

// IsColor reports whether name matches one of the offered swatches.
func IsColor(name string) bool {
	for _, c := range Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
