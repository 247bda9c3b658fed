package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const skuPad = 'X'

// GenerateSKU builds "{CAT3}-{NAME3}-{TS6}": the first three characters of
// category and name, upper-cased and padded with X (inner whitespace also
// becomes X), followed by the last six digits of now in Unix milliseconds.
// Identical inputs at the same millisecond give the same SKU; uniqueness is
// left to the store's unique index.
func GenerateSKU(category, name string, now time.Time) string {
	ts := now.UnixMilli() % 1_000_000
	if ts < 0 {
		ts = -ts
	}
	return fmt.Sprintf("%s-%s-%06d", code3(category), code3(name), ts)
}

func code3(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == 3 {
			break
		}
		if unicode.IsSpace(r) {
			r = skuPad
		}
		b.WriteRune(r)
		n++
	}
	for ; n < 3; n++ {
		b.WriteRune(skuPad)
	}
	return b.String()
}

// ValidSKU reports whether s is a plausible SKU: non-empty, no whitespace, at
// most 64 characters.
func ValidSKU(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > 64 {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n")
}
