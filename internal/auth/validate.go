package auth

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+62|62|0)[0-9]{9,12}$`)
)

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone reports whether phone is an Indonesian number: +62, 62 or 0
// followed by 9 to 12 digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
