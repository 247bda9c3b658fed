package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// GuestHeader carries the guest identity between client and server.
const GuestHeader = "X-Guest-ID"

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

var guestPattern = regexp.MustCompile(`^guest_[0-9]{1,16}_[0-9a-z]{9}$`)

// NewGuestID mints "guest_<unix ms>_<9 base36 chars>".
func NewGuestID(now time.Time) string {
	suffix := make([]byte, 9)
	max := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		suffix[i] = base36[n.Int64()]
	}
	return fmt.Sprintf("guest_%d_%s", now.UnixMilli(), suffix)
}

// ValidGuestID reports whether id has the guest identity shape.
func ValidGuestID(id string) bool {
	return guestPattern.MatchString(id)
}
