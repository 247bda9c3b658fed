package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/example/almajid/internal/auth"
)

const identityContextKey = "userIdentifier"

// Identity resolves the user identifier of the request: the session's email
// when signed in, otherwise the guest id from the X-Guest-ID header. A
// missing or malformed guest id is replaced by a freshly minted one, which
// is echoed in the response header for the client to keep.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, ok := CurrentSession(c); ok {
			c.Locals(identityContextKey, session.Identifier())
			return c.Next()
		}

		guest := utils.CopyString(c.Get(auth.GuestHeader))
		if !auth.ValidGuestID(guest) {
			guest = auth.NewGuestID(time.Now())
		}
		c.Set(auth.GuestHeader, guest)
		c.Locals(identityContextKey, guest)
		return c.Next()
	}
}

// UserIdentifier returns the identifier resolved by Identity.
func UserIdentifier(c *fiber.Ctx) string {
	id, _ := c.Locals(identityContextKey).(string)
	return id
}
