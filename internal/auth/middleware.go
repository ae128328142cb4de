package auth

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
)

const SessionCookie = "token"

// RequireAdmin redirects to /login unless the request carries a valid,
// unrevoked session cookie. db may be nil to skip the revocation check.
func RequireAdmin(secret string, db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(SessionCookie)
		if tokenStr == "" {
			return c.Redirect("/login")
		}

		claims, err := ValidateToken(tokenStr, secret)
		if err != nil || (db != nil && IsRevoked(db, claims.ID)) {
			c.ClearCookie(SessionCookie)
			return c.Redirect("/login")
		}

		c.Locals("username", claims.Username)
		c.Locals("token_claims", claims)
		return c.Next()
	}
}
