package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/sanitize"
	"folio/internal/views"
)

func LoginPage(authn *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderHTML(c, fiber.StatusOK, views.LoginPage("", authn.TOTPEnabled()))
	}
}

func LoginPost(db *sql.DB, authn *auth.Authenticator, secureCookies bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.FormValue("username")
		password := c.FormValue("password")
		code := c.FormValue("code")
		ip := c.IP()

		token, err := authn.Login(ip, username, password, code)
		if err != nil {
			slog.Warn("failed login attempt", "username", sanitize.LogSafe(username), "ip", ip, "reason", err)
			status := fiber.StatusUnauthorized
			msg := "Invalid username or password"
			switch {
			case errors.Is(err, auth.ErrLocked):
				status = fiber.StatusTooManyRequests
				msg = "Too many failed attempts. Try again later."
			case errors.Is(err, auth.ErrTOTPRequired):
				msg = "Invalid authenticator code"
			}
			models.LogActivity(db, "auth", "", "login_failed", sanitize.LogSafe(username), ip, c.Get(fiber.HeaderUserAgent))
			return renderHTML(c, status, views.LoginPage(msg, authn.TOTPEnabled()))
		}

		c.Cookie(&fiber.Cookie{
			Name:     auth.SessionCookie,
			Value:    token,
			Expires:  time.Now().Add(authn.TTL()),
			HTTPOnly: true,
			Secure:   secureCookies,
			SameSite: "Lax",
		})

		slog.Info("admin logged in", "ip", ip)
		models.LogActivity(db, "auth", "", "login", "Admin signed in", ip, c.Get(fiber.HeaderUserAgent))
		return c.Redirect("/inbox", fiber.StatusSeeOther)
	}
}

// Logout revokes the current session so a copied cookie stops working.
func Logout(db *sql.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenStr := c.Cookies(auth.SessionCookie); tokenStr != "" {
			if claims, err := auth.ValidateToken(tokenStr, secret); err == nil && claims.ExpiresAt != nil {
				if err := auth.RevokeToken(db, claims.ID, claims.ExpiresAt.Time); err != nil {
					slog.Error("failed to revoke session", "error", err)
				}
			}
		}
		c.ClearCookie(auth.SessionCookie)
		models.LogActivity(db, "auth", "", "logout", "Admin signed out", c.IP(), c.Get(fiber.HeaderUserAgent))
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}
