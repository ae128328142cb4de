package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
)

func renderHTML(c *fiber.Ctx, status int, comp templ.Component) error {
	c.Status(status)
	c.Set("Content-Type", "text/html; charset=utf-8")
	return comp.Render(c.Context(), c.Response().BodyWriter())
}

// wantsJSON reports whether the client posted or asked for JSON.
func wantsJSON(c *fiber.Ctx) bool {
	if c.Is("json") {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
