package fiber

import (
	"github.com/gofiber/fiber/v2"

	"github.com/barisgit/fluxgen/internal/preview"
)

// Handler creates a Fiber handler serving the site's generated files
func Handler(site *preview.Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		response := site.Serve(c.Path())

		if response.NotFound {
			return c.SendStatus(404)
		}

		c.Set("Content-Type", response.ContentType)
		c.Set("Cache-Control", response.CacheControl)
		c.Status(response.StatusCode)
		return c.Send(response.Body)
	}
}

// NewApp returns an app serving the site on every path
func NewApp(site *preview.Site) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Get("/*", Handler(site))
	return app
}
