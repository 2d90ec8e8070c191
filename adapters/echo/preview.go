package echo

import (
	"github.com/labstack/echo/v4"

	"github.com/barisgit/fluxgen/internal/preview"
)

// Handler creates an Echo handler serving the site's generated files
func Handler(site *preview.Site) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := site.Serve(c.Request().URL.Path)

		if response.NotFound {
			return c.NoContent(404)
		}

		c.Response().Header().Set("Cache-Control", response.CacheControl)
		return c.Blob(response.StatusCode, response.ContentType, response.Body)
	}
}

// NewEcho returns an instance serving the site on every path
func NewEcho(site *preview.Site) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/*", Handler(site))
	return e
}
