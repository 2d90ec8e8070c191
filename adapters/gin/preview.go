package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/barisgit/fluxgen/internal/preview"
)

// Handler creates a Gin handler serving the site's generated files
func Handler(site *preview.Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := site.Serve(c.Request.URL.Path)

		if response.NotFound {
			c.AbortWithStatus(404)
			return
		}

		c.Header("Cache-Control", response.CacheControl)
		c.Data(response.StatusCode, response.ContentType, response.Body)
	}
}

// NewEngine returns a bare engine with the site mounted as its fallback route
func NewEngine(site *preview.Site) *gin.Engine {
	engine := gin.New()
	engine.NoRoute(Handler(site))
	return engine
}
