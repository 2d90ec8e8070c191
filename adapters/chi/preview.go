package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barisgit/fluxgen/adapters/nethttp"
	"github.com/barisgit/fluxgen/internal/preview"
)

// Handler creates a Chi-compatible handler serving the site's generated files
func Handler(site *preview.Site) http.HandlerFunc {
	return nethttp.HandlerFunc(site)
}

// Mount registers the site under pattern on r; pattern "/" serves it at the root
func Mount(r chi.Router, pattern string, site *preview.Site) {
	handler := Handler(site)
	if pattern == "" || pattern == "/" {
		r.Get("/*", handler)
		return
	}
	r.Get(pattern, handler)
	r.Get(pattern+"/*", handler)
}

// NewRouter returns a router serving the site at the root
func NewRouter(site *preview.Site) chi.Router {
	r := chi.NewRouter()
	Mount(r, "/", site)
	return r
}
