package nethttp

import (
	"net/http"

	"github.com/barisgit/fluxgen/internal/preview"
)

// Handler creates a net/http handler serving the site's generated files
// Compatible with the standard library mux and any router accepting http.Handler
func Handler(site *preview.Site) http.Handler {
	return HandlerFunc(site)
}

// HandlerFunc creates a net/http HandlerFunc serving the site's generated files
func HandlerFunc(site *preview.Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := site.Serve(r.URL.Path)

		if response.NotFound {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", response.ContentType)
		w.Header().Set("Cache-Control", response.CacheControl)
		w.WriteHeader(response.StatusCode)
		w.Write(response.Body)
	}
}

// NewServeMux returns a mux serving the site on every path
func NewServeMux(site *preview.Site) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", Handler(site))
	return mux
}
