package preview

import (
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// SpecPath serves the OpenAPI document the bindings were generated from
const SpecPath = "/openapi.json"

// Config configures how generated files are served
type Config struct {
	// Prefix is removed from request paths before lookup, e.g. "/bindings"
	Prefix string
	// NoCache disables client-side caching, used while watching for changes
	NoCache bool
}

// StaticResponse is a router-independent response; adapters copy it onto their own context
type StaticResponse struct {
	StatusCode   int
	ContentType  string
	CacheControl string
	Body         []byte
	NotFound     bool
}

// Listing is the body served at the root path
type Listing struct {
	Files []string `json:"files"`
	Spec  string   `json:"spec,omitempty"`
}

// ServeFile resolves urlPath against the generated files in fsys.
// The root path lists every file; SpecPath serves spec when it is non-empty.
func ServeFile(fsys fs.FS, spec []byte, config Config, urlPath string) StaticResponse {
	p, ok := stripPrefix(urlPath, config.Prefix)
	if !ok {
		return StaticResponse{StatusCode: 404, NotFound: true}
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")

	if p == "" {
		return listFiles(fsys, spec, config)
	}

	if "/"+p == SpecPath && len(spec) > 0 {
		return StaticResponse{
			StatusCode:   200,
			ContentType:  contentType(SpecPath),
			CacheControl: cacheControl(config),
			Body:         spec,
		}
	}

	if fsys == nil || !fs.ValidPath(p) {
		return StaticResponse{StatusCode: 404, NotFound: true}
	}

	body, err := fs.ReadFile(fsys, p)
	if err != nil {
		return StaticResponse{StatusCode: 404, NotFound: true}
	}

	return StaticResponse{
		StatusCode:   200,
		ContentType:  contentType(p),
		CacheControl: cacheControl(config),
		Body:         body,
	}
}

// stripPrefix removes prefix from urlPath on a segment boundary; ok is false outside the prefix
func stripPrefix(urlPath, prefix string) (string, bool) {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return urlPath, true
	}
	rest, found := strings.CutPrefix(urlPath, prefix)
	if !found || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return "", false
	}
	return rest, true
}

func listFiles(fsys fs.FS, spec []byte, config Config) StaticResponse {
	listing := Listing{Files: []string{}}
	if fsys != nil {
		_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				listing.Files = append(listing.Files, p)
			}
			return nil
		})
	}
	sort.Strings(listing.Files)
	if len(spec) > 0 {
		listing.Spec = SpecPath
	}

	body, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return StaticResponse{StatusCode: 500}
	}
	return StaticResponse{
		StatusCode:   200,
		ContentType:  contentType(".json"),
		CacheControl: "no-cache",
		Body:         body,
	}
}

// contentType returns the content type for a generated file
func contentType(p string) string {
	contentTypes := map[string]string{
		".ts":   "text/typescript; charset=utf-8",
		".js":   "application/javascript; charset=utf-8",
		".json": "application/json; charset=utf-8",
		".yaml": "application/yaml; charset=utf-8",
	}
	if ct, ok := contentTypes[path.Ext(p)]; ok {
		return ct
	}
	return "text/plain; charset=utf-8"
}

func cacheControl(config Config) string {
	if config.NoCache {
		return "no-cache"
	}
	return "public, max-age=300" // 5 minutes
}

// Site holds the files currently being served and can be swapped while serving
type Site struct {
	mu     sync.RWMutex
	fsys   fs.FS
	spec   []byte
	config Config
}

// NewSite creates a site serving nothing until Update is called
func NewSite(config Config) *Site {
	return &Site{config: config}
}

// Update replaces the served files and spec
func (s *Site) Update(fsys fs.FS, spec []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fsys = fsys
	s.spec = spec
}

// Serve resolves urlPath against the current files
func (s *Site) Serve(urlPath string) StaticResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ServeFile(s.fsys, s.spec, s.config, urlPath)
}
