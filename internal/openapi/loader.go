package openapi

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Document is a loaded OpenAPI 3 document together with where it came from
type Document struct {
	*openapi3.T
	Location string
}

// Load loads a document from a local path or an http(s) URL
func Load(ctx context.Context, source string) (*Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadURL(ctx, source)
	}
	return LoadFile(ctx, source)
}

// LoadFile loads a JSON or YAML document from disk, resolving relative external refs
func LoadFile(ctx context.Context, path string) (*Document, error) {
	loader := newLoader(ctx)
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Document{T: doc, Location: abs}, nil
}

// LoadURL fetches a document over HTTP(S)
func LoadURL(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document URL %s: %w", rawURL, err)
	}

	loader := newLoader(ctx)
	doc, err := loader.LoadFromURI(u)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", rawURL, err)
	}
	return &Document{T: doc, Location: rawURL}, nil
}

// LoadData parses an in-memory JSON or YAML document; location is only used in messages
func LoadData(ctx context.Context, data []byte, location string) (*Document, error) {
	loader := newLoader(ctx)
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document %s: %w", location, err)
	}
	return &Document{T: doc, Location: location}, nil
}

func newLoader(ctx context.Context) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx
	return loader
}

// Validate runs structural validation of the document
func (d *Document) Validate(ctx context.Context) error {
	if err := d.T.Validate(ctx); err != nil {
		return fmt.Errorf("OpenAPI document %s is invalid: %w", d.Location, err)
	}
	return nil
}

// IsLocal reports whether the document was loaded from the filesystem
func (d *Document) IsLocal() bool {
	return d.Location != "" && !strings.Contains(d.Location, "://")
}

// CountOperations returns the number of operations across all paths
func (d *Document) CountOperations() int {
	count := 0
	for _, item := range d.Paths {
		if item == nil {
			continue
		}
		count += len(item.Operations())
	}
	return count
}
