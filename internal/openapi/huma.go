package openapi

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// FromHuma loads the document a Huma API describes. Huma produces OpenAPI 3.1, so the
// document is downgraded to 3.0 first.
func FromHuma(ctx context.Context, api huma.API) (*Document, error) {
	spec, err := SpecJSON(api)
	if err != nil {
		return nil, err
	}
	location := "huma"
	if info := api.OpenAPI().Info; info != nil {
		location += ":" + info.Title
	}
	return LoadData(ctx, spec, location)
}

// SpecJSON returns the OpenAPI 3.0 JSON of a Huma API
func SpecJSON(api huma.API) ([]byte, error) {
	spec, err := api.OpenAPI().Downgrade()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OpenAPI JSON: %w", err)
	}
	return spec, nil
}

// SpecYAML returns the OpenAPI 3.0 YAML of a Huma API
func SpecYAML(api huma.API) ([]byte, error) {
	spec, err := api.OpenAPI().DowngradeYAML()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OpenAPI YAML: %w", err)
	}
	return spec, nil
}
