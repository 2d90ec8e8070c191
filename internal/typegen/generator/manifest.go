package generator

import (
	"encoding/json"
	"fmt"

	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// Manifest describes every operation and the names emitted for it
type Manifest struct {
	GeneratedBy string              `json:"generatedBy"`
	Title       string              `json:"title,omitempty"`
	Version     string              `json:"version,omitempty"`
	Flavors     []string            `json:"flavors"`
	Operations  []ManifestOperation `json:"operations"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// ManifestOperation is one operation of the manifest
type ManifestOperation struct {
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	RoutePath    string   `json:"routePath"`
	OperationID  string   `json:"operationId,omitempty"`
	FunctionName string   `json:"functionName"`
	Kind         string   `json:"kind"`
	Deprecated   bool     `json:"deprecated,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	// Exports maps each binding flavor to the names it exports for this operation
	Exports map[string][]string `json:"exports"`
}

// BuildManifest builds the manifest for the given binding flavors
func BuildManifest(analysis *types.APIAnalysis, flavors []string) Manifest {
	manifest := Manifest{
		GeneratedBy: "fluxgen",
		Title:       analysis.Title,
		Version:     analysis.Version,
		Operations:  []ManifestOperation{},
		Warnings:    analysis.Warnings,
	}
	for _, flavor := range flavors {
		if flavor != FlavorManifest {
			manifest.Flavors = append(manifest.Flavors, flavor)
		}
	}

	for _, op := range analysis.Operations {
		data := newOperationTemplateData(op)

		entry := ManifestOperation{
			Method:       op.Method,
			Path:         op.Path,
			RoutePath:    op.RoutePath,
			OperationID:  op.OperationID,
			FunctionName: op.FunctionName,
			Kind:         "mutation",
			Deprecated:   op.Deprecated,
			Tags:         op.Tags,
			Exports:      make(map[string][]string),
		}
		if op.IsQuery {
			entry.Kind = "query"
		}

		for _, flavor := range manifest.Flavors {
			entry.Exports[flavor] = exportedNames(flavor, data)
		}
		manifest.Operations = append(manifest.Operations, entry)
	}

	return manifest
}

// exportedNames lists the names a flavor's template exports for one operation, in emission order
func exportedNames(flavor string, op OperationTemplateData) []string {
	switch flavor {
	case FlavorRPC:
		return []string{op.Name}
	case FlavorReactQuery, FlavorVueQuery:
		if op.IsQuery {
			return []string{op.QueryKeyName, op.QueryOptionsName, op.HookName}
		}
		return []string{op.MutationKeyName, op.HookName}
	case FlavorSvelteQuery:
		if op.IsQuery {
			return []string{op.QueryKeyName, op.QueryOptionsName, op.CreateName}
		}
		return []string{op.MutationKeyName, op.CreateName}
	case FlavorSWR:
		if op.IsQuery {
			return []string{op.SWRKeyName, op.HookName}
		}
		return []string{op.MutationKeyName, op.HookName}
	default:
		return nil
	}
}

func (r *renderer) renderManifest(flavors []string) (Files, error) {
	data, err := json.MarshalIndent(BuildManifest(r.analysis, flavors), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return Files{ManifestFile: append(data, '\n')}, nil
}
