package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/openapi"
	"github.com/barisgit/fluxgen/internal/typegen/analyzer"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// Result is everything one generation run produced
type Result struct {
	Document *openapi.Document
	Analysis *types.APIAnalysis
	Files    generator.Files
	// Warnings holds document validation problems followed by analyzer warnings
	Warnings []string
}

// StrictError is returned instead of a result when strict mode sees warnings
type StrictError struct {
	Warnings []string
}

func (e *StrictError) Error() string {
	return fmt.Sprintf("strict mode: %d warning(s):\n  - %s", len(e.Warnings), strings.Join(e.Warnings, "\n  - "))
}

// Run loads the configured input document and builds bindings for it
func Run(ctx context.Context, cfg *config.ProjectConfig) (*Result, error) {
	doc, err := openapi.Load(ctx, cfg.Input)
	if err != nil {
		return nil, err
	}
	return Build(ctx, doc, cfg)
}

// Build analyzes an already loaded document and renders every configured flavor
func Build(ctx context.Context, doc *openapi.Document, cfg *config.ProjectConfig) (*Result, error) {
	if doc == nil || doc.T == nil {
		return nil, fmt.Errorf("no OpenAPI document to generate from")
	}

	var warnings []string
	if err := doc.Validate(ctx); err != nil {
		warnings = append(warnings, err.Error())
	}

	analysis, err := analyzer.Analyze(doc.T, cfg.AnalyzerOptions())
	if err != nil {
		return nil, fmt.Errorf("analysis of %s failed: %w", doc.Location, err)
	}
	warnings = append(warnings, analysis.Warnings...)

	if cfg.Strict && len(warnings) > 0 {
		return nil, &StrictError{Warnings: warnings}
	}

	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}

	files, err := generator.Generate(ctx, analysis, opts)
	if err != nil {
		return nil, fmt.Errorf("generating bindings: %w", err)
	}

	return &Result{
		Document: doc,
		Analysis: analysis,
		Files:    files,
		Warnings: warnings,
	}, nil
}

// SpecJSON returns the input document as JSON, for serving next to the bindings
func (r *Result) SpecJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r.Document.T, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	return data, nil
}
