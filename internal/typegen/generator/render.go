package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// renderer holds the template data shared by every flavor of one run.
// It is read-only once built so flavors can render concurrently.
type renderer struct {
	analysis   *types.APIAnalysis
	opts       Options
	operations []OperationTemplateData
	fileNames  []string
}

func newRenderer(analysis *types.APIAnalysis, opts Options) (*renderer, error) {
	r := &renderer{analysis: analysis, opts: opts}

	seen := make(map[string]string)
	for _, op := range analysis.Operations {
		data := newOperationTemplateData(op)
		r.operations = append(r.operations, data)

		fileName := moduleFileName(op.FunctionName, opts.FileCase)
		if other, ok := seen[fileName]; ok && opts.Split {
			return nil, fmt.Errorf("functions %s and %s both map to module %s.ts", other, op.FunctionName, fileName)
		}
		seen[fileName] = op.FunctionName
		r.fileNames = append(r.fileNames, fileName)
	}

	return r, nil
}

func (r *renderer) renderTypes() (Files, error) {
	data := FileTemplateData{
		Title:   r.analysis.Title,
		Version: r.analysis.Version,
	}
	for _, def := range r.analysis.TypeDefs {
		data.TypeDefs = append(data.TypeDefs, newTypeTemplateData(def))
	}

	content, err := executeTemplate("types", data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", TypesFile, err)
	}
	return Files{TypesFile: content}, nil
}

func (r *renderer) renderRoutes() (Files, error) {
	ops := r.analysis.Operations

	imports := []string{"import type { Hono } from 'hono'"}
	if needsStatusCode(ops) {
		imports = append(imports, "import type { StatusCode } from 'hono/utils/http-status'")
	}
	if used := collectUsedTypes(ops, r.analysis.TypeDefs); len(used) > 0 {
		imports = append(imports, fmt.Sprintf("import type { %s } from './types'", strings.Join(used, ", ")))
	}

	content, err := executeTemplate("routes", FileTemplateData{
		Imports: imports,
		Routes:  buildRoutes(ops),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", RoutesFile, err)
	}
	return Files{RoutesFile: content}, nil
}

func (r *renderer) renderClient() (Files, error) {
	content, err := executeTemplate("client", FileTemplateData{
		BaseURL: r.opts.BaseURL,
		Imports: []string{
			"import { hc } from 'hono/client'",
			"import type { ClientRequestOptions } from 'hono/client'",
			"import type { AppType } from './routes'",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", ClientFile, err)
	}
	return Files{ClientFile: content}, nil
}

// renderBindings renders one binding flavor as a single module or one module per operation
func (r *renderer) renderBindings(flavor string) (Files, error) {
	files := make(Files)

	if !r.opts.Split {
		content, err := r.renderModule(flavor, r.operations)
		if err != nil {
			return nil, err
		}
		files[path.Join(flavor, IndexFile)] = content
		return files, nil
	}

	for i, op := range r.operations {
		content, err := r.renderModule(flavor, []OperationTemplateData{op})
		if err != nil {
			return nil, err
		}
		files[modulePath(flavor, r.fileNames[i])] = content
	}

	index, err := executeTemplate("index", FileTemplateData{Exports: r.fileNames})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s index: %w", flavor, err)
	}
	files[path.Join(flavor, IndexFile)] = index

	return files, nil
}

func (r *renderer) renderModule(flavor string, ops []OperationTemplateData) ([]byte, error) {
	content, err := executeTemplate(flavor, FileTemplateData{
		Imports:    importLines(flavor, ops),
		Operations: ops,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s bindings: %w", flavor, err)
	}
	return content, nil
}
