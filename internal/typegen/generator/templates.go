package generator

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/barisgit/fluxgen/internal/typegen/processor"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// parsedTemplates holds every named template; each .tmpl file defines one or more of them
var parsedTemplates = template.Must(
	template.New("fluxgen").Funcs(template.FuncMap{
		"join":    strings.Join,
		"literal": func(v string) string { return processor.Literal(v) },
		"banner":  func() string { return Banner },
	}).ParseFS(templateFS, "templates/*.tmpl"),
)

// executeTemplate executes a named template and returns the generated code
func executeTemplate(name string, data FileTemplateData) ([]byte, error) {
	var buf strings.Builder
	if err := parsedTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return []byte(buf.String()), nil
}
