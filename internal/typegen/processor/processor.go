package processor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/barisgit/fluxgen/internal/typegen/naming"
)

const indentUnit = "  "

// TypeProcessor converts OpenAPI schemas into TypeScript type expressions
type TypeProcessor struct {
	// Unsupported collects schema shapes that fell back to unknown
	Unsupported []string
}

// NewTypeProcessor creates a new type processor
func NewTypeProcessor() *TypeProcessor {
	return &TypeProcessor{}
}

// ExtractTypeFromRef extracts the TypeScript type name from an OpenAPI $ref
func (p *TypeProcessor) ExtractTypeFromRef(ref string) string {
	if ref == "" {
		return ""
	}

	// "#/components/schemas/User" or "models.yaml#/components/schemas/User"
	parts := strings.Split(ref, "/")
	return naming.TypeName(parts[len(parts)-1])
}

// SchemaToTS converts a schema reference to a TypeScript type expression
func (p *TypeProcessor) SchemaToTS(ref *openapi3.SchemaRef) string {
	return p.schemaToTS(ref, 0)
}

// SchemaToTSIndented converts a schema reference, laying out object literals at the given depth
func (p *TypeProcessor) SchemaToTSIndented(ref *openapi3.SchemaRef, depth int) string {
	return p.schemaToTS(ref, depth)
}

func (p *TypeProcessor) schemaToTS(ref *openapi3.SchemaRef, depth int) string {
	if ref == nil {
		return "unknown"
	}
	if ref.Ref != "" {
		return p.ExtractTypeFromRef(ref.Ref)
	}

	schema := ref.Value
	if schema == nil {
		return "unknown"
	}

	base := p.baseType(schema, depth)
	if schema.Nullable && base != "unknown" && base != "null" {
		return Union([]string{base, "null"})
	}
	return base
}

func (p *TypeProcessor) baseType(schema *openapi3.Schema, depth int) string {
	switch {
	case len(schema.OneOf) > 0:
		return Union(p.members(schema.OneOf, depth))
	case len(schema.AnyOf) > 0:
		return Union(p.members(schema.AnyOf, depth))
	case len(schema.AllOf) > 0:
		return Intersection(p.members(schema.AllOf, depth))
	case len(schema.Enum) > 0:
		return p.enumType(schema.Enum)
	}

	switch schema.Type {
	case "string":
		if schema.Format == "binary" {
			return "Blob"
		}
		return "string"
	case "integer", "number":
		return "number"
	case "boolean":
		return "boolean"
	case "array":
		return ArrayOf(p.schemaToTS(schema.Items, depth))
	case "object", "":
		if len(schema.Properties) > 0 || hasAdditional(schema) {
			return p.objectType(schema, depth)
		}
		if schema.Type == "object" {
			return "Record<string, unknown>"
		}
		return "unknown"
	default:
		p.Unsupported = append(p.Unsupported, fmt.Sprintf("schema type %q", schema.Type))
		return "unknown"
	}
}

func (p *TypeProcessor) members(refs openapi3.SchemaRefs, depth int) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, p.schemaToTS(ref, depth))
	}
	return out
}

func (p *TypeProcessor) enumType(values []interface{}) string {
	literals := make([]string, 0, len(values))
	for _, v := range values {
		literals = append(literals, Literal(v))
	}
	return Union(literals)
}

// objectType renders an object schema as a multi-line TypeScript object literal type
func (p *TypeProcessor) objectType(schema *openapi3.Schema, depth int) string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		// Skip $schema fields
		if name == "$schema" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	inner := strings.Repeat(indentUnit, depth+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, name := range names {
		prop := schema.Properties[name]
		if prop != nil && prop.Value != nil {
			b.WriteString(JSDoc(prop.Value.Description, inner))
		}
		optional := "?"
		if containsString(schema.Required, name) {
			optional = ""
		}
		fmt.Fprintf(&b, "%s%s%s: %s\n", inner, naming.QuoteKey(name), optional, p.schemaToTS(prop, depth+1))
	}

	if hasAdditional(schema) {
		valueType := "unknown"
		if schema.AdditionalProperties.Schema != nil && len(names) == 0 {
			valueType = p.schemaToTS(schema.AdditionalProperties.Schema, depth+1)
		}
		fmt.Fprintf(&b, "%s[key: string]: %s\n", inner, valueType)
	}

	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
	return b.String()
}

func hasAdditional(schema *openapi3.Schema) bool {
	ap := schema.AdditionalProperties
	if ap.Schema != nil {
		return true
	}
	return ap.Has != nil && *ap.Has
}

// Literal renders an enum value as a TypeScript literal type
func Literal(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + strings.ReplaceAll(strings.ReplaceAll(val, `\`, `\\`), "'", `\'`) + "'"
	case bool:
		return fmt.Sprintf("%t", val)
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Union joins members with |, dropping duplicates and keeping first-seen order
func Union(members []string) string {
	return join(members, " | ")
}

// Intersection joins members with &, dropping duplicates and keeping first-seen order
func Intersection(members []string) string {
	return join(members, " & ")
}

func join(members []string, sep string) string {
	seen := make(map[string]bool, len(members))
	var unique []string
	for _, m := range members {
		if seen[m] {
			continue
		}
		seen[m] = true
		unique = append(unique, m)
	}
	switch len(unique) {
	case 0:
		return "unknown"
	case 1:
		return unique[0]
	}
	for i, m := range unique {
		if isCompound(m) {
			unique[i] = "(" + m + ")"
		}
	}
	return strings.Join(unique, sep)
}

// ArrayOf wraps an element type into an array type
func ArrayOf(elem string) string {
	if isCompound(elem) {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}

// isCompound reports whether a type has a top-level | or & and needs parentheses
func isCompound(t string) bool {
	depth := 0
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case '{', '(', '<', '[':
			depth++
		case '}', ')', '>', ']':
			depth--
		case '|', '&':
			if depth == 0 {
				return true
			}
		case '\'':
			// skip string literal contents
			for i++; i < len(t) && t[i] != '\''; i++ {
				if t[i] == '\\' {
					i++
				}
			}
		}
	}
	return false
}

// RoutePath converts an OpenAPI path template into RPC route form: {petId} -> :petId
func RoutePath(path string) string {
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '{':
			b.WriteByte(':')
		case '}':
		default:
			b.WriteByte(path[i])
		}
	}
	return b.String()
}

// ClientAccessor builds the property chain that reaches a route on the RPC client
func ClientAccessor(routePath string) string {
	var b strings.Builder
	b.WriteString("client")

	segments := 0
	for _, seg := range strings.Split(routePath, "/") {
		if seg == "" {
			continue
		}
		segments++
		if naming.IsValidJSIdentifier(seg) {
			b.WriteString("." + seg)
		} else {
			b.WriteString("[" + naming.QuoteKey(seg) + "]")
		}
	}
	if segments == 0 {
		b.WriteString(".index")
	}
	return b.String()
}

// CleanDescription extracts only the main description, removing trailing sections
func CleanDescription(description string) string {
	if description == "" {
		return ""
	}

	sections := strings.Split(description, "\n\n")
	return strings.TrimSpace(sections[0])
}

// JSDoc renders text as a JSDoc block at the given indentation, or "" for empty text
func JSDoc(text, indent string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "*/", "*\\/")

	var b strings.Builder
	b.WriteString(indent + "/**\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			b.WriteString(indent + " *\n")
		} else {
			b.WriteString(indent + " * " + line + "\n")
		}
	}
	b.WriteString(indent + " */\n")
	return b.String()
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
