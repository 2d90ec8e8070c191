package analyzer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/barisgit/fluxgen/internal/typegen/naming"
	"github.com/barisgit/fluxgen/internal/typegen/processor"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// Nesting depths of parameters, bodies and responses inside the route-type declaration
const (
	paramDepth    = 5
	bodyDepth     = 4
	responseDepth = 3
)

// methodOrder is the order operations of one path are emitted in
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// Options narrows and adjusts what is extracted from a document
type Options struct {
	IncludeTags []string
	ExcludeTags []string
	// StripPrefix is removed from the start of every path before naming
	StripPrefix string
}

// Analyze converts an OpenAPI document into the generator's intermediate representation
func Analyze(doc *openapi3.T, opts Options) (*types.APIAnalysis, error) {
	if doc == nil {
		return nil, fmt.Errorf("no OpenAPI document to analyze")
	}

	a := &analyzer{
		opts:      opts,
		processor: processor.NewTypeProcessor(),
		analysis:  &types.APIAnalysis{},
	}

	if doc.Info != nil {
		a.analysis.Title = doc.Info.Title
		a.analysis.Version = doc.Info.Version
	}

	a.extractOperations(doc.Paths)
	if doc.Components != nil {
		a.extractTypeDefinitions(doc.Components.Schemas)
	}

	for _, u := range a.processor.Unsupported {
		a.analysis.Warnf("unsupported %s rendered as unknown", u)
	}

	return a.analysis, nil
}

type analyzer struct {
	opts      Options
	processor *processor.TypeProcessor
	analysis  *types.APIAnalysis
}

func (a *analyzer) extractOperations(paths openapi3.Paths) {
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	usedNames := make(map[string]int)
	routes := make(map[string]string)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}

		for _, method := range methodOrder {
			op := item.GetOperation(method)
			if op == nil || !a.tagsAllowed(op.Tags) {
				continue
			}

			stripped := a.stripPrefix(path)

			// Stripping a prefix can fold two paths onto one route
			route := method + " " + processor.RoutePath(stripped)
			if previous, ok := routes[route]; ok {
				a.analysis.Warnf("%s %s: route %s already declared by %s, skipped", method, path, route, previous)
				continue
			}
			routes[route] = path

			operation := a.buildOperation(stripped, method, item, op)
			operation.FunctionName = uniqueName(usedNames, operation.FunctionName, func(renamed string) {
				a.analysis.Warnf("%s %s: function name %s already used, emitting %s", method, path, operation.FunctionName, renamed)
			})

			a.analysis.Operations = append(a.analysis.Operations, operation)
		}
	}
}

// uniqueName reserves name in used, appending the next free numeric suffix (starting at 2)
// when it is taken
func uniqueName(used map[string]int, name string, renamed func(string)) string {
	if used[name] == 0 {
		used[name] = 1
		return name
	}

	n := used[name] + 1
	candidate := fmt.Sprintf("%s%d", name, n)
	for used[candidate] > 0 {
		n++
		candidate = fmt.Sprintf("%s%d", name, n)
	}
	used[name] = n
	used[candidate] = 1
	renamed(candidate)
	return candidate
}

func (a *analyzer) buildOperation(path, method string, item *openapi3.PathItem, op *openapi3.Operation) types.APIOperation {
	routePath := processor.RoutePath(path)

	operation := types.APIOperation{
		Method:       method,
		Path:         path,
		RoutePath:    routePath,
		OperationID:  op.OperationID,
		Summary:      op.Summary,
		Description:  op.Description,
		Tags:         op.Tags,
		Deprecated:   op.Deprecated,
		FunctionName: naming.OperationName(method, path),
		IsQuery:      method == "GET",
	}

	operation.Params = a.extractParameters(item.Parameters, op.Parameters)
	operation.Body = a.extractRequestBody(method, path, op.RequestBody)
	operation.Responses = a.extractResponses(method, path, op.Responses)

	return operation
}

// extractParameters merges path-level and operation-level parameters; the operation wins
func (a *analyzer) extractParameters(shared, own openapi3.Parameters) []types.Parameter {
	var params []types.Parameter
	index := make(map[string]int)

	for _, list := range []openapi3.Parameters{shared, own} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := ref.Value

			param := types.Parameter{
				Name:        p.Name,
				In:          p.In,
				Required:    p.Required || p.In == types.InPath,
				Description: p.Description,
				TSType:      a.parameterType(p),
			}

			key := p.In + ":" + p.Name
			if i, ok := index[key]; ok {
				params[i] = param
				continue
			}
			index[key] = len(params)
			params = append(params, param)
		}
	}

	return params
}

func (a *analyzer) parameterType(p *openapi3.Parameter) string {
	if p.Schema != nil {
		return a.processor.SchemaToTSIndented(p.Schema, paramDepth)
	}
	for _, ct := range sortedContentTypes(p.Content) {
		if mt := p.Content[ct]; mt != nil && mt.Schema != nil {
			return a.processor.SchemaToTSIndented(mt.Schema, paramDepth)
		}
	}
	return "string"
}

func (a *analyzer) extractRequestBody(method, path string, ref *openapi3.RequestBodyRef) *types.RequestBody {
	if ref == nil || ref.Value == nil || len(ref.Value.Content) == 0 {
		return nil
	}

	contentType := preferredRequestContentType(ref.Value.Content)
	inputKey := requestInputKey(contentType)
	if inputKey == "" {
		a.analysis.Warnf("%s %s: request content type %s is not supported by the RPC client, body skipped", method, path, contentType)
		return nil
	}

	var tsType string
	if mt := ref.Value.Content[contentType]; mt != nil && mt.Schema != nil {
		tsType = a.processor.SchemaToTSIndented(mt.Schema, bodyDepth)
	} else {
		tsType = "unknown"
	}

	return &types.RequestBody{
		ContentType: contentType,
		TSType:      tsType,
		Required:    ref.Value.Required,
		InputKey:    inputKey,
	}
}

func (a *analyzer) extractResponses(method, path string, responses openapi3.Responses) []types.Response {
	var result []types.Response

	for code, ref := range responses {
		status, err := strconv.Atoi(code)
		if err != nil || status < 100 || status > 599 {
			a.analysis.Warnf("%s %s: response %q has no concrete status code, skipped", method, path, code)
			continue
		}
		if ref == nil || ref.Value == nil {
			continue
		}

		response := types.Response{
			Status: status,
			TSType: "{}",
		}
		if ref.Value.Description != nil {
			response.Description = *ref.Value.Description
		}

		if contentType := preferredResponseContentType(ref.Value.Content); contentType != "" {
			mt := ref.Value.Content[contentType]
			if isJSON(contentType) {
				response.Format = types.FormatJSON
				response.TSType = "unknown"
				if mt != nil && mt.Schema != nil {
					response.TSType = a.processor.SchemaToTSIndented(mt.Schema, responseDepth)
				}
			} else {
				response.Format = types.FormatText
				response.TSType = "string"
			}
		}

		result = append(result, response)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Status < result[j].Status
	})
	return result
}

// extractTypeDefinitions converts component schemas to TypeScript type definitions
func (a *analyzer) extractTypeDefinitions(schemas openapi3.Schemas) {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		// Skip internal OpenAPI types (those with $ in the name)
		if strings.Contains(name, "$") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string)
	for _, name := range names {
		ref := schemas[name]
		if ref == nil {
			continue
		}

		typeName := naming.TypeName(name)
		if previous, ok := seen[typeName]; ok {
			a.analysis.Warnf("schemas %q and %q both map to type %s, keeping the first", previous, name, typeName)
			continue
		}
		seen[typeName] = name

		def := types.TypeDefinition{
			Name:   typeName,
			TSType: a.processor.SchemaToTS(ref),
		}
		if ref.Value != nil {
			def.Description = ref.Value.Description
			def.Deprecated = ref.Value.Deprecated
		}
		a.analysis.TypeDefs = append(a.analysis.TypeDefs, def)
	}
}

func (a *analyzer) tagsAllowed(tags []string) bool {
	if len(a.opts.IncludeTags) > 0 && !anyTag(tags, a.opts.IncludeTags) {
		return false
	}
	return !anyTag(tags, a.opts.ExcludeTags)
}

func (a *analyzer) stripPrefix(path string) string {
	prefix := strings.TrimSuffix(a.opts.StripPrefix, "/")
	if prefix == "" || !strings.HasPrefix(path, prefix) {
		return path
	}
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return "/"
	}
	if !strings.HasPrefix(rest, "/") {
		// prefix matched only part of a segment
		return path
	}
	return rest
}

func anyTag(tags, wanted []string) bool {
	for _, tag := range tags {
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}

// preferredRequestContentType picks JSON, then form encodings, then the first content type by name
func preferredRequestContentType(content openapi3.Content) string {
	sorted := sortedContentTypes(content)
	if ct := preferredJSON(sorted); ct != "" {
		return ct
	}
	for _, want := range []string{"multipart/form-data", "application/x-www-form-urlencoded"} {
		if _, ok := content[want]; ok {
			return want
		}
	}
	if len(sorted) > 0 {
		return sorted[0]
	}
	return ""
}

// preferredResponseContentType picks JSON, then text; other media types carry no typed output
func preferredResponseContentType(content openapi3.Content) string {
	sorted := sortedContentTypes(content)
	if ct := preferredJSON(sorted); ct != "" {
		return ct
	}
	for _, ct := range sorted {
		if strings.HasPrefix(ct, "text/") {
			return ct
		}
	}
	return ""
}

func requestInputKey(contentType string) string {
	switch {
	case isJSON(contentType):
		return "json"
	case contentType == "multipart/form-data", contentType == "application/x-www-form-urlencoded":
		return "form"
	default:
		return ""
	}
}

// preferredJSON returns application/json, then the first +json type, then */*
func preferredJSON(sorted []string) string {
	best, bestRank := "", -1
	for _, ct := range sorted {
		rank := jsonRank(ct)
		if rank >= 0 && (bestRank < 0 || rank < bestRank) {
			best, bestRank = ct, rank
		}
	}
	return best
}

// jsonRank orders JSON media types by preference; -1 means not JSON
func jsonRank(contentType string) int {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch {
	case ct == "application/json":
		return 0
	case strings.HasSuffix(ct, "+json"):
		return 1
	case ct == "*/*":
		return 2
	default:
		return -1
	}
}

func isJSON(contentType string) bool {
	return jsonRank(contentType) >= 0
}

func sortedContentTypes(content openapi3.Content) []string {
	keys := make([]string, 0, len(content))
	for ct := range content {
		keys = append(keys, ct)
	}
	sort.Strings(keys)
	return keys
}
