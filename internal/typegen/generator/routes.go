package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/barisgit/fluxgen/internal/typegen/naming"
	"github.com/barisgit/fluxgen/internal/typegen/processor"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// inputGroups is the order of the keys of an endpoint's input
var inputGroups = []struct {
	key string
	in  string
}{
	{"param", types.InPath},
	{"query", types.InQuery},
	{"header", types.InHeader},
	{"cookie", types.InCookie},
}

// buildRoutes groups operations by route path, keeping the analysis order
func buildRoutes(ops []types.APIOperation) []RouteTemplateData {
	var routes []RouteTemplateData
	index := make(map[string]int)

	for _, op := range ops {
		i, ok := index[op.RoutePath]
		if !ok {
			i = len(routes)
			index[op.RoutePath] = i
			routes = append(routes, RouteTemplateData{Key: processor.Literal(op.RoutePath)})
		}
		routes[i].Methods = append(routes[i].Methods, RouteMethodTemplateData{
			Method:    strings.ToLower(op.Method),
			Endpoints: renderEndpoints(op),
		})
	}

	return routes
}

// renderEndpoints renders one endpoint per declared response, joined into a union
func renderEndpoints(op types.APIOperation) string {
	input := renderInput(op)

	responses := op.Responses
	if len(responses) == 0 {
		responses = []types.Response{{TSType: "{}"}}
	}

	entries := make([]string, 0, len(responses))
	for _, r := range responses {
		var b strings.Builder
		b.WriteString("{\n")
		fmt.Fprintf(&b, "%sinput: %s\n", indent(3), input)
		fmt.Fprintf(&b, "%soutput: %s\n", indent(3), r.TSType)
		fmt.Fprintf(&b, "%soutputFormat: %s\n", indent(3), outputFormat(r.Format))
		fmt.Fprintf(&b, "%sstatus: %s\n", indent(3), statusType(r.Status))
		b.WriteString(indent(2) + "}")
		entries = append(entries, b.String())
	}

	return strings.Join(entries, " | ")
}

// renderInput renders the input object the RPC client accepts for an operation
func renderInput(op types.APIOperation) string {
	if !op.HasInput() {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{\n")

	for _, group := range inputGroups {
		params := op.ParamsIn(group.in)
		if len(params) == 0 {
			continue
		}

		optional := "?"
		for _, p := range params {
			if p.Required {
				optional = ""
				break
			}
		}

		fmt.Fprintf(&b, "%s%s%s: {\n", indent(4), group.key, optional)
		for _, p := range params {
			b.WriteString(processor.JSDoc(p.Description, indent(5)))
			mark := "?"
			if p.Required {
				mark = ""
			}
			fmt.Fprintf(&b, "%s%s%s: %s\n", indent(5), naming.QuoteKey(p.Name), mark, p.TSType)
		}
		b.WriteString(indent(4) + "}\n")
	}

	if op.Body != nil {
		mark := "?"
		if op.Body.Required {
			mark = ""
		}
		fmt.Fprintf(&b, "%s%s%s: %s\n", indent(4), op.Body.InputKey, mark, op.Body.TSType)
	}

	b.WriteString(indent(3) + "}")
	return b.String()
}

func outputFormat(format string) string {
	if format == "" {
		return "string"
	}
	return processor.Literal(format)
}

func statusType(status int) string {
	if status == 0 {
		return "StatusCode"
	}
	return strconv.Itoa(status)
}

// needsStatusCode reports whether any operation falls back to the StatusCode type
func needsStatusCode(ops []types.APIOperation) bool {
	for _, op := range ops {
		if len(op.Responses) == 0 {
			return true
		}
	}
	return false
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
