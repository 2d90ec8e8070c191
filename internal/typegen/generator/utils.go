package generator

import (
	"sort"
	"strings"

	"github.com/barisgit/fluxgen/internal/typegen/naming"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// collectUsedTypes returns the defined type names referenced by the operations, sorted
func collectUsedTypes(ops []types.APIOperation, typeDefs []types.TypeDefinition) []string {
	known := make(map[string]bool, len(typeDefs))
	for _, def := range typeDefs {
		known[def.Name] = true
	}

	used := make(map[string]bool)
	visit := func(ts string) {
		for _, ident := range typeIdentifiers(ts) {
			if known[ident] {
				used[ident] = true
			}
		}
	}

	for _, op := range ops {
		for _, p := range op.Params {
			visit(p.TSType)
		}
		if op.Body != nil {
			visit(op.Body.TSType)
		}
		for _, r := range op.Responses {
			visit(r.TSType)
		}
	}

	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// typeIdentifiers lists identifiers in type position of a TypeScript type expression.
// String literals, comments and property keys are skipped.
func typeIdentifiers(ts string) []string {
	var idents []string

	for i := 0; i < len(ts); {
		c := ts[i]
		switch {
		case c == '\'' || c == '"':
			i++
			for i < len(ts) && ts[i] != c {
				if ts[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case c == '/' && i+1 < len(ts) && ts[i+1] == '*':
			end := strings.Index(ts[i+2:], "*/")
			if end < 0 {
				return idents
			}
			i += end + 4
		case isIdentStart(c):
			start := i
			for i < len(ts) && isIdentPart(ts[i]) {
				i++
			}
			if !isPropertyKey(ts[i:]) {
				idents = append(idents, ts[start:i])
			}
		default:
			i++
		}
	}

	return idents
}

// isPropertyKey reports whether the text following an identifier makes it a key
func isPropertyKey(rest string) bool {
	rest = strings.TrimPrefix(rest, "?")
	return strings.HasPrefix(rest, ":")
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// moduleFileName names a split module after its function in the configured case
func moduleFileName(fn string, fileCase naming.CaseType) string {
	if fileCase == naming.CamelCase || fileCase == naming.Unknown {
		return fn
	}
	return naming.NewCaseConverter().Convert(fn, fileCase)
}

// hasInput and hasQuery summarise the operations of one module for its imports
func hasInput(ops []OperationTemplateData) bool {
	for _, op := range ops {
		if op.HasInput {
			return true
		}
	}
	return false
}

func hasQuery(ops []OperationTemplateData, withInput bool) bool {
	for _, op := range ops {
		if op.IsQuery && (!withInput || op.HasInput) {
			return true
		}
	}
	return false
}

func hasMutation(ops []OperationTemplateData) bool {
	for _, op := range ops {
		if !op.IsQuery {
			return true
		}
	}
	return false
}

// importLines builds the import block of a binding module
func importLines(flavor string, ops []OperationTemplateData) []string {
	queries := hasQuery(ops, false)
	mutations := hasMutation(ops)

	honoTypes := []string{"ClientRequestOptions"}
	if hasInput(ops) {
		honoTypes = append(honoTypes, "InferRequestType")
	}

	var lines []string
	if flavor != FlavorRPC {
		honoTypes = append(honoTypes, "InferResponseType")
		lines = append(lines, "import { parseResponse } from 'hono/client'")
	}
	lines = append(lines, "import type { "+strings.Join(honoTypes, ", ")+" } from 'hono/client'")

	switch flavor {
	case FlavorReactQuery:
		lines = append(lines, tanstackImports("@tanstack/react-query", "useQuery", "useMutation", "UseQueryOptions", "UseMutationOptions", queries, mutations)...)
	case FlavorVueQuery:
		lines = append(lines, tanstackImports("@tanstack/vue-query", "useQuery", "useMutation", "UseQueryOptions", "UseMutationOptions", queries, mutations)...)
		if queries {
			if hasQuery(ops, true) {
				lines = append(lines, "import { computed, toValue } from 'vue'")
				lines = append(lines, "import type { MaybeRefOrGetter } from 'vue'")
			} else {
				lines = append(lines, "import { computed } from 'vue'")
			}
		}
	case FlavorSvelteQuery:
		lines = append(lines, tanstackImports("@tanstack/svelte-query", "createQuery", "createMutation", "CreateQueryOptions", "CreateMutationOptions", queries, mutations)...)
	case FlavorSWR:
		if queries {
			lines = append(lines, "import useSWR from 'swr'")
			lines = append(lines, "import type { SWRConfiguration } from 'swr'")
		}
		if mutations {
			lines = append(lines, "import useSWRMutation from 'swr/mutation'")
			lines = append(lines, "import type { SWRMutationConfiguration } from 'swr/mutation'")
		}
	}

	return append(lines, "import { client } from '../client'")
}

func tanstackImports(pkg, queryFn, mutationFn, queryType, mutationType string, queries, mutations bool) []string {
	var values, typeNames []string
	if queries {
		values = append(values, "queryOptions", queryFn)
		typeNames = append(typeNames, queryType)
	}
	if mutations {
		values = append(values, mutationFn)
		typeNames = append(typeNames, mutationType)
	}
	if len(values) == 0 {
		return nil
	}
	return []string{
		"import { " + strings.Join(values, ", ") + " } from '" + pkg + "'",
		"import type { " + strings.Join(typeNames, ", ") + " } from '" + pkg + "'",
	}
}
