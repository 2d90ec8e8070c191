package naming

import (
	"strings"
	"unicode"
)

// OperationName derives the binding function name from an HTTP method and path.
// The method is lower-cased; each path segment loses its parameter markers and is
// split into alphanumeric words whose first letter is upper-cased:
//
//	GET /pet/findByStatus        -> getPetFindByStatus
//	GET /pet/{petId}             -> getPetPetId
//	GET /2010-04-01/Calls.json   -> get20100401CallsJson
func OperationName(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for _, word := range pathWords(path) {
		b.WriteString(UpperFirst(word))
	}
	if b.Len() == len(method) {
		b.WriteString("Index")
	}
	return b.String()
}

// pathWords splits a path into its alphanumeric words, dropping parameter markers
func pathWords(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return !isAlnum(r)
	})
}

// reservedTypeNames are identifiers the generated modules declare or use unqualified
var reservedTypeNames = map[string]bool{
	"AppType":    true,
	"Blob":       true,
	"Hono":       true,
	"Record":     true,
	"Schema":     true,
	"StatusCode": true,
}

// TypeName sanitizes a component schema name into an exported TypeScript identifier
func TypeName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !isAlnum(r)
	})
	var b strings.Builder
	for _, word := range words {
		b.WriteString(UpperFirst(word))
	}
	out := b.String()
	if out == "" {
		return "Unnamed"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	if reservedTypeNames[out] {
		out += "Type"
	}
	return out
}

// HookName is the React, Vue and SWR hook name for an operation function
func HookName(fn string) string {
	return "use" + UpperFirst(fn)
}

// CreateName is the Svelte Query factory name for an operation function
func CreateName(fn string) string {
	return "create" + UpperFirst(fn)
}

// QueryKeyName is the TanStack query key function name
func QueryKeyName(fn string) string {
	return "get" + UpperFirst(fn) + "QueryKey"
}

// QueryOptionsName is the TanStack queryOptions factory name
func QueryOptionsName(fn string) string {
	return "get" + UpperFirst(fn) + "QueryOptions"
}

// MutationKeyName is the mutation key function name shared by TanStack and SWR bindings
func MutationKeyName(fn string) string {
	return "get" + UpperFirst(fn) + "MutationKey"
}

// SWRKeyName is the SWR key function name
func SWRKeyName(fn string) string {
	return "get" + UpperFirst(fn) + "Key"
}

// UpperFirst upper-cases the first rune and keeps the rest untouched
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
