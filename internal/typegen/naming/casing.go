package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// CaseType represents different naming conventions
type CaseType int

const (
	Unknown            CaseType = iota
	CamelCase                   // camelCase
	PascalCase                  // PascalCase
	SnakeCase                   // snake_case
	KebabCase                   // kebab-case
	ScreamingSnakeCase          // SCREAMING_SNAKE_CASE
	DotCase                     // dot.case
)

var caseNames = map[string]CaseType{
	"camel":           CamelCase,
	"pascal":          PascalCase,
	"snake":           SnakeCase,
	"kebab":           KebabCase,
	"screaming-snake": ScreamingSnakeCase,
	"dot":             DotCase,
}

// ParseCase converts a configuration value such as "kebab" into a CaseType
func ParseCase(name string) (CaseType, error) {
	if name == "" {
		return CamelCase, nil
	}
	if c, ok := caseNames[strings.ToLower(name)]; ok {
		return c, nil
	}
	return Unknown, fmt.Errorf("unknown case %q", name)
}

// CaseNames returns the accepted configuration values for ParseCase
func CaseNames() []string {
	return []string{"camel", "pascal", "snake", "kebab", "screaming-snake", "dot"}
}

var separatorRegex = regexp.MustCompile(`[_\-.\s]+`)

// CaseConverter converts identifiers between naming conventions
type CaseConverter struct{}

// NewCaseConverter creates a new case converter
func NewCaseConverter() *CaseConverter {
	return &CaseConverter{}
}

// Convert converts a string from one case to another
func (c *CaseConverter) Convert(s string, targetCase CaseType) string {
	if s == "" {
		return s
	}

	words := c.splitIntoWords(s)
	if len(words) == 0 {
		return s
	}

	switch targetCase {
	case CamelCase:
		return c.toCamelCase(words)
	case PascalCase:
		return c.toPascalCase(words)
	case SnakeCase:
		return strings.Join(words, "_")
	case KebabCase:
		return strings.Join(words, "-")
	case ScreamingSnakeCase:
		return strings.ToUpper(strings.Join(words, "_"))
	case DotCase:
		return strings.Join(words, ".")
	default:
		return s
	}
}

// splitIntoWords breaks a string into lower-cased words regardless of the input case
func (c *CaseConverter) splitIntoWords(s string) []string {
	var words []string
	for _, chunk := range separatorRegex.Split(s, -1) {
		words = append(words, c.splitCamelCase(chunk)...)
	}

	var result []string
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word != "" {
			result = append(result, strings.ToLower(word))
		}
	}
	return result
}

// splitCamelCase splits camelCase or PascalCase strings into words.
// Runs of capitals stay together: "HTTPServer" -> "HTTP", "Server".
func (c *CaseConverter) splitCamelCase(s string) []string {
	var words []string
	var current []rune

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				if len(current) > 0 {
					words = append(words, string(current))
					current = current[:0]
				}
			}
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	return words
}

func (c *CaseConverter) toCamelCase(words []string) string {
	var result strings.Builder
	for i, word := range words {
		if i == 0 {
			result.WriteString(word)
		} else {
			result.WriteString(c.capitalize(word))
		}
	}
	return result.String()
}

func (c *CaseConverter) toPascalCase(words []string) string {
	var result strings.Builder
	for _, word := range words {
		result.WriteString(c.capitalize(word))
	}
	return result.String()
}

func (c *CaseConverter) capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// IsValidJSIdentifier checks if a string is a valid JavaScript identifier
func IsValidJSIdentifier(s string) bool {
	if s == "" {
		return false
	}

	firstChar := rune(s[0])
	if !((firstChar >= 'a' && firstChar <= 'z') ||
		(firstChar >= 'A' && firstChar <= 'Z') ||
		firstChar == '_' || firstChar == '$') {
		return false
	}

	for _, char := range s[1:] {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_' || char == '$') {
			return false
		}
	}

	return true
}

// QuoteKey returns key unchanged when it is a valid identifier, single-quoted otherwise
func QuoteKey(key string) string {
	if IsValidJSIdentifier(key) {
		return key
	}
	return "'" + strings.ReplaceAll(strings.ReplaceAll(key, `\`, `\\`), "'", `\'`) + "'"
}
