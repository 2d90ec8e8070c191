package types

import "fmt"

// Parameter locations as they appear in an OpenAPI document
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Output formats understood by the RPC client
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Parameter represents a single operation parameter converted to TypeScript
type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	TSType      string `json:"type"`
}

// RequestBody represents the chosen request body media type of an operation
type RequestBody struct {
	ContentType string `json:"contentType"`
	TSType      string `json:"type"`
	Required    bool   `json:"required"`
	// InputKey is the key the RPC client expects the body under ("json" or "form")
	InputKey string `json:"inputKey"`
}

// Response represents one declared response of an operation
type Response struct {
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	TSType      string `json:"type"`
	Format      string `json:"format,omitempty"`
}

// APIOperation represents a discovered API operation
type APIOperation struct {
	Method       string       `json:"method"`
	Path         string       `json:"path"`
	RoutePath    string       `json:"routePath"`
	OperationID  string       `json:"operationId,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Description  string       `json:"description,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Deprecated   bool         `json:"deprecated,omitempty"`
	FunctionName string       `json:"functionName"`
	Params       []Parameter  `json:"params,omitempty"`
	Body         *RequestBody `json:"body,omitempty"`
	Responses    []Response   `json:"responses,omitempty"`
	IsQuery      bool         `json:"isQuery"`
}

// ParamsIn returns the parameters declared in the given location, in declaration order
func (op APIOperation) ParamsIn(in string) []Parameter {
	var params []Parameter
	for _, p := range op.Params {
		if p.In == in {
			params = append(params, p)
		}
	}
	return params
}

// HasInput reports whether the operation takes any parameters or a body
func (op APIOperation) HasInput() bool {
	return len(op.Params) > 0 || op.Body != nil
}

// TypeDefinition represents a component schema converted to a TypeScript type alias
type TypeDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TSType      string `json:"type"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// APIAnalysis contains the complete analysis results
type APIAnalysis struct {
	Title      string
	Version    string
	Operations []APIOperation
	TypeDefs   []TypeDefinition
	Warnings   []string
}

// Warnf records a non-fatal problem found while analyzing a document
func (a *APIAnalysis) Warnf(format string, args ...interface{}) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}
