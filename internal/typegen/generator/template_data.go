package generator

import (
	"strings"

	"github.com/barisgit/fluxgen/internal/typegen/naming"
	"github.com/barisgit/fluxgen/internal/typegen/processor"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// FileTemplateData contains data for one generated module
type FileTemplateData struct {
	Title      string
	Version    string
	BaseURL    string
	Imports    []string
	Operations []OperationTemplateData
	TypeDefs   []TypeTemplateData
	Routes     []RouteTemplateData
	// Exports lists the modules re-exported by an index.ts barrel
	Exports []string
}

// OperationTemplateData contains data for the bindings of one operation
type OperationTemplateData struct {
	Name        string
	Method      string
	MethodLower string
	Path        string
	RoutePath   string
	Doc         string
	// Call is the client method the bindings delegate to, e.g. client.pet[':petId'].$get
	Call          string
	ArgsType      string
	DataType      string
	VariablesType string
	// CallArgs is what the bindings pass as the first client argument
	CallArgs string
	HasInput bool
	IsQuery  bool

	HookName         string
	CreateName       string
	QueryKeyName     string
	QueryOptionsName string
	MutationKeyName  string
	SWRKeyName       string
	QueryKey         string
	MutationKey      string
}

// TypeTemplateData contains data for one exported type alias
type TypeTemplateData struct {
	Name   string
	Doc    string
	TSType string
}

// RouteTemplateData groups the methods of one path in the route-type declaration
type RouteTemplateData struct {
	Key     string
	Methods []RouteMethodTemplateData
}

// RouteMethodTemplateData is one method entry, already rendered as a union of endpoints
type RouteMethodTemplateData struct {
	Method    string
	Endpoints string
}

func newOperationTemplateData(op types.APIOperation) OperationTemplateData {
	methodLower := strings.ToLower(op.Method)
	call := processor.ClientAccessor(op.RoutePath) + ".$" + methodLower

	data := OperationTemplateData{
		Name:             op.FunctionName,
		Method:           op.Method,
		MethodLower:      methodLower,
		Path:             op.Path,
		RoutePath:        op.RoutePath,
		Doc:              operationDoc(op),
		Call:             call,
		ArgsType:         "InferRequestType<typeof " + call + ">",
		DataType:         "InferResponseType<typeof " + call + ">",
		VariablesType:    "void",
		CallArgs:         "undefined",
		HasInput:         op.HasInput(),
		IsQuery:          op.IsQuery,
		HookName:         naming.HookName(op.FunctionName),
		CreateName:       naming.CreateName(op.FunctionName),
		QueryKeyName:     naming.QueryKeyName(op.FunctionName),
		QueryOptionsName: naming.QueryOptionsName(op.FunctionName),
		MutationKeyName:  naming.MutationKeyName(op.FunctionName),
		SWRKeyName:       naming.SWRKeyName(op.FunctionName),
		MutationKey:      "[" + processor.Literal(op.Method) + ", " + processor.Literal(op.RoutePath) + "] as const",
	}

	if data.HasInput {
		data.VariablesType = data.ArgsType
		data.CallArgs = "args"
		data.QueryKey = "[" + processor.Literal(op.RoutePath) + ", args] as const"
	} else {
		data.QueryKey = "[" + processor.Literal(op.RoutePath) + "] as const"
	}

	return data
}

// operationDoc renders the JSDoc block placed above the exported binding of an operation
func operationDoc(op types.APIOperation) string {
	var sections []string
	if op.Summary != "" {
		sections = append(sections, strings.TrimSpace(op.Summary))
	}
	if desc := processor.CleanDescription(op.Description); desc != "" && desc != strings.TrimSpace(op.Summary) {
		sections = append(sections, desc)
	}

	signature := op.Method + " " + op.Path
	if op.Deprecated {
		signature += "\n@deprecated"
	}
	sections = append(sections, signature)

	return processor.JSDoc(strings.Join(sections, "\n\n"), "")
}

func newTypeTemplateData(def types.TypeDefinition) TypeTemplateData {
	text := processor.CleanDescription(def.Description)
	if def.Deprecated {
		text = strings.TrimSpace(text + "\n@deprecated")
	}
	return TypeTemplateData{
		Name:   def.Name,
		Doc:    processor.JSDoc(text, ""),
		TSType: def.TSType,
	}
}
