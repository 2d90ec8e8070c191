package generator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/barisgit/fluxgen/internal/openapi"
	"github.com/barisgit/fluxgen/internal/testassets"
	"github.com/barisgit/fluxgen/internal/typegen/analyzer"
	"github.com/barisgit/fluxgen/internal/typegen/naming"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

func analyze(t *testing.T, data []byte, location string) *types.APIAnalysis {
	t.Helper()
	doc, err := openapi.LoadData(context.Background(), data, location)
	if err != nil {
		t.Fatalf("Failed to load %s: %v", location, err)
	}
	analysis, err := analyzer.Analyze(doc.T, analyzer.Options{})
	if err != nil {
		t.Fatalf("Failed to analyze %s: %v", location, err)
	}
	return analysis
}

func generate(t *testing.T, analysis *types.APIAnalysis, opts Options) Files {
	t.Helper()
	files, err := Generate(context.Background(), analysis, opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return files
}

func TestGenerateDefaultLayout(t *testing.T) {
	files := generate(t, analyze(t, testassets.Petstore(), "petstore.yaml"), Options{BaseURL: "/api/v3"})

	expected := []string{
		"client.ts",
		"manifest.json",
		"react-query/index.ts",
		"routes.ts",
		"rpc/index.ts",
		"svelte-query/index.ts",
		"swr/index.ts",
		"types.ts",
		"vue-query/index.ts",
	}

	paths := files.Paths()
	if strings.Join(paths, ",") != strings.Join(expected, ",") {
		t.Fatalf("Expected files %v, got %v", expected, paths)
	}

	for _, p := range paths {
		if strings.HasSuffix(p, ".ts") && !strings.HasPrefix(string(files[p]), Banner+"\n") {
			t.Errorf("%s does not start with the generated-code banner", p)
		}
	}

	t.Logf("✅ Generated %d files", len(paths))
}

func TestGenerateOneFunctionPerOperation(t *testing.T) {
	analysis := analyze(t, testassets.Petstore(), "petstore.yaml")
	files := generate(t, analysis, Options{})

	for _, op := range analysis.Operations {
		checks := map[string]string{
			"rpc/index.ts":          "export async function " + op.FunctionName + "(",
			"react-query/index.ts":  "export function " + naming.HookName(op.FunctionName) + "(",
			"vue-query/index.ts":    "export function " + naming.HookName(op.FunctionName) + "(",
			"svelte-query/index.ts": "export function " + naming.CreateName(op.FunctionName) + "(",
			"swr/index.ts":          "export function " + naming.HookName(op.FunctionName) + "(",
		}

		for file, decl := range checks {
			if n := strings.Count(string(files[file]), decl); n != 1 {
				t.Errorf("%s: expected exactly one %q, found %d", file, decl, n)
			}
		}
	}

	for file, prefix := range map[string]string{
		"rpc/index.ts":          "export async function ",
		"react-query/index.ts":  "export function use",
		"svelte-query/index.ts": "export function create",
	} {
		if n := strings.Count(string(files[file]), prefix); n != len(analysis.Operations) {
			t.Errorf("%s: expected %d bindings, found %d", file, len(analysis.Operations), n)
		}
	}
}

func TestGenerateHooksShareKeyDerivation(t *testing.T) {
	analysis := analyze(t, testassets.Petstore(), "petstore.yaml")
	files := generate(t, analysis, Options{})

	react := string(files["react-query/index.ts"])
	vue := string(files["vue-query/index.ts"])
	svelte := string(files["svelte-query/index.ts"])
	swr := string(files["swr/index.ts"])

	for _, op := range analysis.Operations {
		fn := op.FunctionName
		if op.IsQuery {
			args := ""
			vueArgs := ""
			if op.HasInput() {
				args = "args"
				vueArgs = "toValue(args)"
			}
			keyCall := naming.QueryKeyName(fn) + "(" + args + ")"
			for name, content := range map[string]string{"react": react, "vue": vue, "svelte": svelte} {
				if !strings.Contains(content, "queryKey: "+keyCall+",") {
					t.Errorf("%s %s: query options do not use %s", name, fn, keyCall)
				}
			}
			if !strings.Contains(react, "..."+naming.QueryOptionsName(fn)+"(") {
				t.Errorf("react %s: hook does not use %s", fn, naming.QueryOptionsName(fn))
			}
			if !strings.Contains(vue, "queryKey: computed(() => "+naming.QueryKeyName(fn)+"("+vueArgs+")),") {
				t.Errorf("vue %s: composable does not derive its key from %s", fn, naming.QueryKeyName(fn))
			}
			if !strings.Contains(swr, "isEnabled ? "+naming.SWRKeyName(fn)+"("+args+") : null") {
				t.Errorf("swr %s: hook does not use %s", fn, naming.SWRKeyName(fn))
			}
			continue
		}

		mutationKey := "mutationKey: " + naming.MutationKeyName(fn) + "(),"
		for name, content := range map[string]string{"react": react, "vue": vue, "svelte": svelte} {
			if !strings.Contains(content, mutationKey) {
				t.Errorf("%s %s: mutation does not use %s", name, fn, naming.MutationKeyName(fn))
			}
		}
		if !strings.Contains(swr, "useSWRMutation(\n    "+naming.MutationKeyName(fn)+"(),") {
			t.Errorf("swr %s: mutation does not use %s", fn, naming.MutationKeyName(fn))
		}
	}
}

func TestGenerateQueryKeys(t *testing.T) {
	files := generate(t, analyze(t, testassets.Petstore(), "petstore.yaml"), Options{})
	react := string(files["react-query/index.ts"])

	expected := []string{
		"export function getGetPetPetIdQueryKey(args: InferRequestType<typeof client.pet[':petId'].$get>) {\n  return ['/pet/:petId', args] as const\n}",
		"export function getGetHealthQueryKey() {\n  return ['/health'] as const\n}",
		"export function getDeletePetPetIdMutationKey() {\n  return ['DELETE', '/pet/:petId'] as const\n}",
	}
	for _, want := range expected {
		if !strings.Contains(react, want) {
			t.Errorf("Expected react-query bindings to contain:\n%s", want)
		}
	}

	if !strings.Contains(react, "init: { ...clientOptions?.init, signal }") {
		t.Error("Expected the abort signal to be forwarded to the client")
	}
}

func TestGenerateRPCBindings(t *testing.T) {
	files := generate(t, analyze(t, testassets.Petstore(), "petstore.yaml"), Options{})
	rpc := string(files["rpc/index.ts"])

	expected := []string{
		"import type { ClientRequestOptions, InferRequestType } from 'hono/client'\nimport { client } from '../client'\n",
		`/**
 * Find pet by ID
 *
 * GET /pet/{petId}
 */
export async function getPetPetId(args: InferRequestType<typeof client.pet[':petId'].$get>, options?: ClientRequestOptions) {
  return client.pet[':petId'].$get(args, options)
}
`,
		"export async function getHealth(options?: ClientRequestOptions) {\n  return client.health.$get(undefined, options)\n}\n",
		" * GET /pet/findByTags\n * @deprecated\n */",
	}
	for _, want := range expected {
		if !strings.Contains(rpc, want) {
			t.Errorf("Expected rpc bindings to contain:\n%s\n\ngot:\n%s", want, rpc)
		}
	}
}

func TestGenerateRoutes(t *testing.T) {
	files := generate(t, analyze(t, testassets.Petstore(), "petstore.yaml"), Options{})
	routes := string(files["routes.ts"])

	expected := []string{
		"import type { Hono } from 'hono'\nimport type { StatusCode } from 'hono/utils/http-status'\nimport type { ApiResponse, Pet } from './types'\n",
		`  '/pet/:petId': {
    $get: {
      input: {
        param: {
          /**
           * ID of pet
           */
          petId: number
        }
      }
      output: Pet
      outputFormat: 'json'
      status: 200
    } | {
      input: {
        param: {
          /**
           * ID of pet
           */
          petId: number
        }
      }
      output: {}
      outputFormat: string
      status: 404
    }
    $delete: {
      input: {
        param: {
          /**
           * ID of pet
           */
          petId: number
        }
        header?: {
          api_key?: string
        }
      }
      output: {}
      outputFormat: string
      status: 400
    }
  }`,
		"    $get: {\n      input: {}\n      output: string\n      outputFormat: 'text'\n      status: 200\n    }",
		"      output: {}\n      outputFormat: string\n      status: StatusCode\n",
		"        form?: {\n          file?: Blob\n        }\n",
		"export type AppType = Hono<{}, Schema, '/'>\n",
	}
	for _, want := range expected {
		if !strings.Contains(routes, want) {
			t.Errorf("Expected routes.ts to contain:\n%s\n\ngot:\n%s", want, routes)
		}
	}
}

func TestGenerateAccessorsMatchRoutes(t *testing.T) {
	analysis := analyze(t, testassets.Accounts(), "accounts.json")
	files := generate(t, analysis, Options{})
	routes := string(files["routes.ts"])

	for _, op := range analysis.Operations {
		data := newOperationTemplateData(op)
		if !strings.Contains(routes, "'"+op.RoutePath+"': {") {
			t.Errorf("routes.ts has no entry for %s", op.RoutePath)
		}
		for _, file := range []string{"rpc/index.ts", "react-query/index.ts", "vue-query/index.ts", "svelte-query/index.ts", "swr/index.ts"} {
			if !strings.Contains(string(files[file]), "InferRequestType<typeof "+data.Call+">") {
				t.Errorf("%s: %s is not typed through %s", file, op.FunctionName, data.Call)
			}
		}
	}

	if !strings.Contains(string(files["rpc/index.ts"]), "client['2010-04-01']['Accounts.json'].$post(args, options)") {
		t.Error("Expected quoted accessor for the Twilio-style path")
	}
	if !strings.Contains(routes, "        form?: {\n") {
		t.Error("Expected urlencoded body under form")
	}
	if !strings.Contains(string(files["types.ts"]), "export type ApiV2010Account = {") {
		t.Error("Expected sanitized component type name")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	analysis := analyze(t, testassets.Petstore(), "petstore.yaml")

	first := generate(t, analysis, Options{Split: true})
	for i := 0; i < 5; i++ {
		next := generate(t, analysis, Options{Split: true})
		if len(next) != len(first) {
			t.Fatalf("Run %d produced %d files, first run %d", i, len(next), len(first))
		}
		for p, content := range first {
			if string(next[p]) != string(content) {
				t.Fatalf("Run %d produced different content for %s", i, p)
			}
		}
	}

	t.Log("✅ Output is byte-identical across runs")
}

func TestGenerateSplit(t *testing.T) {
	analysis := analyze(t, testassets.Petstore(), "petstore.yaml")

	files := generate(t, analysis, Options{Split: true, Flavors: []string{FlavorRPC, FlavorSWR}})
	if _, ok := files["rpc/getPetPetId.ts"]; !ok {
		t.Fatalf("Expected rpc/getPetPetId.ts, got %v", files.Paths())
	}
	if _, ok := files["react-query/index.ts"]; ok {
		t.Error("Did not expect react-query output")
	}
	if _, ok := files[ManifestFile]; ok {
		t.Error("Did not expect a manifest")
	}

	index := string(files["rpc/index.ts"])
	if !strings.Contains(index, "export * from './getPetPetId'\n") {
		t.Errorf("Expected barrel export, got:\n%s", index)
	}
	if n := strings.Count(index, "export * from"); n != len(analysis.Operations) {
		t.Errorf("Expected %d barrel exports, got %d", len(analysis.Operations), n)
	}

	// A module with only a mutation imports only the mutation helpers
	swrDelete := string(files["swr/deletePetPetId.ts"])
	if strings.Contains(swrDelete, "import useSWR from 'swr'") || !strings.Contains(swrDelete, "import useSWRMutation from 'swr/mutation'") {
		t.Errorf("Unexpected imports in split module:\n%s", swrDelete)
	}

	kebab := generate(t, analysis, Options{Split: true, Flavors: []string{FlavorRPC}, FileCase: naming.KebabCase})
	if _, ok := kebab["rpc/get-pet-pet-id.ts"]; !ok {
		t.Errorf("Expected kebab-case module, got %v", kebab.Paths())
	}
}

func TestGenerateManifest(t *testing.T) {
	analysis := analyze(t, testassets.Petstore(), "petstore.yaml")
	files := generate(t, analysis, Options{Flavors: []string{FlavorReactQuery, FlavorManifest}})

	var manifest Manifest
	if err := json.Unmarshal(files[ManifestFile], &manifest); err != nil {
		t.Fatalf("Invalid manifest: %v", err)
	}

	if len(manifest.Operations) != len(analysis.Operations) {
		t.Fatalf("Expected %d operations, got %d", len(analysis.Operations), len(manifest.Operations))
	}
	if strings.Join(manifest.Flavors, ",") != FlavorReactQuery {
		t.Errorf("Unexpected flavors %v", manifest.Flavors)
	}

	for _, op := range manifest.Operations {
		if op.FunctionName != "getPetPetId" {
			continue
		}
		got := strings.Join(op.Exports[FlavorReactQuery], ",")
		if got != "getGetPetPetIdQueryKey,getGetPetPetIdQueryOptions,useGetPetPetId" {
			t.Errorf("Unexpected exports %s", got)
		}
		if op.Kind != "query" || op.OperationID != "getPetById" {
			t.Errorf("Unexpected manifest entry %+v", op)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	analysis := analyze(t, testassets.Petstore(), "petstore.yaml")

	if _, err := Generate(context.Background(), analysis, Options{Flavors: []string{"angular"}}); err == nil {
		t.Error("Expected error for unsupported flavor")
	}

	if _, err := Generate(context.Background(), nil, Options{}); err == nil {
		t.Error("Expected error for nil analysis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, analysis, Options{}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestValidateFlavor(t *testing.T) {
	for _, flavor := range SupportedFlavors() {
		if err := ValidateFlavor(flavor); err != nil {
			t.Errorf("Expected %s to be supported: %v", flavor, err)
		}
	}
	if err := ValidateFlavor("basic"); err == nil {
		t.Error("Expected error for unknown flavor")
	}
}

func TestTypeIdentifiers(t *testing.T) {
	tests := map[string]string{
		"Pet":                                  "Pet",
		"Pet[] | null":                         "Pet,null",
		"'Pet' | Tag":                          "Tag",
		"{\n  Pet?: Category\n  id: number\n}": "Category,number",
		"Record<string, Order>":                "Record,string,Order",
	}

	for in, want := range tests {
		if got := strings.Join(typeIdentifiers(in), ","); got != want {
			t.Errorf("typeIdentifiers(%q) = %q, want %q", in, got, want)
		}
	}
}
