package generator

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/barisgit/fluxgen/internal/typegen/naming"
	"github.com/barisgit/fluxgen/internal/typegen/types"
)

// Binding flavors and extra artifacts a generation run can emit
const (
	FlavorRPC         = "rpc"
	FlavorReactQuery  = "react-query"
	FlavorVueQuery    = "vue-query"
	FlavorSvelteQuery = "svelte-query"
	FlavorSWR         = "swr"
	FlavorManifest    = "manifest"
)

// Files always emitted next to the bindings
const (
	TypesFile    = "types.ts"
	RoutesFile   = "routes.ts"
	ClientFile   = "client.ts"
	ManifestFile = "manifest.json"
	IndexFile    = "index.ts"
)

// Banner is the first line of every generated TypeScript module
const Banner = "// Code generated by fluxgen. DO NOT EDIT."

// Options controls what Generate renders
type Options struct {
	// Flavors lists the binding flavors to emit; empty means DefaultFlavors
	Flavors []string
	// Split writes one module per operation plus an index.ts barrel
	Split bool
	// FileCase names split modules; CamelCase keeps the function name as is
	FileCase naming.CaseType
	// BaseURL is the default base URL baked into client.ts
	BaseURL string
}

// SupportedFlavors returns every flavor Generate understands
func SupportedFlavors() []string {
	return []string{
		FlavorRPC,         // Plain async functions over the RPC client
		FlavorReactQuery,  // TanStack React Query hooks
		FlavorVueQuery,    // TanStack Vue Query composables
		FlavorSvelteQuery, // TanStack Svelte Query stores
		FlavorSWR,         // SWR hooks
		FlavorManifest,    // manifest.json describing every emitted function
	}
}

// DefaultFlavors is used when no flavor is configured
func DefaultFlavors() []string {
	return SupportedFlavors()
}

// ValidateFlavor validates if the flavor is supported
func ValidateFlavor(flavor string) error {
	supported := SupportedFlavors()
	for _, f := range supported {
		if f == flavor {
			return nil
		}
	}
	return fmt.Errorf("unsupported flavor '%s', supported flavors: %v", flavor, supported)
}

// Generate renders the shared modules and every requested flavor for an analysis
func Generate(ctx context.Context, analysis *types.APIAnalysis, opts Options) (Files, error) {
	if analysis == nil {
		return nil, fmt.Errorf("nothing to generate: analysis is nil")
	}

	flavors, err := normalizeFlavors(opts.Flavors)
	if err != nil {
		return nil, err
	}
	if opts.FileCase == naming.Unknown {
		opts.FileCase = naming.CamelCase
	}

	r, err := newRenderer(analysis, opts)
	if err != nil {
		return nil, err
	}

	jobs := []func() (Files, error){
		r.renderTypes,
		r.renderRoutes,
		r.renderClient,
	}
	for _, flavor := range flavors {
		flavor := flavor
		if flavor == FlavorManifest {
			jobs = append(jobs, func() (Files, error) { return r.renderManifest(flavors) })
			continue
		}
		jobs = append(jobs, func() (Files, error) { return r.renderBindings(flavor) })
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errChan = make(chan error, len(jobs))
		result  = make(Files)
	)

	for _, job := range jobs {
		wg.Add(1)
		go func(job func() (Files, error)) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errChan <- err
				return
			}

			files, err := job()
			if err != nil {
				errChan <- err
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for name, content := range files {
				result[name] = content
			}
		}(job)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// normalizeFlavors validates flavors and drops duplicates, keeping the configured order
func normalizeFlavors(flavors []string) ([]string, error) {
	if len(flavors) == 0 {
		return DefaultFlavors(), nil
	}

	seen := make(map[string]bool, len(flavors))
	var out []string
	for _, flavor := range flavors {
		if err := ValidateFlavor(flavor); err != nil {
			return nil, err
		}
		if seen[flavor] {
			continue
		}
		seen[flavor] = true
		out = append(out, flavor)
	}
	return out, nil
}

// modulePath names the file holding one operation in split mode
func modulePath(flavor, fileName string) string {
	return path.Join(flavor, fileName+".ts")
}
