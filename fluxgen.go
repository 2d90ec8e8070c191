// Package fluxgen generates typed TypeScript bindings from OpenAPI documents.
// Go servers built with Huma can emit their own bindings without writing a document to disk:
// import github.com/barisgit/fluxgen and call GenerateFromHuma or AddGenerateCommand.
package fluxgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/openapi"
	"github.com/barisgit/fluxgen/internal/pipeline"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
)

// Re-export the configuration and result types
type Config = config.ProjectConfig
type Result = pipeline.Result
type StaleFilesError = generator.StaleFilesError

// DefaultConfig returns the configuration used when no fluxgen.yaml exists
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// Generate loads cfg.Input and renders bindings in memory
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	return pipeline.Run(ctx, cfg)
}

// GenerateFromHuma renders bindings for the operations registered on a Huma API.
// cfg.Input is ignored.
func GenerateFromHuma(ctx context.Context, api huma.API, cfg *Config) (*Result, error) {
	if api == nil {
		return nil, fmt.Errorf("failed to get API instance")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	doc, err := openapi.FromHuma(ctx, api)
	if err != nil {
		return nil, err
	}
	return pipeline.Build(ctx, doc, cfg)
}

// AddGenerateCommand adds a "bindings" command to any cobra CLI. It generates
// bindings for the API apiProvider returns, without starting the server.
func AddGenerateCommand(rootCmd *cobra.Command, apiProvider func() huma.API) {
	bindingsCmd := &cobra.Command{
		Use:   "bindings",
		Short: "Generate TypeScript bindings for this API",
		Long:  "Generate the route-type declaration, RPC client and query hooks for this API without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bindingsConfig(cmd)
			if err != nil {
				return err
			}
			check, _ := cmd.Flags().GetBool("check")
			specPath, _ := cmd.Flags().GetString("spec")

			api := apiProvider()
			result, err := GenerateFromHuma(cmd.Context(), api, cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, warning := range result.Warnings {
				fmt.Fprintf(w, "⚠️  %s\n", warning)
			}

			if check {
				if err := result.Files.Check(cfg.Output); err != nil {
					var stale *StaleFilesError
					if errors.As(err, &stale) {
						fmt.Fprintf(w, "❌ Out of date: %s\n", strings.Join(stale.Paths(), ", "))
					}
					return err
				}
				fmt.Fprintf(w, "✅ Bindings in %s are up to date\n", cfg.Output)
				return nil
			}

			written, err := result.Files.Write(cfg.Output)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "✅ Wrote %d of %d file(s) to %s\n", len(written), len(result.Files), cfg.Output)

			if specPath != "" {
				if err := writeSpec(api, specPath); err != nil {
					return err
				}
				fmt.Fprintf(w, "✅ OpenAPI document saved to %s\n", specPath)
			}

			fmt.Fprintf(w, "🛣️  Found %d API routes\n", result.Document.CountOperations())
			return nil
		},
	}

	bindingsCmd.Flags().StringP("config", "c", config.DefaultPath, "Configuration file; used when it exists")
	bindingsCmd.Flags().StringP("output", "o", "", "Output directory (overrides the configuration)")
	bindingsCmd.Flags().StringSlice("flavors", nil, "Flavors to generate (overrides the configuration)")
	bindingsCmd.Flags().Bool("split", false, "Write one file per operation")
	bindingsCmd.Flags().Bool("check", false, "Fail if generated files are out of date instead of writing them")
	bindingsCmd.Flags().String("spec", "", "Also save the OpenAPI document to this path (.json or .yaml)")

	rootCmd.AddCommand(bindingsCmd)
}

func bindingsConfig(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")

	options := config.DefaultLoadOptions()
	options.Path = path
	options.AllowMissing = true
	options.ValidateStructure = false
	options.Quiet = true

	cfg, err := config.NewConfigManager(options).LoadConfig()
	if err != nil {
		return nil, err
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Output = output
	}
	if flavors, _ := cmd.Flags().GetStringSlice("flavors"); len(flavors) > 0 {
		cfg.Flavors = flavors
	}
	if cmd.Flags().Changed("split") {
		cfg.Split, _ = cmd.Flags().GetBool("split")
	}

	for i, flavor := range cfg.Flavors {
		if err := generator.ValidateFlavor(flavor); err != nil {
			return nil, fmt.Errorf("flavors[%d]: %w", i, err)
		}
	}
	return cfg, nil
}

func writeSpec(api huma.API, path string) error {
	var (
		spec []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err = openapi.SpecYAML(api)
	default:
		spec, err = openapi.SpecJSON(api)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, spec, 0644); err != nil {
		return fmt.Errorf("failed to save OpenAPI document to %s: %w", path, err)
	}
	return nil
}
