package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/hooks"
	"github.com/barisgit/fluxgen/internal/pipeline"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
)

func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript bindings from an OpenAPI document",
		Long: `Analyze an OpenAPI 3.0 document and generate the route-type declaration, an RPC client
and query hooks for every configured flavor. With --check nothing is written; the command
fails when the files on disk differ from what would be generated.`,
		RunE: runGenerate,
	}

	addProjectFlags(cmd)
	cmd.Flags().Bool("check", false, "Fail if generated files are missing or out of date instead of writing them")

	return cmd
}

func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", config.DefaultPath, "Path to the configuration file")
	cmd.Flags().StringP("input", "i", "", "OpenAPI document path or URL (overrides the configuration)")
	cmd.Flags().StringP("output", "o", "", "Output directory (overrides the configuration)")
	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().Bool("quiet", false, "Suppress output (for use in build scripts)")
}

// loadProjectConfig reads the configuration file and applies flag overrides.
// A missing file is only an error when --config was given explicitly.
func loadProjectConfig(cmd *cobra.Command, out *console) (*config.ProjectConfig, string, error) {
	path, _ := cmd.Flags().GetString("config")
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	options := config.DefaultLoadOptions()
	options.Path = path
	options.AllowMissing = input != "" || !cmd.Flags().Changed("config")
	options.ValidateStructure = false
	options.Quiet = out.quiet || input != ""

	cfg, err := config.NewConfigManager(options).LoadConfig()
	if err != nil {
		return nil, "", err
	}

	if input != "" {
		cfg.Input = input
	}
	if output != "" {
		cfg.Output = output
	}

	if errs := config.Validate(cfg); errs.HasErrors() {
		return nil, "", fmt.Errorf("configuration validation failed: %w", errs)
	}

	out.debugf("Input: %s", cfg.Input)
	out.debugf("Output: %s", cfg.Output)
	out.debugf("Flavors: %s", strings.Join(cfg.Flavors, ", "))

	return cfg, path, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)
	check, _ := cmd.Flags().GetBool("check")

	cfg, _, err := loadProjectConfig(cmd, out)
	if err != nil {
		return err
	}

	_, err = generate(cmd.Context(), cfg, out, check)
	return err
}

// generate runs one generation and either writes the result or checks it against disk
func generate(ctx context.Context, cfg *config.ProjectConfig, out *console, check bool) (*pipeline.Result, error) {
	out.info(fmt.Sprintf("🔧 Generating bindings from %s...", cfg.Input))

	result, err := pipeline.Run(ctx, cfg)
	if err != nil {
		out.fail("❌ Failed to generate bindings")
		return nil, err
	}
	out.warnings(result.Warnings)

	if check {
		if err := result.Files.Check(cfg.Output); err != nil {
			var stale *generator.StaleFilesError
			if errors.As(err, &stale) {
				out.fail(fmt.Sprintf("❌ %d generated file(s) are out of date", len(stale.Paths())))
				for _, p := range stale.Paths() {
					out.fail("   " + p)
				}
			}
			return result, err
		}
		out.success(fmt.Sprintf("✅ %d generated file(s) in %s are up to date", len(result.Files), cfg.Output))
		return result, nil
	}

	written, err := result.Files.Write(cfg.Output)
	if err != nil {
		out.fail("❌ Failed to write generated files")
		return result, err
	}

	if len(written) == 0 {
		out.success(fmt.Sprintf("✅ Bindings in %s are already up to date", cfg.Output))
		return result, nil
	}

	for _, p := range written {
		out.debugf("wrote %s", p)
	}
	out.success(fmt.Sprintf("✅ Wrote %d file(s) to %s", len(written), cfg.Output))
	out.info(fmt.Sprintf("Generated %d operations and %d types", len(result.Analysis.Operations), len(result.Analysis.TypeDefs)))

	if len(cfg.Hooks.PostGenerate) > 0 {
		out.info("🪝 Running post-generate hooks...")
		runner := hooks.NewRunner(func(command, line string) {
			out.log(fmt.Sprintf("   %s", line), "")
		})
		if err := runner.Run(ctx, cfg.Hooks.PostGenerate, cfg.Output); err != nil {
			out.fail("❌ Post-generate hook failed")
			return result, err
		}
	}

	return result, nil
}
