package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage project configuration",
		Long:  "Validate, view, and create the fluxgen configuration file",
	}

	cmd.AddCommand(configValidateCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())

	return cmd
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long:  "Validate the syntax and structure of a fluxgen configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [config-file]",
		Short: "Show configuration information",
		Long:  "Display a summary of the configuration with defaults and environment overrides applied",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}

	cmd.Flags().Bool("verbose", false, "Print the effective configuration as YAML")

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Initialize a new configuration file",
		Long:  "Create a new fluxgen.yaml, prompting for the main settings when run in a terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolP("yes", "y", false, "Accept defaults without prompting")
	cmd.Flags().String("input", "", "OpenAPI document path or URL")
	cmd.Flags().String("output", "", "Output directory")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	configPath := getConfigPath(args)

	fmt.Fprintf(w, "🔍 Validating configuration file: %s\n", configPath)

	if err := config.ValidateConfigFile(configPath); err != nil {
		fmt.Fprintf(w, "❌ Configuration validation failed:\n%v\n", err)
		return err
	}

	fmt.Fprintf(w, "✅ Configuration is valid!\n")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	configPath := getConfigPath(args)
	verbose, _ := cmd.Flags().GetBool("verbose")

	info, err := config.GetConfigInfo(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(w, "%s\n", info.String())

	if verbose {
		options := config.DefaultLoadOptions()
		options.Quiet = true
		cfg, err := config.NewConfigManager(options).LoadConfigFromPath(configPath)
		if err != nil {
			return fmt.Errorf("failed to load full configuration: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}

		fmt.Fprintf(w, "\n📝 Effective Configuration:\n```yaml\n%s```\n", string(data))
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	configPath := getConfigPath(args)
	force, _ := cmd.Flags().GetBool("force")
	yes, _ := cmd.Flags().GetBool("yes")

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", configPath)
		}
	}

	cfg := config.DefaultConfig()
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		cfg.Input = input
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Output = output
	}

	if !yes && isInteractive() {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if errs := config.Validate(cfg); errs.HasErrors() {
		return fmt.Errorf("configuration validation failed: %w", errs)
	}

	if err := config.WriteConfig(configPath, cfg, force); err != nil {
		return err
	}

	fmt.Fprintf(w, "✅ Created configuration file: %s\n", configPath)
	fmt.Fprintf(w, "   Input: %s\n", cfg.Input)
	fmt.Fprintf(w, "   Output: %s\n", cfg.Output)
	fmt.Fprintf(w, "   Flavors: %s\n", strings.Join(cfg.Flavors, ", "))

	return nil
}

// promptConfig asks for the settings most projects change, starting from cfg's values
func promptConfig(cfg *config.ProjectConfig) error {
	inputPrompt := &survey.Input{
		Message: "OpenAPI document (path or URL):",
		Default: cfg.Input,
	}
	if err := survey.AskOne(inputPrompt, &cfg.Input, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	outputPrompt := &survey.Input{
		Message: "Output directory:",
		Default: cfg.Output,
	}
	if err := survey.AskOne(outputPrompt, &cfg.Output, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	flavorPrompt := &survey.MultiSelect{
		Message: "Binding flavors:",
		Options: generator.SupportedFlavors(),
		Default: cfg.Flavors,
		Description: func(value string, index int) string {
			return flavorDescriptions[value]
		},
	}
	if err := survey.AskOne(flavorPrompt, &cfg.Flavors, survey.WithValidator(survey.MinItems(1))); err != nil {
		return err
	}

	splitPrompt := &survey.Confirm{
		Message: "Write one file per operation?",
		Default: cfg.Split,
	}
	if err := survey.AskOne(splitPrompt, &cfg.Split); err != nil {
		return err
	}

	routerPrompt := &survey.Select{
		Message: "Preview router for 'fluxgen serve':",
		Options: config.ValidRouters,
		Default: cfg.Serve.Router,
	}
	return survey.AskOne(routerPrompt, &cfg.Serve.Router)
}

// isInteractive reports whether stdin is a terminal
func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func getConfigPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultPath
}
