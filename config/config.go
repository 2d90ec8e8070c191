package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/barisgit/fluxgen/internal/typegen/analyzer"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
	"github.com/barisgit/fluxgen/internal/typegen/naming"
)

// DefaultPath is where commands look for the project configuration
const DefaultPath = "fluxgen.yaml"

// Environment variables that override values from the configuration file
const (
	EnvInput   = "FLUXGEN_INPUT"
	EnvOutput  = "FLUXGEN_OUTPUT"
	EnvBaseURL = "FLUXGEN_BASE_URL"
)

// ValidRouters lists the preview routers `fluxgen serve` can mount on
var ValidRouters = []string{"chi", "echo", "fiber", "gin", "nethttp"}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// ConfigLoadOptions provides options for loading configuration
type ConfigLoadOptions struct {
	Path              string
	AllowMissing      bool
	ValidateStructure bool
	ApplyDefaults     bool
	// EnvFile is read for FLUXGEN_* overrides; empty disables environment overrides
	EnvFile string
	Quiet   bool
}

// DefaultLoadOptions returns sensible defaults for config loading
func DefaultLoadOptions() ConfigLoadOptions {
	return ConfigLoadOptions{
		Path:              DefaultPath,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		EnvFile:           ".env",
		Quiet:             false,
	}
}

// ConfigManager handles configuration loading, validation, and management
type ConfigManager struct {
	options ConfigLoadOptions
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(options ConfigLoadOptions) *ConfigManager {
	return &ConfigManager{
		options: options,
	}
}

// LoadConfig loads and validates the configuration at the configured path
func (cm *ConfigManager) LoadConfig() (*ProjectConfig, error) {
	return cm.LoadConfigFromPath(cm.options.Path)
}

// LoadConfigFromPath loads configuration from a specific path
func (cm *ConfigManager) LoadConfigFromPath(path string) (*ProjectConfig, error) {
	var config *ProjectConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !cm.options.AllowMissing {
			return nil, fmt.Errorf("configuration file not found: %s\n\nRun 'fluxgen config init' to create one", path)
		}
		if !cm.options.Quiet {
			fmt.Printf("⚠️  Configuration file not found at %s, using defaults\n", path)
		}
		config = DefaultConfig()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
		}

		config = &ProjectConfig{}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your YAML syntax", path, err)
		}
	}

	if cm.options.EnvFile != "" {
		if err := cm.applyEnv(config); err != nil {
			return nil, err
		}
	}

	if cm.options.ApplyDefaults {
		applyDefaults(config)
	}

	if cm.options.ValidateStructure {
		if errs := Validate(config); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", formatValidationErrors(errs))
		}
	}

	return config, nil
}

// applyEnv overrides file values with FLUXGEN_* variables. The process
// environment wins over the env file.
func (cm *ConfigManager) applyEnv(config *ProjectConfig) error {
	fileEnv, err := godotenv.Read(cm.options.EnvFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read env file %s: %w", cm.options.EnvFile, err)
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}

	if v := lookup(EnvInput); v != "" {
		config.Input = v
	}
	if v := lookup(EnvOutput); v != "" {
		config.Output = v
	}
	if v := lookup(EnvBaseURL); v != "" {
		config.BaseURL = v
	}
	return nil
}

// Validate reports every problem with a configuration at once
func Validate(config *ProjectConfig) ValidationErrors {
	var errors ValidationErrors

	if config.Input == "" {
		errors = append(errors, ValidationError{
			Field:   "input",
			Value:   config.Input,
			Message: "input document cannot be empty",
		})
	}

	if config.Output == "" {
		errors = append(errors, ValidationError{
			Field:   "output",
			Value:   config.Output,
			Message: "output directory cannot be empty",
		})
	}

	for i, flavor := range config.Flavors {
		if err := generator.ValidateFlavor(flavor); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("flavors[%d]", i),
				Value:   flavor,
				Message: err.Error(),
			})
		}
	}

	if _, err := naming.ParseCase(config.FileCase); err != nil {
		errors = append(errors, ValidationError{
			Field:   "file_case",
			Value:   config.FileCase,
			Message: err.Error(),
		})
	}

	if config.StripPrefix != "" && !strings.HasPrefix(config.StripPrefix, "/") {
		errors = append(errors, ValidationError{
			Field:   "strip_prefix",
			Value:   config.StripPrefix,
			Message: "prefix must start with '/'",
		})
	}

	for _, tag := range config.IncludeTags {
		if contains(config.ExcludeTags, tag) {
			errors = append(errors, ValidationError{
				Field:   "exclude_tags",
				Value:   tag,
				Message: "tag is both included and excluded",
			})
		}
	}

	for i, command := range config.Hooks.PostGenerate {
		if strings.TrimSpace(command) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("hooks.post_generate[%d]", i),
				Value:   command,
				Message: "hook command cannot be empty",
			})
		}
	}

	if config.Serve.Router != "" && !contains(ValidRouters, config.Serve.Router) {
		errors = append(errors, ValidationError{
			Field:   "serve.router",
			Value:   config.Serve.Router,
			Message: fmt.Sprintf("unsupported router '%s', valid options are: %s", config.Serve.Router, strings.Join(ValidRouters, ", ")),
		})
	}

	if config.Serve.Port < 0 || config.Serve.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "serve.port",
			Value:   config.Serve.Port,
			Message: "port must be between 1 and 65535",
		})
	}

	return errors
}

// applyDefaults sets default values for missing configuration fields
func applyDefaults(config *ProjectConfig) {
	if config.Output == "" {
		config.Output = "src/api"
	}
	if len(config.Flavors) == 0 {
		config.Flavors = generator.DefaultFlavors()
	}
	if config.FileCase == "" {
		config.FileCase = "camel"
	}
	if config.Serve.Router == "" {
		config.Serve.Router = "chi"
	}
	if config.Serve.Port == 0 {
		config.Serve.Port = 4010
	}
}

// DefaultConfig is the configuration used when no file exists
func DefaultConfig() *ProjectConfig {
	return &ProjectConfig{
		Input:    "openapi.yaml",
		Output:   "src/api",
		Flavors:  generator.DefaultFlavors(),
		FileCase: "camel",
		Serve: ServeConfig{
			Router: "chi",
			Port:   4010,
		},
	}
}

// formatValidationErrors formats validation errors in a user-friendly way
func formatValidationErrors(errors ValidationErrors) string {
	var lines []string
	for i, err := range errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

// WriteConfig writes a configuration as YAML, refusing to replace an existing
// file unless force is set
func WriteConfig(path string, config *ProjectConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", path)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	header := "# fluxgen configuration\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file %s: %w", path, err)
	}
	return nil
}

// ValidateConfigFile validates a configuration file without applying defaults
func ValidateConfigFile(path string) error {
	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     false,
		Quiet:             true,
	})

	_, err := cm.LoadConfigFromPath(path)
	return err
}

// GetConfigInfo returns information about the configuration at path
func GetConfigInfo(path string) (*ConfigInfo, error) {
	options := DefaultLoadOptions()
	options.Quiet = true
	config, err := NewConfigManager(options).LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(path)

	return &ConfigInfo{
		Path:      absPath,
		Input:     config.Input,
		Output:    config.Output,
		Flavors:   config.Flavors,
		Split:     config.Split,
		FileCase:  config.FileCase,
		Strict:    config.Strict,
		HookCount: len(config.Hooks.PostGenerate),
		Router:    config.Serve.Router,
		Port:      config.Serve.Port,
	}, nil
}

// ConfigInfo contains summary information about a configuration
type ConfigInfo struct {
	Path      string
	Input     string
	Output    string
	Flavors   []string
	Split     bool
	FileCase  string
	Strict    bool
	HookCount int
	Router    string
	Port      int
}

// String returns a formatted string representation of config info
func (info *ConfigInfo) String() string {
	var lines []string
	lines = append(lines, "📋 Configuration Summary")
	lines = append(lines, fmt.Sprintf("   Path: %s", info.Path))
	lines = append(lines, fmt.Sprintf("   Input: %s", info.Input))
	lines = append(lines, fmt.Sprintf("   Output: %s", info.Output))
	lines = append(lines, fmt.Sprintf("   Flavors: %s", strings.Join(info.Flavors, ", ")))
	if info.Split {
		lines = append(lines, fmt.Sprintf("   Split: one file per operation (%s case)", info.FileCase))
	}
	if info.Strict {
		lines = append(lines, "   Strict: warnings fail generation")
	}
	if info.HookCount > 0 {
		lines = append(lines, fmt.Sprintf("   Post-generate hooks: %d", info.HookCount))
	}
	lines = append(lines, fmt.Sprintf("   Preview: %s on port %d", info.Router, info.Port))

	return strings.Join(lines, "\n")
}

// LoadConfig loads configuration using default options
func LoadConfig() (*ProjectConfig, error) {
	cm := NewConfigManager(DefaultLoadOptions())
	return cm.LoadConfig()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// ProjectConfig is the content of fluxgen.yaml
type ProjectConfig struct {
	// Input is a local path or http(s) URL of an OpenAPI 3.0 document
	Input       string   `yaml:"input"`
	Output      string   `yaml:"output"`
	BaseURL     string   `yaml:"base_url,omitempty"`
	Flavors     []string `yaml:"flavors"`
	Split       bool     `yaml:"split,omitempty"`
	FileCase    string   `yaml:"file_case,omitempty"`
	Strict      bool     `yaml:"strict,omitempty"`
	StripPrefix string   `yaml:"strip_prefix,omitempty"`
	IncludeTags []string `yaml:"include_tags,omitempty"`
	ExcludeTags []string `yaml:"exclude_tags,omitempty"`

	Hooks HooksConfig `yaml:"hooks,omitempty"`
	Serve ServeConfig `yaml:"serve"`
}

type HooksConfig struct {
	PostGenerate []string `yaml:"post_generate,omitempty"` // Run in the output directory after files change
}

type ServeConfig struct {
	Router string `yaml:"router"`
	Port   int    `yaml:"port"`
}

// GeneratorOptions maps the configuration onto generator options
func (c *ProjectConfig) GeneratorOptions() (generator.Options, error) {
	fileCase, err := naming.ParseCase(c.FileCase)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{
		Flavors:  c.Flavors,
		Split:    c.Split,
		FileCase: fileCase,
		BaseURL:  c.BaseURL,
	}, nil
}

// AnalyzerOptions maps the filtering settings onto analyzer options
func (c *ProjectConfig) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		IncludeTags: c.IncludeTags,
		ExcludeTags: c.ExcludeTags,
		StripPrefix: c.StripPrefix,
	}
}
