package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/testassets"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
)

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetErr(&buf)
	c.SetArgs(args)
	err := c.Execute()
	return buf.String(), err
}

// project writes the pet store document and a configuration next to it
func project(t *testing.T, mutate func(cfg *config.ProjectConfig)) (configPath, output string) {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "petstore.yaml")
	if err := os.WriteFile(input, testassets.Petstore(), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "api")
	if mutate != nil {
		mutate(cfg)
	}

	configPath = filepath.Join(dir, "fluxgen.yaml")
	if err := config.WriteConfig(configPath, cfg, false); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return configPath, cfg.Output
}

func TestGenerateAndCheck(t *testing.T) {
	configPath, output := project(t, nil)

	out, err := execute(t, GenerateCmd(), "--config", configPath)
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("Expected a summary of written files, got:\n%s", out)
	}

	for _, name := range []string{generator.RoutesFile, generator.ClientFile, "react-query/index.ts", generator.ManifestFile} {
		if _, err := os.Stat(filepath.Join(output, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}

	if out, err := execute(t, GenerateCmd(), "--config", configPath, "--check"); err != nil {
		t.Fatalf("check right after generate failed: %v\n%s", err, out)
	}
	t.Log("✅ Fresh output passes --check")

	routes := filepath.Join(output, generator.RoutesFile)
	if err := os.WriteFile(routes, []byte("// edited\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err = execute(t, GenerateCmd(), "--config", configPath, "--check")
	var stale *generator.StaleFilesError
	if !errors.As(err, &stale) {
		t.Fatalf("Expected StaleFilesError, got %v", err)
	}
	if !strings.Contains(out, generator.RoutesFile) {
		t.Errorf("Expected the stale file to be reported, got:\n%s", out)
	}
	t.Log("✅ Edited output fails --check")
}

func TestGenerateFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "accounts.json")
	if err := os.WriteFile(input, testassets.Accounts(), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out")

	// No configuration file: --input alone is enough
	out, err := execute(t, GenerateCmd(), "--input", input, "--output", output, "--quiet")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no output in quiet mode, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(output, "rpc", "index.ts")); err != nil {
		t.Errorf("Expected rpc bindings in the overridden output: %v", err)
	}
}

func TestGenerateMissingExplicitConfig(t *testing.T) {
	_, err := execute(t, GenerateCmd(), "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Expected error for an explicit config path that does not exist")
	}
}

func TestGenerateStrict(t *testing.T) {
	configPath, output := project(t, func(cfg *config.ProjectConfig) {
		cfg.Strict = true
	})

	if _, err := execute(t, GenerateCmd(), "--config", configPath); err == nil {
		t.Fatal("Expected strict mode to fail on analyzer warnings")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("Expected nothing to be written when strict mode fails")
	}
}

func TestGenerateRunsHooks(t *testing.T) {
	configPath, output := project(t, func(cfg *config.ProjectConfig) {
		cfg.Flavors = []string{generator.FlavorRPC}
		cfg.Hooks.PostGenerate = []string{"touch hooked.txt"}
	})

	if out, err := execute(t, GenerateCmd(), "--config", configPath); err != nil {
		t.Fatalf("generate failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(output, "hooked.txt")); err != nil {
		t.Errorf("Expected the hook to run in the output directory: %v", err)
	}

	// Unchanged output does not rerun hooks
	os.Remove(filepath.Join(output, "hooked.txt"))
	if out, err := execute(t, GenerateCmd(), "--config", configPath); err != nil {
		t.Fatalf("second generate failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(output, "hooked.txt")); !os.IsNotExist(err) {
		t.Error("Expected hooks to be skipped when nothing changed")
	}
}

func TestList(t *testing.T) {
	out, err := execute(t, ListCmd())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range append(generator.SupportedFlavors(), config.ValidRouters...) {
		if !strings.Contains(out, "• "+want) {
			t.Errorf("Expected %q in list output:\n%s", want, out)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluxgen.yaml")

	out, err := execute(t, ConfigCmd(), "init", path, "--yes", "--input", "specs/api.yaml")
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Input: specs/api.yaml") {
		t.Errorf("Unexpected init output:\n%s", out)
	}

	if _, err := execute(t, ConfigCmd(), "init", path, "--yes"); err == nil {
		t.Error("Expected init to refuse overwriting without --force")
	}

	if out, err := execute(t, ConfigCmd(), "validate", path); err != nil || !strings.Contains(out, "✅") {
		t.Errorf("Expected valid configuration, got %v:\n%s", err, out)
	}

	out, err = execute(t, ConfigCmd(), "show", path, "--verbose")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "📋 Configuration Summary") || !strings.Contains(out, "input: specs/api.yaml") {
		t.Errorf("Unexpected show output:\n%s", out)
	}

	if err := os.WriteFile(path, []byte("input: x.yaml\noutput: api\nserve:\n  router: gorilla\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, ConfigCmd(), "validate", path); err == nil {
		t.Error("Expected validation to fail for an unknown router")
	}
}

func TestWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "fluxgen.yaml")
	if err := os.WriteFile(configPath, []byte("input: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	local := &config.ProjectConfig{Input: "openapi.yaml"}
	if files := watchedFiles(local, configPath); len(files) != 2 {
		t.Errorf("Expected document and config to be watched, got %v", files)
	}

	remote := &config.ProjectConfig{Input: "https://example.com/openapi.json"}
	if files := watchedFiles(remote, filepath.Join(dir, "missing.yaml")); len(files) != 0 {
		t.Errorf("Expected nothing to watch, got %v", files)
	}

	abs, _ := filepath.Abs(configPath)
	if !containsPath([]string{abs}, configPath) {
		t.Error("Expected containsPath to match on absolute paths")
	}
}

// syncBuffer collects output written from the watcher goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatchFollowsInputAfterReload(t *testing.T) {
	dir := t.TempDir()
	petstore := filepath.Join(dir, "petstore.yaml")
	accounts := filepath.Join(dir, "accounts.json")
	if err := os.WriteFile(petstore, testassets.Petstore(), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(accounts, testassets.Accounts(), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Input = petstore
	cfg.Output = filepath.Join(dir, "api")
	cfg.Flavors = []string{generator.FlavorRPC}
	configPath := filepath.Join(dir, "fluxgen.yaml")
	if err := config.WriteConfig(configPath, cfg, false); err != nil {
		t.Fatal(err)
	}
	bindings := filepath.Join(cfg.Output, "rpc", "index.ts")

	var out syncBuffer
	c := WatchCmd()
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs([]string{"--config", configPath, "--debounce", "50ms"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.ExecuteContext(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	watching := func(n int) func() bool {
		return func() bool { return strings.Count(out.String(), "👀 Watching") >= n }
	}
	waitFor(t, "the first watch", watching(1))

	t.Log("🔄 Pointing the configuration at another document...")
	cfg.Input = accounts
	if err := config.WriteConfig(configPath, cfg, true); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "bindings for the new document", func() bool {
		data, err := os.ReadFile(bindings)
		return err == nil && strings.Contains(string(data), "get20100401AccountsJson")
	})
	waitFor(t, "the watcher to restart", watching(2))
	if !strings.Contains(out.String(), accounts) {
		t.Errorf("Expected the new document to be watched, got:\n%s", out.String())
	}

	// Edits to the new document now regenerate
	if err := os.Remove(bindings); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(accounts, testassets.Accounts(), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "regeneration from the new document", func() bool {
		_, err := os.Stat(bindings)
		return err == nil
	})

	t.Log("✅ Watcher follows the input after a configuration reload")
}

func TestNewHandler(t *testing.T) {
	for _, router := range []string{"chi", "echo", "gin", "nethttp"} {
		if _, err := newHandler(router, nil); err != nil {
			t.Errorf("newHandler(%q) failed: %v", router, err)
		}
	}
	if _, err := newHandler("gorilla", nil); err == nil {
		t.Error("Expected error for unsupported router")
	}
}
