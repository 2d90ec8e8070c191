package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/watch"
)

func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate bindings and regenerate them on change",
		Long:  "Generate once, then watch the input document and the configuration file and regenerate whenever either changes",
		RunE:  runWatch,
	}

	addProjectFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Wait this long after the last change before regenerating")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cfg, configPath, err := loadProjectConfig(cmd, out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// A broken document should not stop the watcher; the next save may fix it
	if _, err := generate(ctx, cfg, out, false); err != nil {
		out.fail("❌ " + err.Error())
	}

	for {
		files := watchedFiles(cfg, configPath)
		if len(files) == 0 {
			return fmt.Errorf("nothing to watch: %s is not a local file", cfg.Input)
		}

		// A reload that moves the input restarts the watcher on the new file set
		watchCtx, stop := context.WithCancel(ctx)
		restart := false

		reload := func(ctx context.Context, changed []string) error {
			if containsPath(changed, configPath) {
				out.info("🔄 Configuration changed, reloading...")
				next, _, err := loadProjectConfig(cmd, out)
				if err != nil {
					return err
				}
				cfg = next
				if !slices.Equal(watchedFiles(cfg, configPath), files) {
					restart = true
					defer stop()
				}
			}
			start := time.Now()
			if _, err := generate(ctx, cfg, out, false); err != nil {
				return err
			}
			out.debugf("regenerated in %s", time.Since(start).Round(time.Millisecond))
			return nil
		}

		err := runWatcher(watchCtx, files, debounce, reload, out)
		stop()
		if err != nil || !restart || ctx.Err() != nil {
			return err
		}
	}
}

func runWatcher(ctx context.Context, files []string, debounce time.Duration, onChange watch.ChangeFunc, out *console) error {
	w := watch.New(files, debounce, onChange)
	w.OnError = func(err error) {
		out.fail("❌ " + err.Error())
	}

	go func() {
		select {
		case <-w.Ready():
			out.info("👀 Watching " + strings.Join(files, ", "))
		case <-ctx.Done():
		}
	}()

	return w.Run(ctx)
}

// watchedFiles returns the local input document and the configuration file, if present
func watchedFiles(cfg *config.ProjectConfig, configPath string) []string {
	var files []string
	if !isRemote(cfg.Input) {
		files = append(files, cfg.Input)
	}
	if _, err := os.Stat(configPath); err == nil {
		files = append(files, configPath)
	}
	return files
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func containsPath(paths []string, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if p == abs {
			return true
		}
	}
	return false
}
