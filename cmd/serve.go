package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/adapters/chi"
	"github.com/barisgit/fluxgen/adapters/echo"
	"github.com/barisgit/fluxgen/adapters/fiber"
	"github.com/barisgit/fluxgen/adapters/gin"
	"github.com/barisgit/fluxgen/adapters/nethttp"
	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/pipeline"
	"github.com/barisgit/fluxgen/internal/preview"
	"github.com/barisgit/fluxgen/internal/watch"
)

const shutdownTimeout = 5 * time.Second

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated bindings over HTTP",
		Long: `Generate bindings in memory and serve them, together with the OpenAPI document, on the
configured router. Local input documents are watched and the served files refresh on change.`,
		RunE: runServe,
	}

	addProjectFlags(cmd)
	cmd.Flags().String("router", "", fmt.Sprintf("Router to serve with (%s)", strings.Join(config.ValidRouters, ", ")))
	cmd.Flags().IntP("port", "p", 0, "Port to listen on")
	cmd.Flags().String("prefix", "", "Serve the files below this path, e.g. /bindings")
	cmd.Flags().Bool("no-watch", false, "Do not regenerate when the input changes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)

	cfg, configPath, err := loadProjectConfig(cmd, out)
	if err != nil {
		return err
	}
	if router, _ := cmd.Flags().GetString("router"); router != "" {
		cfg.Serve.Router = router
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Serve.Port = port
	}
	if errs := config.Validate(cfg); errs.HasErrors() {
		return fmt.Errorf("configuration validation failed: %w", errs)
	}

	prefix, _ := cmd.Flags().GetString("prefix")
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	site := preview.NewSite(preview.Config{Prefix: prefix, NoCache: !noWatch})
	refresh := func(ctx context.Context, changed []string) error {
		out.info(fmt.Sprintf("🔧 Generating bindings from %s...", cfg.Input))
		result, err := pipeline.Run(ctx, cfg)
		if err != nil {
			return err
		}
		out.warnings(result.Warnings)

		spec, err := result.SpecJSON()
		if err != nil {
			return err
		}
		site.Update(result.Files.FS(), spec)
		out.success(fmt.Sprintf("✅ Serving %d generated file(s)", len(result.Files)))
		return nil
	}

	if err := refresh(ctx, nil); err != nil {
		return err
	}

	errCh := make(chan error, 2)
	if files := watchedFiles(cfg, configPath); !noWatch && len(files) > 0 {
		go func() {
			if err := runWatcher(ctx, files, watch.DefaultDebounce, refresh, out); err != nil {
				errCh <- err
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Serve.Port)
	out.info(fmt.Sprintf("🌐 Serving bindings with %s on http://localhost%s%s/", cfg.Serve.Router, addr, prefix))

	go func() {
		errCh <- listen(ctx, cfg.Serve.Router, addr, site)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// listen serves site on addr with the chosen router until ctx is cancelled.
// Every router catches all paths; the site strips its own prefix.
func listen(ctx context.Context, router, addr string, site *preview.Site) error {
	if router == "fiber" {
		app := fiber.NewApp(site)
		go func() {
			<-ctx.Done()
			app.ShutdownWithTimeout(shutdownTimeout)
		}()
		return app.Listen(addr)
	}

	handler, err := newHandler(router, site)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server failed: %w", err)
	}
	return nil
}

func newHandler(router string, site *preview.Site) (http.Handler, error) {
	switch router {
	case "chi":
		return chi.NewRouter(site), nil
	case "echo":
		return echo.NewEcho(site), nil
	case "gin":
		return gin.NewEngine(site), nil
	case "nethttp", "":
		return nethttp.NewServeMux(site), nil
	default:
		return nil, fmt.Errorf("unsupported router '%s'", router)
	}
}
