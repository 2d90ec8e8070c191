package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/cmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "fluxgen",
		Short:   "fluxgen - typed TypeScript bindings from OpenAPI documents",
		Long:    `fluxgen turns an OpenAPI 3.0 document into a Hono-style route-type declaration, an RPC client and TanStack Query or SWR hooks that share one set of types.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("🚀 fluxgen v" + version)
			fmt.Println("Run 'fluxgen --help' for available commands")
		},
	}

	rootCmd.AddCommand(cmd.GenerateCmd())
	rootCmd.AddCommand(cmd.WatchCmd())
	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.ListCmd())
	rootCmd.AddCommand(cmd.ConfigCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
