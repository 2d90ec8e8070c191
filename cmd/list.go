package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barisgit/fluxgen/config"
	"github.com/barisgit/fluxgen/internal/typegen/generator"
	"github.com/barisgit/fluxgen/internal/typegen/naming"
)

var flavorDescriptions = map[string]string{
	generator.FlavorRPC:         "async functions over the Hono RPC client",
	generator.FlavorReactQuery:  "@tanstack/react-query hooks",
	generator.FlavorVueQuery:    "@tanstack/vue-query composables",
	generator.FlavorSvelteQuery: "@tanstack/svelte-query stores",
	generator.FlavorSWR:         "swr and swr/mutation hooks",
	generator.FlavorManifest:    "manifest.json describing every emitted function",
}

func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available flavors, routers and file cases",
		Long:  "Display every binding flavor, preview router and split file case fluxgen understands",
		RunE:  runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "📦 Available Flavors:")
	for _, flavor := range generator.SupportedFlavors() {
		fmt.Fprintf(w, "  • %s - %s\n", flavor, flavorDescriptions[flavor])
	}

	fmt.Fprintln(w, "\n🌐 Preview Routers:")
	for _, router := range config.ValidRouters {
		fmt.Fprintf(w, "  • %s\n", router)
	}

	fmt.Fprintln(w, "\n🔤 Split File Cases:")
	for _, name := range naming.CaseNames() {
		fmt.Fprintf(w, "  • %s\n", name)
	}

	return nil
}
