package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contentgate",
	Short: "Authorization engine for a content tree",
	Long: "Decides whether a principal may view or mutate a content item,\n" +
		"from ordered permission levels, role/user maps, publication state,\n" +
		"and per-type permission remaps. Fails closed on denial.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
