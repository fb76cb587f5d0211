// Package cmd provides the nordclean CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nordclean",
	Short: "Nordclean price calculator",
	Long: `nordclean serves the Nordclean price calculator page and relays
quote requests to the form endpoint.

Examples:
  nordclean serve
  nordclean estimate --type hemstadning --frequency weekly --size 85
  nordclean pricelist --out reports/prislista.xlsx`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(pricelistCmd)
}
