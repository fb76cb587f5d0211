package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nordclean/internal/pricing"
)

var (
	estimateType      string
	estimateFrequency string
	estimateSize      string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the price for a cleaning type, frequency and home size",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := pricing.ParseCleaningType(estimateType)
		if !ok {
			return fmt.Errorf("unknown cleaning type %q (want %s or %s)",
				estimateType, pricing.HomeCleaning, pricing.MoveOutCleaning)
		}

		freq := pricing.DefaultFrequency(t)
		if estimateFrequency != "" {
			if freq, ok = pricing.ParseFrequency(estimateFrequency); !ok {
				return fmt.Errorf("unknown frequency %q", estimateFrequency)
			}
		}

		result := pricing.Estimate(t, freq, estimateSize)
		fmt.Fprintf(cmd.OutOrStdout(), "Prisförslag: %s\n", result)
		return nil
	},
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateType, "type", "t", string(pricing.HomeCleaning), "cleaning type (hemstadning, flyttstadning)")
	estimateCmd.Flags().StringVarP(&estimateFrequency, "frequency", "f", "", "frequency (weekly, bi-weekly, one-time); defaults to the type's default")
	estimateCmd.Flags().StringVarP(&estimateSize, "size", "s", "", "home size in square meters")
}
