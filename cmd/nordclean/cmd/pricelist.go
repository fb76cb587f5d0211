package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nordclean/internal/export"
)

var pricelistOut string

var pricelistCmd = &cobra.Command{
	Use:   "pricelist",
	Short: "Write the price list as an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := export.SavePriceList(pricelistOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Price list written to %s\n", pricelistOut)
		return nil
	},
}

func init() {
	pricelistCmd.Flags().StringVarP(&pricelistOut, "out", "o", "reports/prislista.xlsx", "output file")
}
