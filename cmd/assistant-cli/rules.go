package main

import (
	"fmt"
	"text/tabwriter"

	"family-hub/internal/assistant/fallback"
	"family-hub/pkg/datemath"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the offline rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dates, err := datemath.NewParser("UTC")
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tRULE\tINTENT\tCONFIDENCE")
		for i, r := range fallback.New(dates).Rules() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", i+1, r.Name, r.Intent, r.Confidence)
		}
		return w.Flush()
	},
}
