package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent validation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := loadHistory(limit)
		if err != nil {
			return invocationError(err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"When", "File", "Type", "Pass", "Warn", "Err", "Grade", "Status"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})

		var rows [][]string
		for _, rec := range records {
			rows = append(rows, []string{
				rec.Timestamp.Format("2006-01-02 15:04:05"),
				rec.File,
				rec.ServerType,
				fmt.Sprintf("%d", rec.Passed),
				fmt.Sprintf("%d", rec.Warnings),
				fmt.Sprintf("%d", rec.Errors),
				rec.Grade,
				formatStatusWithColor(rec.Status),
			})
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Printf("Showing %d most recent runs (results dir: %s)\n", len(records), resultsDir)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "maximum number of runs to show")
}
