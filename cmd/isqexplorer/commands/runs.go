package commands

import (
	"isqexplorer-backend/lib/serviceutil"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists past scrape runs recorded in the configured database.",
	Run: func(cmd *cobra.Command, args []string) {
		st, database := openStore(readConfig())
		defer database.Close()

		runs, err := st.Runs.List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list scrape runs", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Id", "Started", "Finished", "Errors"})
		for _, run := range runs {
			finished := "unfinished"
			if !run.FinishedAt.IsZero() {
				finished = run.FinishedAt.Format(time.DateTime)
			}
			t.AppendRow(table.Row{
				run.Id,
				run.StartedAt.Format(time.DateTime),
				finished,
				run.ErrorCount,
			})
		}
		t.Render()
	},
}
