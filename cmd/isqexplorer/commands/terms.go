package commands

import (
	"isqexplorer-backend/lib/serviceutil"
	"isqexplorer-backend/services/isqscrape"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(termsCmd)
}

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Lists known terms in chronological order.",
	Run: func(cmd *cobra.Command, args []string) {
		st, database := openStore(readConfig())
		defer database.Close()

		terms, err := st.Terms.All(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list terms", err)
		}

		names := make(map[int64]isqscrape.TermName, len(terms))
		for _, term := range terms {
			name, err := isqscrape.ParseTermName(term.Name)
			if err != nil {
				continue
			}
			names[term.Id] = name
		}
		sort.SliceStable(terms, func(i, j int) bool {
			return names[terms[i].Id].Before(names[terms[j].Id])
		})

		t := newTable()
		t.AppendHeader(table.Row{"Id", "Term"})
		for _, term := range terms {
			t.AppendRow(table.Row{term.Id, term.Name})
		}
		t.Render()
	},
}
