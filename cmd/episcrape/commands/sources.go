package commands

import (
	"episcrape/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:         "sources",
	Short:       "Lists the registered sources.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"cache": "none"},
	Run: func(cmd *cobra.Command, args []string) {
		a := getApp(cmd.Context())

		t := serviceutil.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Key", "Country", "State", "Aggregate", "Scrapers", "Since"})
		for _, key := range a.registry.Keys() {
			src, err := a.registry.Get(key)
			if err != nil {
				serviceutil.Fatal("failed to get source", err)
			}
			t.AppendRow(table.Row{
				src.Key,
				src.Country,
				src.State,
				src.Aggregate,
				len(src.Scrapers),
				src.Scrapers[0].StartDate,
			})
		}
		t.Render()
	},
}
