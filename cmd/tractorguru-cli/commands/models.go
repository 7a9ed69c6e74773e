package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models <brand path>",
		Short: "Lists the models of one brand, e.g. models /tractor-brands/mahindra.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			list, err := client.BrandModels(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, list)
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"Model", "Price", "Path"})
			for _, m := range list {
				t.AppendRow(table.Row{m.Name, m.Price, m.Path})
			}
			t.AppendFooter(table.Row{"Total", "", len(list)})
			t.Render()
			return nil
		},
	}
}
