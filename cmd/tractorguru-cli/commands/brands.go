package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newBrandsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "Lists every tractor brand on the site.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			brands, err := client.Brands(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, brands)
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"Brand", "Path"})
			for _, b := range brands {
				t.AppendRow(table.Row{b.Name, b.Path})
			}
			t.AppendFooter(table.Row{"Total", len(brands)})
			t.Render()
			return nil
		},
	}
}
