package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newDetailsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "details <model path>",
		Short: "Shows the spec table and images of one model page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			detail, err := client.ModelDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, detail)
			}

			fmt.Fprintf(out, "%s\n%s\n", detail.Title, detail.URL)

			t := newTable(out)
			t.AppendHeader(table.Row{"Spec", "Value"})
			for pair := detail.Specs.Oldest(); pair != nil; pair = pair.Next() {
				t.AppendRow(table.Row{pair.Key, pair.Value})
			}
			t.Render()

			for _, img := range detail.Images {
				fmt.Fprintln(out, img)
			}
			return nil
		},
	}
}
