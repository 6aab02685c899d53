package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docbridge/internal/converter"
	"docbridge/internal/format"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported formats and conversions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptors := format.Descriptors()
			pairs := converter.SupportedPairs()

			if ctx.JSONMode() {
				conversions := make([]string, 0, len(pairs))
				for _, pair := range pairs {
					conversions = append(conversions, pair.String())
				}
				return writeJSON(cmd, map[string]any{
					"formats":     descriptors,
					"conversions": conversions,
				})
			}

			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				rows = append(rows, []string{d.Name, "." + d.Extension, strings.Join(d.Aliases, ", "), d.Description})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Format", "Extension", "Aliases", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Conversions:")
			for _, pair := range pairs {
				fmt.Fprintf(out, "  %s\n", pair.String())
			}
			return nil
		},
	}
}
