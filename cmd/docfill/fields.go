package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/docfill"
)

func newFieldsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fields TEMPLATE",
		Short: "List the fields a template expects",
		Args:  exactlyOneTemplate,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := docfill.Open(args[0]).Fields()
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				a.log.Warn("template has no placeholders", "template", args[0])
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(fields)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLABEL\tKIND")
			for _, f := range fields {
				kind := "text"
				if f.Photo {
					kind = "photo"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Label, kind)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print fields as JSON")
	return cmd
}
