package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/docfill"
	"github.com/tsawler/docfill/docx"
)

type fillFlags struct {
	set        []string
	valuesFile string
	photo      string
	photoWidth float64
	maxPixels  int
	bodyOnly   bool
	output     string
	dryRun     bool
}

func newFillCmd(a *app) *cobra.Command {
	var fl fillFlags

	cmd := &cobra.Command{
		Use:   "fill TEMPLATE",
		Short: "Fill a template and write the generated document",
		Long: `Fill replaces every {{field}} of TEMPLATE with its value. Values come from
a YAML or JSON file (--values) and from --set name=value flags, which win.
A field set to an empty value has its line removed. With --dry-run the
filled body text is printed instead of writing a document.`,
		Args: exactlyOneTemplate,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := collectValues(fl.valuesFile, fl.set)
			if err != nil {
				return err
			}

			f := docfill.Open(args[0]).
				Values(values).
				PhotoWidth(fl.photoWidth).
				MaxPhotoPixels(fl.maxPixels)
			if fl.photo != "" {
				f = f.PhotoFile(fl.photo)
			}
			if fl.bodyOnly {
				f = f.BodyOnly()
			}

			var art *docfill.Artifact
			if fl.dryRun {
				art, err = f.Generate()
			} else {
				art, err = f.Save(fl.output)
			}
			if errors.Is(err, docfill.ErrNoPlaceholders) {
				a.log.Warn("nothing to fill, no document written", "template", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			for _, w := range art.Report.Warnings {
				a.log.Warn(w.Message, "field", w.Field, "kind", w.Kind.String())
			}
			if fl.dryRun {
				return preview(cmd, art)
			}
			a.log.Info("document generated",
				"output", fl.output,
				"replacements", art.Report.Replacements,
				"cleared_lines", art.Report.ClearedLines,
				"photos", art.Report.Photos,
			)
			fmt.Fprintln(cmd.OutOrStdout(), fl.output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&fl.set, "set", nil, "field value as name=value (repeatable)")
	flags.StringVar(&fl.valuesFile, "values", "", "YAML or JSON file mapping field names to values")
	flags.StringVar(&fl.photo, "photo", "", "image to embed in place of {{photo}}")
	flags.Float64Var(&fl.photoWidth, "photo-width", 1.25, "photo width in inches")
	flags.IntVar(&fl.maxPixels, "max-photo-pixels", 1200, "downscale photos larger than this many pixels (negative keeps the size)")
	flags.BoolVar(&fl.bodyOnly, "body-only", false, "leave headers and footers untouched")
	flags.StringVarP(&fl.output, "output", "o", docfill.OutputName, "output file")
	flags.BoolVar(&fl.dryRun, "dry-run", false, "print the filled body text instead of writing the document")
	return cmd
}

// preview prints the body text of a generated document.
func preview(cmd *cobra.Command, art *docfill.Artifact) error {
	pkg, err := docx.OpenBytes(art.Data)
	if err != nil {
		return fmt.Errorf("reading generated document: %w", err)
	}
	d, err := pkg.MainDocument()
	if err != nil {
		return fmt.Errorf("reading generated document: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), d.Text())
	return nil
}
