package main

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tsawler/docfill/internal/logger"
)

// app holds state shared by the subcommands.
type app struct {
	logLevel string
	logJSON  bool
	log      *charmlog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "docfill",
		Short: "Fill {{field}} placeholders in DOCX templates",
		Long: `docfill replaces {{field}} placeholders in a DOCX template with values,
removes the lines of fields left blank, and embeds a picture in place of
{{photo}}.

Examples:
  docfill fields cv.docx
  docfill fill cv.docx --set name="Ada Lovelace" --set phone= --photo ada.jpg
  docfill serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := logger.ParseLevel(a.logLevel); err != nil {
				return err
			}
			a.log = logger.New(&logger.Config{
				Level:      a.logLevel,
				JSON:       a.logJSON,
				Output:     cmd.ErrOrStderr(),
				TimeFormat: "15:04:05",
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error, off)")
	cmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log in JSON format")

	cmd.AddCommand(
		newFieldsCmd(a),
		newFillCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func exactlyOneTemplate(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%s needs exactly one TEMPLATE argument", cmd.Name())
	}
	return nil
}
