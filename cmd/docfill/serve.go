package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/docfill/internal/config"
	"github.com/tsawler/docfill/internal/logger"
	"github.com/tsawler/docfill/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the CV form web app",
		Long: `Serve starts the web app: upload a template, fill in its fields and
download the generated document. Configuration comes from DOCFILL_*
environment variables, optionally read from an env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}

			log := a.log
			if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-json") {
				log = logger.New(&logger.Config{
					Level:      cfg.LogLevel,
					JSON:       cfg.LogJSON,
					Output:     cmd.ErrOrStderr(),
					TimeFormat: "15:04:05",
				})
			}

			return server.New(cfg, log).Run(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "env file to load (default .env)")
	return cmd
}
