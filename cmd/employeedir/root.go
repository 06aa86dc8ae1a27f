package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"employeedir/internal/app/server"
	"employeedir/internal/platform/config"
	"employeedir/internal/platform/logger"
)

type rootOptions struct {
	envFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "employeedir",
		Short: "Employee directory API server",
		Long: `Employee directory API server.

Configuration is read from the environment, optionally seeded from a .env
file (--env-file). Variables already present in the environment win.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
		RunE:              opts.serve,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  opts.serve,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		Args:  cobra.NoArgs,
		RunE:  opts.migrate,
	})

	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, FilePath: cfg.LogFilePath}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg
	return nil
}

func (o *rootOptions) serve(cmd *cobra.Command, _ []string) error {
	app, err := server.New(cmd.Context(), o.cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(cmd.Context())
}

func (o *rootOptions) migrate(cmd *cobra.Command, _ []string) error {
	_, closeStore, err := server.OpenStore(cmd.Context(), o.cfg, true)
	if err != nil {
		return err
	}
	closeStore()
	logger.L().Info().Str("driver", o.cfg.DatabaseDriver).Msg("schema is up to date")
	return nil
}
