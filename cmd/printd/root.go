package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultURL = "http://localhost:3000"

// newRootCommand builds the printd command tree. Running printd with no
// subcommand starts the server.
func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "printd",
		Short:         "Serialize image print jobs onto a single thermal printer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.yaml, .json or .toml)")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newStatusCommand())
	root.AddCommand(newSubmitCommand())
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP print server",
		Long: `Run the HTTP print server.

Jobs submitted to POST /api/print are printed one at a time in arrival
order. On SIGINT/SIGTERM the server stops accepting requests and gives
queued jobs until --drain-timeout to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().DurationVar(&drainTimeout, "drain-timeout", drainTimeout, "how long queued jobs may run after a shutdown signal")
	return cmd
}

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "printd").Logger(), nil
}
