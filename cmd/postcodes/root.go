// Package main provides the postcodes command: one-off postcodes.io lookups
// and the enrichment daemon.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/UnknownOlympus/postcodes"
	"github.com/UnknownOlympus/postcodes/internal/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postcodes",
		Short: "Query postcodes.io and enrich stored tasks with UK postcode data",
		Long: `postcodes looks up UK postcodes against postcodes.io.

The lookup commands print one line per record, or JSON/YAML with --output.
The serve command runs the enrichment daemon that resolves pending tasks
stored in PostgreSQL.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().String("base-url", postcodes.DefaultBaseURL, "postcodes.io base URL")
	cmd.PersistentFlags().Duration("timeout", 10*time.Second, "HTTP timeout per request")
	cmd.PersistentFlags().StringP("output", "o", formatText, "Output format: text, json or yaml")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging to stderr")

	cmd.AddCommand(NewLookupCmd())
	cmd.AddCommand(NewBulkCmd())
	cmd.AddCommand(NewNearestCmd())
	cmd.AddCommand(NewRandomCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a client from the persistent flags.
func newClient(cmd *cobra.Command) (*postcodes.Client, error) {
	flags := cmd.Flags()

	baseURL, err := flags.GetString("base-url")
	if err != nil {
		return nil, err
	}
	timeout, err := flags.GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	var log *slog.Logger
	if verbose {
		log = logger.Setup(logger.EnvLocal, cmd.ErrOrStderr())
	} else {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return postcodes.NewClient(log, postcodes.WithBaseURL(baseURL), postcodes.WithTimeout(timeout)), nil
}
