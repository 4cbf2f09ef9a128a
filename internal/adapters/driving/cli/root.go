// Package cli provides the heritage command-line interface.
//
// Commands query a mashup of metadata and process handlers described by a
// TOML configuration file. The mashup is opened lazily by the first command
// that needs it and released when the command finishes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage/internal/adapters/driven/config/file"
	"github.com/custodia-labs/heritage/internal/adapters/driven/handlers"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/core/ports/driving"
	"github.com/custodia-labs/heritage/internal/core/services"
	"github.com/custodia-labs/heritage/internal/logger"
)

var version = "dev"

var (
	configPath string
	verbose    bool
	jsonOutput bool
)

// ServiceOpener builds the mashup described by the configuration file at
// path. The returned function releases every handler the mashup holds.
type ServiceOpener func(ctx context.Context, path string) (driving.AdvancedMashup, func() error, error)

var (
	mashupService driving.AdvancedMashup
	openService   ServiceOpener = openFromConfig
	closeService  func() error
)

// newConfigStore returns the store settings are read from and written to.
var newConfigStore = func(path string) (driven.ConfigStore, error) {
	return file.NewConfigStore(path)
}

var rootCmd = &cobra.Command{
	Use:   "heritage",
	Short: "Query cultural heritage objects and their digitisation",
	Long: `heritage reconciles descriptive metadata about cultural heritage objects
with the records of their digitisation process.

Metadata comes from SPARQL endpoints or N-Triples files; process records
come from SQLite or PostgreSQL databases. Handlers are listed in the
configuration file (default ~/.heritage/config.toml).`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ~/.heritage/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log fan-out and merge details to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceOpener replaces the function that builds the mashup.
func SetServiceOpener(open ServiceOpener) {
	openService = open
}

// Execute runs the root command. Results go to stdout.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// Close releases the handlers opened for the last command. It is safe to
// call more than once.
func Close() error {
	if closeService == nil {
		return nil
	}
	err := closeService()
	mashupService, closeService = nil, nil
	return err
}

// service returns the mashup, opening it on first use.
func service(cmd *cobra.Command) (driving.AdvancedMashup, error) {
	if mashupService != nil {
		return mashupService, nil
	}
	if openService == nil {
		return nil, errors.New("mashup service not configured")
	}

	m, closeFn, err := openService(cmd.Context(), configPath)
	if err != nil {
		return nil, fmt.Errorf("opening handlers: %w", err)
	}
	mashupService, closeService = m, closeFn
	return m, nil
}

func openFromConfig(ctx context.Context, path string) (driving.AdvancedMashup, func() error, error) {
	store, err := newConfigStore(path)
	if err != nil {
		return nil, nil, err
	}
	settings, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", store.Path(), err)
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}
	if len(settings.Metadata) == 0 && len(settings.Process) == 0 {
		logger.Warn("No handlers configured in %s", store.Path())
	}

	factory := handlers.NewFactory()
	m, err := services.OpenMashup(ctx, settings, factory)
	if err != nil {
		return nil, nil, errors.Join(err, factory.Close())
	}
	return m, factory.Close, nil
}
