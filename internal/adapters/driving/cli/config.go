package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// defaultEndpoint is where a local Blazegraph serves SPARQL.
const defaultEndpoint = "http://127.0.0.1:9999/blazegraph/sparql"

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured handlers",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Writes a configuration with one SPARQL endpoint on a local Blazegraph
and one SQLite process database next to the configuration file. The
database is created with an empty schema the first time it is opened.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing configuration")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := newConfigStore(configPath)
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if store.Path() != "" {
		cmd.Printf("Config: %s\n", store.Path())
	}
	cmd.Printf("Fan-out limit: %s\n", fanOutDescription(settings.FanOutLimit))
	cmd.Println()

	printHandlers(cmd, "Metadata handlers", settings.Metadata)
	printHandlers(cmd, "Process handlers", settings.Process)
	return nil
}

func printHandlers(cmd *cobra.Command, heading string, handlers []domain.HandlerConfig) {
	cmd.Printf("%s:\n", heading)
	if len(handlers) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, h := range handlers {
		cmd.Printf("  %-12s %-30s %s\n", h.Label(), h.Kind.Description(), handlerTarget(h))
	}
}

// handlerTarget returns where the handler reads from, with any password
// in a DSN masked.
func handlerTarget(h domain.HandlerConfig) string {
	switch h.Kind {
	case domain.HandlerSPARQL:
		return h.URL
	case domain.HandlerPostgres:
		u, err := url.Parse(h.DSN)
		if err != nil {
			return "(unparseable dsn)"
		}
		return u.Redacted()
	default:
		return h.Path
	}
}

func fanOutDescription(limit int) string {
	switch limit {
	case 0:
		return "unbounded"
	case 1:
		return "1 (sequential)"
	default:
		return fmt.Sprintf("%d", limit)
	}
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := newConfigStore(configPath)
	if err != nil {
		return err
	}

	if path := store.Path(); path != "" && !configForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	settings := domain.DefaultSettings()
	settings.Metadata = []domain.HandlerConfig{
		{Name: "catalogue", Kind: domain.HandlerSPARQL, URL: defaultEndpoint},
	}
	settings.Process = []domain.HandlerConfig{
		{Name: "process", Kind: domain.HandlerSQLite, Path: "process.db", Migrate: true},
	}

	if err := store.Save(settings); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	if store.Path() != "" {
		cmd.Printf("Wrote %s\n", store.Path())
	}
	return nil
}
