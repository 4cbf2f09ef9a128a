package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// HandlerKind identifies the storage technology behind a handler.
type HandlerKind string

// Available handler kinds.
const (
	// HandlerSPARQL is a remote SPARQL endpoint holding metadata triples.
	HandlerSPARQL HandlerKind = "sparql"

	// HandlerSQLite is a local SQLite database holding process tables.
	HandlerSQLite HandlerKind = "sqlite"

	// HandlerPostgres is a PostgreSQL database holding process tables.
	HandlerPostgres HandlerKind = "postgres"

	// HandlerNTriples is a local N-Triples file loaded into memory.
	HandlerNTriples HandlerKind = "ntriples"
)

// IsValid returns true if the handler kind is recognised.
func (k HandlerKind) IsValid() bool {
	switch k {
	case HandlerSPARQL, HandlerSQLite, HandlerPostgres, HandlerNTriples:
		return true
	default:
		return false
	}
}

// IsMetadata returns true if the kind serves metadata queries.
func (k HandlerKind) IsMetadata() bool {
	return k == HandlerSPARQL || k == HandlerNTriples
}

// IsProcess returns true if the kind serves process queries.
func (k HandlerKind) IsProcess() bool {
	return k == HandlerSQLite || k == HandlerPostgres
}

// String returns the string representation.
func (k HandlerKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k HandlerKind) Description() string {
	switch k {
	case HandlerSPARQL:
		return "SPARQL endpoint (metadata)"
	case HandlerSQLite:
		return "SQLite database (process)"
	case HandlerPostgres:
		return "PostgreSQL database (process)"
	case HandlerNTriples:
		return "N-Triples file (metadata)"
	default:
		return unknownDescription
	}
}

// HandlerConfig describes one configured source.
type HandlerConfig struct {
	// Name labels the handler in logs. Optional.
	Name string

	// Kind selects the adapter.
	Kind HandlerKind

	// URL is the SPARQL endpoint URL.
	URL string

	// Path is the SQLite database or N-Triples file.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string

	// Timeout bounds each request to the store. Zero uses the adapter default.
	Timeout time.Duration

	// RequestsPerSecond throttles SPARQL requests. Zero disables throttling.
	RequestsPerSecond float64

	// Migrate creates or upgrades the process schema when the handler opens.
	// Off, the database must already hold it and is only read.
	Migrate bool
}

// Label returns the name, falling back to the kind.
func (c HandlerConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.Kind)
}

// Validate checks that the fields required by the kind are present.
func (c HandlerConfig) Validate() error {
	switch c.Kind {
	case HandlerSPARQL:
		if c.URL == "" {
			return fmt.Errorf("%w: sparql handler %q requires url", ErrInvalidInput, c.Label())
		}
	case HandlerSQLite:
		if c.Path == "" {
			return fmt.Errorf("%w: sqlite handler %q requires path", ErrInvalidInput, c.Label())
		}
	case HandlerNTriples:
		if c.Path == "" {
			return fmt.Errorf("%w: ntriples handler %q requires path", ErrInvalidInput, c.Label())
		}
	case HandlerPostgres:
		if c.DSN == "" {
			return fmt.Errorf("%w: postgres handler %q requires dsn", ErrInvalidInput, c.Label())
		}
	default:
		return fmt.Errorf("%w: handler kind %q", ErrUnsupportedType, c.Kind)
	}
	if c.Migrate && !c.Kind.IsProcess() {
		return fmt.Errorf("%w: %s handler %q cannot migrate", ErrInvalidInput, c.Kind, c.Label())
	}
	return nil
}

// Settings is the application configuration.
type Settings struct {
	// Metadata lists the metadata sources in registration order.
	Metadata []HandlerConfig

	// Process lists the process sources in registration order.
	Process []HandlerConfig

	// FanOutLimit bounds concurrent handler calls per query.
	// 1 queries handlers one after another; 0 removes the bound.
	FanOutLimit int

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns settings with no sources and sequential fan-out.
func DefaultSettings() Settings {
	return Settings{
		Metadata:    []HandlerConfig{},
		Process:     []HandlerConfig{},
		FanOutLimit: 1,
	}
}

// Validate checks every handler and that each sits in the right list.
func (s Settings) Validate() error {
	if s.FanOutLimit < 0 {
		return fmt.Errorf("%w: fan-out limit %d", ErrInvalidInput, s.FanOutLimit)
	}
	for _, h := range s.Metadata {
		if err := h.Validate(); err != nil {
			return err
		}
		if !h.Kind.IsMetadata() {
			return fmt.Errorf("%w: %s cannot serve metadata", ErrUnsupportedType, h.Kind)
		}
	}
	for _, h := range s.Process {
		if err := h.Validate(); err != nil {
			return err
		}
		if !h.Kind.IsProcess() {
			return fmt.Errorf("%w: %s cannot serve process data", ErrUnsupportedType, h.Kind)
		}
	}
	return nil
}
