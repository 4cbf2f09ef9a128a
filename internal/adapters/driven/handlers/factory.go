// Package handlers opens metadata and process handlers from configuration.
//
// The factory keeps a registry from handler kind to builder. Builders for
// every built-in kind are registered by NewFactory; tests and embedders may
// register their own. Every handler that holds a resource is closed by
// Factory.Close, in reverse opening order.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/heritage/internal/adapters/driven/sparql"
	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/logger"
)

// Ensure Factory implements the interface.
var _ driven.HandlerFactory = (*Factory)(nil)

// MetadataBuilder opens a metadata handler. The closer may be nil.
type MetadataBuilder func(ctx context.Context, cfg domain.HandlerConfig) (driven.MetadataHandler, io.Closer, error)

// ProcessBuilder opens a process handler. The closer may be nil.
type ProcessBuilder func(ctx context.Context, cfg domain.HandlerConfig) (driven.ProcessHandler, io.Closer, error)

// Factory is the default driven.HandlerFactory.
type Factory struct {
	mu       sync.Mutex
	metadata map[domain.HandlerKind]MetadataBuilder
	process  map[domain.HandlerKind]ProcessBuilder
	closers  []io.Closer
}

// NewFactory returns a factory with builders for every built-in kind.
func NewFactory() *Factory {
	f := &Factory{
		metadata: make(map[domain.HandlerKind]MetadataBuilder),
		process:  make(map[domain.HandlerKind]ProcessBuilder),
	}
	f.RegisterMetadata(domain.HandlerSPARQL, openSPARQL)
	f.RegisterMetadata(domain.HandlerNTriples, openNTriples)
	f.RegisterProcess(domain.HandlerSQLite, openSQLite)
	f.RegisterProcess(domain.HandlerPostgres, openPostgres)
	return f
}

// RegisterMetadata adds or replaces the metadata builder for kind.
func (f *Factory) RegisterMetadata(kind domain.HandlerKind, b MetadataBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata[kind] = b
}

// RegisterProcess adds or replaces the process builder for kind.
func (f *Factory) RegisterProcess(kind domain.HandlerKind, b ProcessBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.process[kind] = b
}

// OpenMetadata opens a metadata handler for cfg.
func (f *Factory) OpenMetadata(ctx context.Context, cfg domain.HandlerConfig) (driven.MetadataHandler, error) {
	f.mu.Lock()
	build, ok := f.metadata[cfg.Kind]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a metadata handler kind", domain.ErrUnsupportedType, cfg.Kind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h, closer, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Label(), err)
	}
	f.track(closer)
	logger.Debug("Opened metadata handler %s (%s)", cfg.Label(), cfg.Kind.Description())
	return h, nil
}

// OpenProcess opens a process handler for cfg.
func (f *Factory) OpenProcess(ctx context.Context, cfg domain.HandlerConfig) (driven.ProcessHandler, error) {
	f.mu.Lock()
	build, ok := f.process[cfg.Kind]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a process handler kind", domain.ErrUnsupportedType, cfg.Kind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h, closer, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Label(), err)
	}
	f.track(closer)
	logger.Debug("Opened process handler %s (%s)", cfg.Label(), cfg.Kind.Description())
	return h, nil
}

// Close releases every opened handler, most recent first.
func (f *Factory) Close() error {
	f.mu.Lock()
	closers := f.closers
	f.closers = nil
	f.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Factory) track(c io.Closer) {
	if c == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closers = append(f.closers, c)
}

func openSPARQL(_ context.Context, cfg domain.HandlerConfig) (driven.MetadataHandler, io.Closer, error) {
	c, err := sparql.NewClient(cfg.URL,
		sparql.WithTimeout(cfg.Timeout),
		sparql.WithRequestsPerSecond(cfg.RequestsPerSecond),
	)
	if err != nil {
		return nil, nil, err
	}
	return c, nil, nil
}

func openNTriples(_ context.Context, cfg domain.HandlerConfig) (driven.MetadataHandler, io.Closer, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening triples: %w", err)
	}
	defer f.Close()

	g, err := memory.LoadGraph(f)
	if err != nil {
		return nil, nil, err
	}
	return g, nil, nil
}

func openSQLite(_ context.Context, cfg domain.HandlerConfig) (driven.ProcessHandler, io.Closer, error) {
	if cfg.Migrate {
		if err := sqlite.Bootstrap(cfg.Path); err != nil {
			return nil, nil, err
		}
	}
	s, err := sqlite.NewProcessStore(cfg.Path, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

func openPostgres(ctx context.Context, cfg domain.HandlerConfig) (driven.ProcessHandler, io.Closer, error) {
	var opts []postgres.Option
	if cfg.Migrate {
		opts = append(opts, postgres.WithMigrations())
	}
	s, err := postgres.NewProcessStore(ctx, cfg.DSN, cfg.Timeout, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}
