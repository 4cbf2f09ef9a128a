package handlers

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage/internal/adapters/driven/rdf"
	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/heritage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// closerFunc adapts a function to io.Closer.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func writeTriples(t *testing.T, path string) {
	t.Helper()

	o := domain.NewCulturalHeritageObject(domain.ClassPainting, "1", "Portrait", "Museum", "Bologna", "1600")
	o.AddAuthor(domain.Person{Identifier: "VIAF:1", Name: "Aldrovandi, Ulisse"})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, rdf.WriteNTriples(f, rdf.ObjectTriples(o)))
}

func TestOpenMetadata_NTriples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.nt")
	writeTriples(t, path)

	f := NewFactory()
	defer f.Close()

	h, err := f.OpenMetadata(context.Background(), domain.HandlerConfig{Kind: domain.HandlerNTriples, Path: path})
	require.NoError(t, err)
	assert.IsType(t, &memory.Graph{}, h)

	rows, err := h.GetAllCulturalHeritageObjects(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VIAF:1", rows[0].AuthorID)
}

func TestOpenMetadata_SPARQL(t *testing.T) {
	f := NewFactory()
	defer f.Close()

	h, err := f.OpenMetadata(context.Background(), domain.HandlerConfig{
		Kind: domain.HandlerSPARQL, URL: "http://127.0.0.1:9999/blazegraph/sparql", RequestsPerSecond: 5,
	})
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestOpenProcess_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "process.db")
	require.NoError(t, sqlite.Bootstrap(path))
	f := NewFactory()

	h, err := f.OpenProcess(context.Background(), domain.HandlerConfig{
		Kind: domain.HandlerSQLite, Path: path,
	})
	require.NoError(t, err)

	rows, err := h.GetAllActivities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, f.Close())
	_, err = h.GetAllActivities(context.Background())
	assert.Error(t, err, "closed store refuses queries")
}

func TestOpenProcess_SQLiteMissingFile(t *testing.T) {
	f := NewFactory()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "typo", "proces.db")

	_, err := f.OpenProcess(context.Background(), domain.HandlerConfig{Kind: domain.HandlerSQLite, Path: path})

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, path)
}

func TestOpenProcess_SQLiteMigrate(t *testing.T) {
	f := NewFactory()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "data", "process.db")

	h, err := f.OpenProcess(context.Background(), domain.HandlerConfig{
		Kind: domain.HandlerSQLite, Path: path, Migrate: true,
	})
	require.NoError(t, err)
	assert.FileExists(t, path)

	rows, err := h.GetAllActivities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpen_Errors(t *testing.T) {
	f := NewFactory()
	defer f.Close()
	ctx := context.Background()

	tests := []struct {
		name     string
		open     func() error
		expected error
	}{
		{
			name: "process kind as metadata",
			open: func() error {
				_, err := f.OpenMetadata(ctx, domain.HandlerConfig{Kind: domain.HandlerSQLite, Path: "p.db"})
				return err
			},
			expected: domain.ErrUnsupportedType,
		},
		{
			name: "metadata kind as process",
			open: func() error {
				_, err := f.OpenProcess(ctx, domain.HandlerConfig{Kind: domain.HandlerSPARQL, URL: "http://x"})
				return err
			},
			expected: domain.ErrUnsupportedType,
		},
		{
			name: "missing url",
			open: func() error {
				_, err := f.OpenMetadata(ctx, domain.HandlerConfig{Kind: domain.HandlerSPARQL})
				return err
			},
			expected: domain.ErrInvalidInput,
		},
		{
			name: "missing triples file",
			open: func() error {
				_, err := f.OpenMetadata(ctx, domain.HandlerConfig{Kind: domain.HandlerNTriples, Path: "/nonexistent/meta.nt"})
				return err
			},
			expected: os.ErrNotExist,
		},
		{
			name: "migrate on a metadata handler",
			open: func() error {
				_, err := f.OpenMetadata(ctx, domain.HandlerConfig{Kind: domain.HandlerSPARQL, URL: "http://x", Migrate: true})
				return err
			},
			expected: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.open(), tt.expected)
		})
	}
}

func TestRegister_CustomBuilderAndCloseOrder(t *testing.T) {
	f := NewFactory()
	store := memory.NewProcessStore()

	var closed []string
	f.RegisterProcess("fixture", func(_ context.Context, cfg domain.HandlerConfig) (driven.ProcessHandler, io.Closer, error) {
		return store, closerFunc(func() error {
			closed = append(closed, cfg.Name)
			return nil
		}), nil
	})
	// Validate rejects unknown kinds, so the custom builder is reached
	// through a known kind.
	f.RegisterProcess(domain.HandlerPostgres, func(_ context.Context, cfg domain.HandlerConfig) (driven.ProcessHandler, io.Closer, error) {
		return store, closerFunc(func() error {
			closed = append(closed, cfg.Name)
			return errors.New("close failed")
		}), nil
	})

	ctx := context.Background()
	_, err := f.OpenProcess(ctx, domain.HandlerConfig{Name: "first", Kind: domain.HandlerPostgres, DSN: "postgres://a"})
	require.NoError(t, err)
	_, err = f.OpenProcess(ctx, domain.HandlerConfig{Name: "second", Kind: domain.HandlerPostgres, DSN: "postgres://b"})
	require.NoError(t, err)

	_, err = f.OpenProcess(ctx, domain.HandlerConfig{Name: "odd", Kind: "fixture"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	err = f.Close()
	assert.ErrorContains(t, err, "close failed")
	assert.Equal(t, []string{"second", "first"}, closed)

	assert.NoError(t, f.Close(), "second close is a no-op")
}
