package file

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

const sampleConfig = `
fanout_limit = 4

[[metadata]]
name = "catalogue"
kind = "sparql"
url = "http://127.0.0.1:9999/blazegraph/sparql"
timeout = "15s"
requests_per_second = 2.5

[[metadata]]
kind = "ntriples"
path = "meta.nt"

[[process]]
kind = "sqlite"
path = "/var/lib/heritage/process.db"

[[process]]
kind = "postgres"
dsn = "postgres://heritage@localhost/heritage"
migrate = true
`

// setupTestConfig writes content to a config file in a temp dir and returns
// a store reading it with an empty environment.
func setupTestConfig(t *testing.T, content string, environ map[string]string) *ConfigStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	if environ == nil {
		environ = map[string]string{}
	}

	store, err := NewConfigStore(path, WithEnvironment(environ))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".heritage", "config.toml"), store.Path())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	store := setupTestConfig(t, "", nil)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoad_ParsesHandlers(t *testing.T) {
	store := setupTestConfig(t, sampleConfig, nil)

	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 4, settings.FanOutLimit)
	require.Len(t, settings.Metadata, 2)
	require.Len(t, settings.Process, 2)

	sparql := settings.Metadata[0]
	assert.Equal(t, "catalogue", sparql.Name)
	assert.Equal(t, domain.HandlerSPARQL, sparql.Kind)
	assert.Equal(t, 15*time.Second, sparql.Timeout)
	assert.InDelta(t, 2.5, sparql.RequestsPerSecond, 1e-9)

	assert.Equal(t, filepath.Join(filepath.Dir(store.Path()), "meta.nt"), settings.Metadata[1].Path,
		"relative paths resolve against the config directory")
	assert.Equal(t, domain.HandlerPostgres, settings.Process[1].Kind)
	assert.False(t, settings.Process[0].Migrate, "schema changes are opt-in")
	assert.True(t, settings.Process[1].Migrate)
}

func TestLoad_AbsolutePathKept(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path in fixture")
	}
	store := setupTestConfig(t, sampleConfig, nil)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/heritage/process.db", settings.Process[0].Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	store := setupTestConfig(t, sampleConfig, map[string]string{
		"HERITAGE_VERBOSE":    "true",
		"HERITAGE_FANOUT":     "0",
		"HERITAGE_SPARQL_RPS": "10",
	})

	settings, err := store.Load()
	require.NoError(t, err)

	assert.True(t, settings.Verbose)
	assert.Equal(t, 0, settings.FanOutLimit)
	assert.InDelta(t, 10.0, settings.Metadata[0].RequestsPerSecond, 1e-9)
	assert.Zero(t, settings.Metadata[1].RequestsPerSecond, "only sparql handlers are throttled")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		environ  map[string]string
		expected error
	}{
		{
			name:     "invalid toml",
			content:  "fanout_limit = [",
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "unknown kind",
			content:  "[[metadata]]\nkind = \"mongodb\"\n",
			expected: domain.ErrUnsupportedType,
		},
		{
			name:     "process kind in metadata list",
			content:  "[[metadata]]\nkind = \"sqlite\"\npath = \"p.db\"\n",
			expected: domain.ErrUnsupportedType,
		},
		{
			name:     "missing url",
			content:  "[[metadata]]\nkind = \"sparql\"\n",
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "bad timeout",
			content:  "[[process]]\nkind = \"sqlite\"\npath = \"p.db\"\ntimeout = \"soon\"\n",
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "migrate on metadata",
			content:  "[[metadata]]\nkind = \"ntriples\"\npath = \"m.nt\"\nmigrate = true\n",
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "negative fan-out",
			content:  "fanout_limit = -1\n",
			expected: domain.ErrInvalidInput,
		},
		{
			name:     "bad environment",
			environ:  map[string]string{"HERITAGE_FANOUT": "many"},
			expected: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestConfig(t, tt.content, tt.environ)

			_, err := store.Load()
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	store := setupTestConfig(t, "", nil)
	dir := filepath.Dir(store.Path())

	settings := domain.DefaultSettings()
	settings.FanOutLimit = 0
	settings.Metadata = []domain.HandlerConfig{
		{Kind: domain.HandlerSPARQL, URL: "http://localhost:9999/sparql", Timeout: 5 * time.Second},
	}
	settings.Process = []domain.HandlerConfig{
		{Name: "local", Kind: domain.HandlerSQLite, Path: filepath.Join(dir, "process.db")},
		{Kind: domain.HandlerPostgres, DSN: "postgres://heritage@localhost/heritage", Migrate: true},
	}

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSave_RejectsInvalid(t *testing.T) {
	store := setupTestConfig(t, "", nil)

	settings := domain.DefaultSettings()
	settings.Process = []domain.HandlerConfig{{Kind: domain.HandlerPostgres}}

	assert.ErrorIs(t, store.Save(settings), domain.ErrInvalidInput)
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestSave_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits differ on windows")
	}

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	store, err := NewConfigStore(path, WithEnvironment(map[string]string{}))
	require.NoError(t, err)

	require.NoError(t, store.Save(domain.DefaultSettings()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
