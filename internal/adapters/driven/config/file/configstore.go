package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// fileSettings is the on-disk shape of domain.Settings.
//
//	fanout_limit = 4
//
//	[[metadata]]
//	kind = "sparql"
//	url = "http://localhost:9999/blazegraph/sparql"
//
//	[[process]]
//	kind = "sqlite"
//	path = "process.db"
//	migrate = true
type fileSettings struct {
	FanOutLimit *int          `toml:"fanout_limit,omitempty"`
	Verbose     bool          `toml:"verbose,omitempty"`
	Metadata    []fileHandler `toml:"metadata,omitempty"`
	Process     []fileHandler `toml:"process,omitempty"`
}

type fileHandler struct {
	Name              string  `toml:"name,omitempty"`
	Kind              string  `toml:"kind"`
	URL               string  `toml:"url,omitempty"`
	Path              string  `toml:"path,omitempty"`
	DSN               string  `toml:"dsn,omitempty"`
	Timeout           string  `toml:"timeout,omitempty"`
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
	Migrate           bool    `toml:"migrate,omitempty"`
}

// overrides are read from the environment. Unset variables stay nil.
type overrides struct {
	Verbose   *bool    `env:"HERITAGE_VERBOSE"`
	FanOut    *int     `env:"HERITAGE_FANOUT"`
	SPARQLRPS *float64 `env:"HERITAGE_SPARQL_RPS"`
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Handler paths relative to the file are resolved against its directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	environ  map[string]string
}

// Option configures a ConfigStore.
type Option func(*ConfigStore)

// WithEnvironment reads overrides from environ instead of the process
// environment.
func WithEnvironment(environ map[string]string) Option {
	return func(s *ConfigStore) {
		s.environ = environ
	}
}

// NewConfigStore creates a TOML config store for the file at configPath.
// If configPath is empty, defaults to ~/.heritage/config.toml.
func NewConfigStore(configPath string, opts ...Option) (*ConfigStore, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		configPath = filepath.Join(home, ".heritage", "config.toml")
	}

	s := &ConfigStore{filePath: configPath}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads the settings, applies environment overrides and validates the
// result. A missing file yields default settings.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file yet; sources can still come from flags.
	case err != nil:
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	default:
		var fs fileSettings
		if err := toml.Unmarshal(data, &fs); err != nil {
			return domain.Settings{}, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidInput, s.filePath, err)
		}
		if settings, err = s.fromFile(fs); err != nil {
			return domain.Settings{}, err
		}
	}

	if err := s.applyOverrides(&settings); err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Save persists the settings with restricted permissions.
func (s *ConfigStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFile(settings))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (s *ConfigStore) fromFile(fs fileSettings) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if fs.FanOutLimit != nil {
		settings.FanOutLimit = *fs.FanOutLimit
	}
	settings.Verbose = fs.Verbose

	for _, h := range fs.Metadata {
		cfg, err := s.handler(h)
		if err != nil {
			return domain.Settings{}, err
		}
		settings.Metadata = append(settings.Metadata, cfg)
	}
	for _, h := range fs.Process {
		cfg, err := s.handler(h)
		if err != nil {
			return domain.Settings{}, err
		}
		settings.Process = append(settings.Process, cfg)
	}
	return settings, nil
}

func (s *ConfigStore) handler(h fileHandler) (domain.HandlerConfig, error) {
	cfg := domain.HandlerConfig{
		Name:              h.Name,
		Kind:              domain.HandlerKind(h.Kind),
		URL:               h.URL,
		Path:              h.Path,
		DSN:               h.DSN,
		RequestsPerSecond: h.RequestsPerSecond,
		Migrate:           h.Migrate,
	}
	if h.Timeout != "" {
		d, err := time.ParseDuration(h.Timeout)
		if err != nil || d < 0 {
			return domain.HandlerConfig{}, fmt.Errorf("%w: handler %q timeout %q", domain.ErrInvalidInput, cfg.Label(), h.Timeout)
		}
		cfg.Timeout = d
	}
	if cfg.Path != "" && !filepath.IsAbs(cfg.Path) {
		cfg.Path = filepath.Join(filepath.Dir(s.filePath), cfg.Path)
	}
	return cfg, nil
}

func (s *ConfigStore) applyOverrides(settings *domain.Settings) error {
	var o overrides
	opts := env.Options{}
	if s.environ != nil {
		opts.Environment = s.environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("%w: environment: %v", domain.ErrInvalidInput, err)
	}

	if o.Verbose != nil {
		settings.Verbose = *o.Verbose
	}
	if o.FanOut != nil {
		settings.FanOutLimit = *o.FanOut
	}
	if o.SPARQLRPS != nil {
		for i := range settings.Metadata {
			if settings.Metadata[i].Kind == domain.HandlerSPARQL {
				settings.Metadata[i].RequestsPerSecond = *o.SPARQLRPS
			}
		}
	}
	return nil
}

func toFile(settings domain.Settings) fileSettings {
	limit := settings.FanOutLimit
	fs := fileSettings{
		FanOutLimit: &limit,
		Verbose:     settings.Verbose,
	}
	for _, h := range settings.Metadata {
		fs.Metadata = append(fs.Metadata, toFileHandler(h))
	}
	for _, h := range settings.Process {
		fs.Process = append(fs.Process, toFileHandler(h))
	}
	return fs
}

func toFileHandler(h domain.HandlerConfig) fileHandler {
	fh := fileHandler{
		Name:              h.Name,
		Kind:              string(h.Kind),
		URL:               h.URL,
		Path:              h.Path,
		DSN:               h.DSN,
		RequestsPerSecond: h.RequestsPerSecond,
		Migrate:           h.Migrate,
	}
	if h.Timeout > 0 {
		fh.Timeout = h.Timeout.String()
	}
	return fh
}
