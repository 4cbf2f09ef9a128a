package memory

import (
	"slices"
	"sync"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu       sync.RWMutex
	settings domain.Settings
	saves    int
}

// NewConfigStore creates a config store holding settings.
func NewConfigStore(settings domain.Settings) *ConfigStore {
	return &ConfigStore{settings: cloneSettings(settings)}
}

// Load returns a copy of the stored settings after validating them.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return cloneSettings(s.settings), nil
}

// Save replaces the stored settings.
func (s *ConfigStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cloneSettings(settings)
	s.saves++
	return nil
}

// Path returns an empty path; nothing is persisted.
func (s *ConfigStore) Path() string {
	return ""
}

// Saves returns how many times Save succeeded.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneSettings(settings domain.Settings) domain.Settings {
	out := settings
	out.Metadata = slices.Clone(settings.Metadata)
	out.Process = slices.Clone(settings.Process)
	return out
}
