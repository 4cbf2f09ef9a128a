package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

func TestConfigStore_LoadReturnsCopy(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Process = []domain.HandlerConfig{{Kind: domain.HandlerSQLite, Path: "process.db"}}
	store := NewConfigStore(settings)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)

	loaded.Process[0].Path = "changed.db"
	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "process.db", again.Process[0].Path)
	assert.Empty(t, store.Path())
}

func TestConfigStore_Save(t *testing.T) {
	store := NewConfigStore(domain.DefaultSettings())

	settings := domain.DefaultSettings()
	settings.FanOutLimit = 0
	require.NoError(t, store.Save(settings))
	assert.Equal(t, 1, store.Saves())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.FanOutLimit)
}

func TestConfigStore_Invalid(t *testing.T) {
	invalid := domain.DefaultSettings()
	invalid.Metadata = []domain.HandlerConfig{{Kind: "mongodb"}}

	store := NewConfigStore(invalid)
	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	assert.ErrorIs(t, NewConfigStore(domain.DefaultSettings()).Save(invalid), domain.ErrUnsupportedType)
}
