package driven

import (
	"context"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// HandlerFactory opens the sources described by configuration.
// Handlers it opens stay valid until Close.
type HandlerFactory interface {
	// OpenMetadata returns a metadata handler for cfg.
	// Returns ErrUnsupportedType if the kind cannot serve metadata.
	OpenMetadata(ctx context.Context, cfg domain.HandlerConfig) (MetadataHandler, error)

	// OpenProcess returns a process handler for cfg.
	// Returns ErrUnsupportedType if the kind cannot serve process data.
	OpenProcess(ctx context.Context, cfg domain.HandlerConfig) (ProcessHandler, error)

	// Close releases every handler opened so far.
	Close() error
}
