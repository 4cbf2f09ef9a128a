package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/logger"
)

// OpenMashup builds a mashup from settings, opening every configured
// handler through factory in configuration order. On error the handlers
// opened so far stay with the factory, which the caller closes.
func OpenMashup(
	ctx context.Context, settings domain.Settings, factory driven.HandlerFactory, opts ...Option,
) (*Mashup, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	opts = append([]Option{WithFanOutLimit(settings.FanOutLimit)}, opts...)
	m := NewMashup(opts...)

	for _, cfg := range settings.Metadata {
		h, err := factory.OpenMetadata(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("metadata handler %s: %w", cfg.Label(), err)
		}
		m.AddMetadataHandler(h)
	}
	for _, cfg := range settings.Process {
		h, err := factory.OpenProcess(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("process handler %s: %w", cfg.Label(), err)
		}
		m.AddProcessHandler(h)
	}

	logger.Debug("Mashup ready: %d metadata, %d process handler(s)", len(settings.Metadata), len(settings.Process))
	return m, nil
}
