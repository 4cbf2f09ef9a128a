package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/logger"
)

// ObjectResolver resolves a batch of object identifiers to reconciled objects.
type ObjectResolver func(ctx context.Context, ids []string) ([]*domain.CulturalHeritageObject, error)

// Linker binds activity rows to the objects they refer to.
type Linker struct {
	resolve ObjectResolver
}

// NewLinker creates a linker that looks objects up through resolve.
func NewLinker(resolve ObjectResolver) *Linker {
	return &Linker{resolve: resolve}
}

// Link resolves every distinct object referenced by rows in a single batch
// and returns the activities whose object is known. Activities on objects
// no metadata source knows are dropped. Row order is preserved.
func (l *Linker) Link(ctx context.Context, rows []domain.ActivityRow) ([]domain.Activity, error) {
	if len(rows) == 0 {
		return []domain.Activity{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.RefersTo)
	}
	slices.SortFunc(ids, compareRecordKeys)
	ids = slices.Compact(ids)

	objects, err := l.resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve referenced objects: %w", err)
	}

	index := make(map[string]*domain.CulturalHeritageObject, len(objects))
	for _, o := range objects {
		index[o.Identifier] = o
	}

	activities := ToActivities(rows, index)
	if dropped := len(rows) - len(activities); dropped > 0 {
		logger.Debug("Dropped %d activities on %d unknown object(s)", dropped, len(ids)-len(index))
	}

	return activities, nil
}
