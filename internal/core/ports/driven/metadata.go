package driven

import (
	"context"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// MetadataHandler answers bibliographic queries over one graph store.
// Any number of handlers may be registered with the mashup; results from
// all of them are reconciled together.
type MetadataHandler interface {
	// GetByID looks up identifiers. Object rows are returned when any object
	// matches; otherwise person rows for matching people; otherwise nothing.
	GetByID(ctx context.Context, ids []string) (domain.EntityTable, error)

	// GetAllPeople returns every person, sorted by name.
	GetAllPeople(ctx context.Context) ([]domain.PersonRow, error)

	// GetAllCulturalHeritageObjects returns every object row, sorted by
	// identifier.
	GetAllCulturalHeritageObjects(ctx context.Context) ([]domain.ObjectRow, error)

	// GetAuthorsOfCulturalHeritageObject returns the authors of an object.
	GetAuthorsOfCulturalHeritageObject(ctx context.Context, objectID string) ([]domain.PersonRow, error)

	// GetCulturalHeritageObjectsAuthoredBy returns the objects a person
	// authored, with every author of each object.
	GetCulturalHeritageObjectsAuthoredBy(ctx context.Context, personID string) ([]domain.ObjectRow, error)
}
