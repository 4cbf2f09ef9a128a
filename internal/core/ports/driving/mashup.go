package driving

import (
	"context"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// HandlerRegistry manages the sources a mashup fans out to.
type HandlerRegistry interface {
	// AddMetadataHandler registers a metadata source. Registering the same
	// handler twice is allowed.
	AddMetadataHandler(h driven.MetadataHandler)

	// AddProcessHandler registers a process source.
	AddProcessHandler(h driven.ProcessHandler)

	// CleanMetadataHandlers removes every metadata source.
	CleanMetadataHandlers()

	// CleanProcessHandlers removes every process source.
	CleanProcessHandlers()
}

// Mashup reconciles metadata and process sources into typed entities.
// Every query fans out to all registered handlers of the relevant kind.
type Mashup interface {
	HandlerRegistry

	// GetEntityByID returns the object or person with the identifier,
	// or nil when no source knows it.
	GetEntityByID(ctx context.Context, id string) (domain.Entity, error)

	// GetAllPeople returns every person, sorted by name.
	GetAllPeople(ctx context.Context) ([]domain.Person, error)

	// GetAllCulturalHeritageObjects returns every valid object, sorted by identifier.
	GetAllCulturalHeritageObjects(ctx context.Context) ([]*domain.CulturalHeritageObject, error)

	// GetAuthorsOfCulturalHeritageObject returns the authors of an object.
	GetAuthorsOfCulturalHeritageObject(ctx context.Context, objectID string) ([]domain.Person, error)

	// GetCulturalHeritageObjectsAuthoredBy returns the objects authored by a person.
	GetCulturalHeritageObjectsAuthoredBy(ctx context.Context, personID string) ([]*domain.CulturalHeritageObject, error)

	// GetCulturalHeritageObjectsByIDs resolves a batch of object identifiers.
	GetCulturalHeritageObjectsByIDs(ctx context.Context, ids []string) ([]*domain.CulturalHeritageObject, error)

	// GetAllActivities returns every activity on a known object.
	GetAllActivities(ctx context.Context) ([]domain.Activity, error)

	// GetActivitiesByResponsibleInstitution filters activities by institute substring.
	GetActivitiesByResponsibleInstitution(ctx context.Context, partialName string) ([]domain.Activity, error)

	// GetActivitiesByResponsiblePerson filters activities by person substring.
	GetActivitiesByResponsiblePerson(ctx context.Context, partialName string) ([]domain.Activity, error)

	// GetActivitiesUsingTool filters activities by tool substring.
	GetActivitiesUsingTool(ctx context.Context, partialName string) ([]domain.Activity, error)

	// GetActivitiesStartedAfter returns activities starting on or after date.
	GetActivitiesStartedAfter(ctx context.Context, date string) ([]domain.Activity, error)

	// GetActivitiesEndedBefore returns activities ending on or before date.
	GetActivitiesEndedBefore(ctx context.Context, date string) ([]domain.Activity, error)

	// GetAcquisitionsByTechnique filters acquisitions by technique substring.
	GetAcquisitionsByTechnique(ctx context.Context, partialName string) ([]domain.Activity, error)
}

// AdvancedMashup adds queries that join the metadata and process domains.
type AdvancedMashup interface {
	Mashup

	// GetActivitiesOnObjectsAuthoredBy returns activities on objects
	// authored by the person.
	GetActivitiesOnObjectsAuthoredBy(ctx context.Context, personID string) ([]domain.Activity, error)

	// GetObjectsHandledByResponsiblePerson returns objects with an activity
	// whose responsible person matches.
	GetObjectsHandledByResponsiblePerson(ctx context.Context, partialName string) ([]*domain.CulturalHeritageObject, error)

	// GetObjectsHandledByResponsibleInstitution returns objects with an
	// activity whose institute matches.
	GetObjectsHandledByResponsibleInstitution(ctx context.Context, partialName string) ([]*domain.CulturalHeritageObject, error)

	// GetAuthorsOfObjectsAcquiredInTimeFrame returns the authors of objects
	// acquired within [start, end].
	GetAuthorsOfObjectsAcquiredInTimeFrame(ctx context.Context, start, end string) ([]domain.Person, error)
}
