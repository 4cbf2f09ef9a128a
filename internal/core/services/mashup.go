package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/core/ports/driving"
	"github.com/custodia-labs/heritage/internal/logger"
)

// Ensure Mashup implements the interfaces.
var (
	_ driving.Mashup         = (*Mashup)(nil)
	_ driving.AdvancedMashup = (*Mashup)(nil)
)

// DefaultFanOutLimit queries handlers one at a time.
const DefaultFanOutLimit = 1

// Mashup reconciles every registered metadata and process handler into one
// typed view. It is safe for concurrent use.
type Mashup struct {
	mu       sync.RWMutex
	metadata []driven.MetadataHandler
	process  []driven.ProcessHandler

	fanOutLimit int
	linker      *Linker
}

// Option configures a Mashup.
type Option func(*Mashup)

// WithFanOutLimit bounds how many handlers are queried at once.
// Zero means no bound; negative values are ignored.
func WithFanOutLimit(n int) Option {
	return func(m *Mashup) {
		if n >= 0 {
			m.fanOutLimit = n
		}
	}
}

// NewMashup creates a mashup with no handlers.
func NewMashup(opts ...Option) *Mashup {
	m := &Mashup{
		metadata:    make([]driven.MetadataHandler, 0),
		process:     make([]driven.ProcessHandler, 0),
		fanOutLimit: DefaultFanOutLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.linker = NewLinker(m.GetCulturalHeritageObjectsByIDs)
	return m
}

// AddMetadataHandler registers a metadata source.
func (m *Mashup) AddMetadataHandler(h driven.MetadataHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata = append(m.metadata, h)
}

// AddProcessHandler registers a process source.
func (m *Mashup) AddProcessHandler(h driven.ProcessHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.process = append(m.process, h)
}

// CleanMetadataHandlers removes every metadata source.
func (m *Mashup) CleanMetadataHandlers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata = make([]driven.MetadataHandler, 0)
}

// CleanProcessHandlers removes every process source.
func (m *Mashup) CleanProcessHandlers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.process = make([]driven.ProcessHandler, 0)
}

// MetadataHandlers returns a copy of the registered metadata sources.
func (m *Mashup) MetadataHandlers() []driven.MetadataHandler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.metadata)
}

// ProcessHandlers returns a copy of the registered process sources.
func (m *Mashup) ProcessHandlers() []driven.ProcessHandler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.process)
}

// queryMetadata fans call out to a snapshot of the metadata handlers.
func queryMetadata[T any](
	ctx context.Context, m *Mashup, call func(context.Context, driven.MetadataHandler) (T, error),
) ([]T, error) {
	handlers := m.MetadataHandlers()
	logger.Debug("Querying %d metadata handler(s), fan-out limit %d", len(handlers), m.fanOutLimit)
	return fanOut(ctx, m.fanOutLimit, handlers, call)
}

// queryProcess fans call out to a snapshot of the process handlers.
func queryProcess(
	ctx context.Context, m *Mashup, call func(context.Context, driven.ProcessHandler) ([]domain.ActivityRow, error),
) ([][]domain.ActivityRow, error) {
	handlers := m.ProcessHandlers()
	logger.Debug("Querying %d process handler(s), fan-out limit %d", len(handlers), m.fanOutLimit)
	return fanOut(ctx, m.fanOutLimit, handlers, call)
}

// GetEntityByID returns the object or person with the identifier. Object
// rows take precedence: people are only considered when no handler
// returned an object. Returns nil when nothing valid matches.
func (m *Mashup) GetEntityByID(ctx context.Context, id string) (domain.Entity, error) {
	logger.Section("Get Entity By ID")
	logger.Debug("Identifier: %q", id)

	if id == "" {
		return nil, nil
	}

	tables, err := queryMetadata(ctx, m, func(ctx context.Context, h driven.MetadataHandler) (domain.EntityTable, error) {
		return h.GetByID(ctx, []string{id})
	})
	if err != nil {
		return nil, fmt.Errorf("get entity by id: %w", err)
	}

	var objectTables [][]domain.ObjectRow
	var personTables [][]domain.PersonRow
	for _, t := range tables {
		if len(t.Objects) > 0 {
			objectTables = append(objectTables, t.Objects)
		}
		if len(t.People) > 0 {
			personTables = append(personTables, t.People)
		}
	}

	if len(objectTables) > 0 {
		for _, o := range ToObjects(NormaliseObjects(objectTables...)) {
			if o.Identifier == id {
				return o, nil
			}
		}
		logger.Debug("Object rows for %q did not survive validation", id)
		return nil, nil
	}

	for _, p := range ToPeople(NormalisePeople(personTables...)) {
		if p.Identifier == id {
			return p, nil
		}
	}

	logger.Debug("No entity found for %q", id)
	return nil, nil
}

// GetAllPeople returns every person known to any metadata source.
func (m *Mashup) GetAllPeople(ctx context.Context) ([]domain.Person, error) {
	logger.Section("Get All People")

	tables, err := queryMetadata(ctx, m, func(ctx context.Context, h driven.MetadataHandler) ([]domain.PersonRow, error) {
		return h.GetAllPeople(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get all people: %w", err)
	}

	return ToPeople(NormalisePeople(tables...)), nil
}

// GetAllCulturalHeritageObjects returns every valid object.
func (m *Mashup) GetAllCulturalHeritageObjects(ctx context.Context) ([]*domain.CulturalHeritageObject, error) {
	logger.Section("Get All Cultural Heritage Objects")

	tables, err := queryMetadata(ctx, m, func(ctx context.Context, h driven.MetadataHandler) ([]domain.ObjectRow, error) {
		return h.GetAllCulturalHeritageObjects(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get all cultural heritage objects: %w", err)
	}

	return ToObjects(NormaliseObjects(tables...)), nil
}

// GetAuthorsOfCulturalHeritageObject returns the authors of an object,
// sorted by name.
func (m *Mashup) GetAuthorsOfCulturalHeritageObject(ctx context.Context, objectID string) ([]domain.Person, error) {
	logger.Section("Get Authors Of Cultural Heritage Object")
	logger.Debug("Object: %q", objectID)

	tables, err := queryMetadata(ctx, m, func(ctx context.Context, h driven.MetadataHandler) ([]domain.PersonRow, error) {
		return h.GetAuthorsOfCulturalHeritageObject(ctx, objectID)
	})
	if err != nil {
		return nil, fmt.Errorf("get authors of cultural heritage object: %w", err)
	}

	return ToPeople(NormalisePeople(tables...)), nil
}

// GetCulturalHeritageObjectsAuthoredBy returns the objects a person authored,
// each with its complete author list.
func (m *Mashup) GetCulturalHeritageObjectsAuthoredBy(
	ctx context.Context, personID string,
) ([]*domain.CulturalHeritageObject, error) {
	logger.Section("Get Cultural Heritage Objects Authored By")
	logger.Debug("Person: %q", personID)

	tables, err := queryMetadata(ctx, m, func(ctx context.Context, h driven.MetadataHandler) ([]domain.ObjectRow, error) {
		return h.GetCulturalHeritageObjectsAuthoredBy(ctx, personID)
	})
	if err != nil {
		return nil, fmt.Errorf("get cultural heritage objects authored by: %w", err)
	}

	return ToObjects(NormaliseObjects(tables...)), nil
}

// GetCulturalHeritageObjectsByIDs resolves a batch of object identifiers in
// one round trip per handler. Unknown identifiers are skipped.
func (m *Mashup) GetCulturalHeritageObjectsByIDs(
	ctx context.Context, ids []string,
) ([]*domain.CulturalHeritageObject, error) {
	if len(ids) == 0 {
		return []*domain.CulturalHeritageObject{}, nil
	}

	tables, err := queryMetadata(ctx, m, func(ctx context.Context, h driven.MetadataHandler) ([]domain.ObjectRow, error) {
		t, err := h.GetByID(ctx, ids)
		return t.Objects, err
	})
	if err != nil {
		return nil, fmt.Errorf("get cultural heritage objects by ids: %w", err)
	}

	return ToObjects(NormaliseObjects(tables...)), nil
}

// activities pools the rows returned by call and links them to their objects.
func (m *Mashup) activities(
	ctx context.Context, query string, call func(context.Context, driven.ProcessHandler) ([]domain.ActivityRow, error),
) ([]domain.Activity, error) {
	defer logger.Timed(query)()

	tables, err := queryProcess(ctx, m, call)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", query, err)
	}

	activities, err := m.linker.Link(ctx, NormaliseActivities(tables...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", query, err)
	}

	logger.Debug("%s: %d activities", query, len(activities))
	return activities, nil
}

// GetAllActivities returns every activity on a known object.
func (m *Mashup) GetAllActivities(ctx context.Context) ([]domain.Activity, error) {
	logger.Section("Get All Activities")
	return m.activities(ctx, "get all activities",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetAllActivities(ctx)
		})
}

// GetActivitiesByResponsibleInstitution returns activities whose institute
// contains partialName, ignoring case.
func (m *Mashup) GetActivitiesByResponsibleInstitution(
	ctx context.Context, partialName string,
) ([]domain.Activity, error) {
	logger.Section("Get Activities By Responsible Institution")
	return m.activities(ctx, "get activities by responsible institution",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetActivitiesByResponsibleInstitution(ctx, partialName)
		})
}

// GetActivitiesByResponsiblePerson returns activities whose responsible
// person contains partialName, ignoring case.
func (m *Mashup) GetActivitiesByResponsiblePerson(
	ctx context.Context, partialName string,
) ([]domain.Activity, error) {
	logger.Section("Get Activities By Responsible Person")
	return m.activities(ctx, "get activities by responsible person",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetActivitiesByResponsiblePerson(ctx, partialName)
		})
}

// GetActivitiesUsingTool returns activities with a tool containing
// partialName, ignoring case.
func (m *Mashup) GetActivitiesUsingTool(ctx context.Context, partialName string) ([]domain.Activity, error) {
	logger.Section("Get Activities Using Tool")
	return m.activities(ctx, "get activities using tool",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetActivitiesUsingTool(ctx, partialName)
		})
}

// GetActivitiesStartedAfter returns activities starting on or after date.
func (m *Mashup) GetActivitiesStartedAfter(ctx context.Context, date string) ([]domain.Activity, error) {
	logger.Section("Get Activities Started After")
	return m.activities(ctx, "get activities started after",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetActivitiesStartedAfter(ctx, date)
		})
}

// GetActivitiesEndedBefore returns activities ending on or before date.
func (m *Mashup) GetActivitiesEndedBefore(ctx context.Context, date string) ([]domain.Activity, error) {
	logger.Section("Get Activities Ended Before")
	return m.activities(ctx, "get activities ended before",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetActivitiesEndedBefore(ctx, date)
		})
}

// GetAcquisitionsByTechnique returns acquisitions whose technique contains
// partialName, ignoring case.
func (m *Mashup) GetAcquisitionsByTechnique(ctx context.Context, partialName string) ([]domain.Activity, error) {
	logger.Section("Get Acquisitions By Technique")
	return m.activities(ctx, "get acquisitions by technique",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetAcquisitionsByTechnique(ctx, partialName)
		})
}
