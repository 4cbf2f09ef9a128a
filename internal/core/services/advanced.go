package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
	"github.com/custodia-labs/heritage/internal/logger"
)

// GetActivitiesOnObjectsAuthoredBy returns every activity on the objects
// the person authored.
func (m *Mashup) GetActivitiesOnObjectsAuthoredBy(ctx context.Context, personID string) ([]domain.Activity, error) {
	objects, err := m.GetCulturalHeritageObjectsAuthoredBy(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("get activities on objects authored by: %w", err)
	}

	logger.Section("Get Activities On Objects Authored By")
	if len(objects) == 0 {
		logger.Debug("Person %q authored no known objects", personID)
		return []domain.Activity{}, nil
	}

	ids := objectIDs(objects)
	return m.activities(ctx, "get activities on objects authored by",
		func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
			return h.GetByID(ctx, ids)
		})
}

// GetObjectsHandledByResponsiblePerson returns the objects with at least
// one activity whose responsible person contains partialName.
func (m *Mashup) GetObjectsHandledByResponsiblePerson(
	ctx context.Context, partialName string,
) ([]*domain.CulturalHeritageObject, error) {
	activities, err := m.GetActivitiesByResponsiblePerson(ctx, partialName)
	if err != nil {
		return nil, fmt.Errorf("get objects handled by responsible person: %w", err)
	}
	return handledObjects(activities), nil
}

// GetObjectsHandledByResponsibleInstitution returns the objects with at
// least one activity whose institute contains partialName.
func (m *Mashup) GetObjectsHandledByResponsibleInstitution(
	ctx context.Context, partialName string,
) ([]*domain.CulturalHeritageObject, error) {
	activities, err := m.GetActivitiesByResponsibleInstitution(ctx, partialName)
	if err != nil {
		return nil, fmt.Errorf("get objects handled by responsible institution: %w", err)
	}
	return handledObjects(activities), nil
}

// GetAuthorsOfObjectsAcquiredInTimeFrame returns the authors of objects
// whose acquisition started on or after start and ended on or before end.
// Both bounds are inclusive. Authors are distinct and sorted by name.
func (m *Mashup) GetAuthorsOfObjectsAcquiredInTimeFrame(
	ctx context.Context, start, end string,
) ([]domain.Person, error) {
	logger.Section("Get Authors Of Objects Acquired In Time Frame")
	logger.Debug("Time frame: [%s, %s]", start, end)

	started, err := queryProcess(ctx, m, func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
		return h.GetActivitiesStartedAfter(ctx, start)
	})
	if err != nil {
		return nil, fmt.Errorf("get authors of objects acquired in time frame: %w", err)
	}
	ended, err := queryProcess(ctx, m, func(ctx context.Context, h driven.ProcessHandler) ([]domain.ActivityRow, error) {
		return h.GetActivitiesEndedBefore(ctx, end)
	})
	if err != nil {
		return nil, fmt.Errorf("get authors of objects acquired in time frame: %w", err)
	}

	endedAcquisitions := make(map[string]struct{})
	for _, r := range NormaliseActivities(ended...) {
		if r.Kind == string(domain.KindAcquisition) {
			endedAcquisitions[r.RefersTo] = struct{}{}
		}
	}

	ids := make([]string, 0, len(endedAcquisitions))
	for _, r := range NormaliseActivities(started...) {
		if r.Kind != string(domain.KindAcquisition) {
			continue
		}
		if _, ok := endedAcquisitions[r.RefersTo]; ok {
			ids = append(ids, r.RefersTo)
		}
	}
	if len(ids) == 0 {
		return []domain.Person{}, nil
	}

	objects, err := m.GetCulturalHeritageObjectsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get authors of objects acquired in time frame: %w", err)
	}

	seen := make(map[string]struct{})
	authors := make([]domain.Person, 0)
	for _, o := range objects {
		for _, p := range o.HasAuthor {
			if _, ok := seen[p.Identifier]; ok {
				continue
			}
			seen[p.Identifier] = struct{}{}
			authors = append(authors, p)
		}
	}
	slices.SortStableFunc(authors, domain.ComparePeople)

	logger.Debug("%d acquired object(s), %d distinct author(s)", len(objects), len(authors))
	return authors, nil
}

// handledObjects returns the distinct objects referenced by activities in
// identifier order.
func handledObjects(activities []domain.Activity) []*domain.CulturalHeritageObject {
	seen := make(map[*domain.CulturalHeritageObject]struct{})
	objects := make([]*domain.CulturalHeritageObject, 0)
	for _, a := range activities {
		if _, ok := seen[a.RefersTo]; ok {
			continue
		}
		seen[a.RefersTo] = struct{}{}
		objects = append(objects, a.RefersTo)
	}
	slices.SortStableFunc(objects, domain.CompareObjects)
	return objects
}

func objectIDs(objects []*domain.CulturalHeritageObject) []string {
	ids := make([]string, 0, len(objects))
	for _, o := range objects {
		ids = append(ids, o.Identifier)
	}
	return ids
}
