package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// Ensure ProcessStore implements the interface.
var _ driven.ProcessHandler = (*ProcessStore)(nil)

// ProcessStore is an in-memory implementation of driven.ProcessHandler.
// Filters follow the relational stores: substring filters ignore case and
// date bounds are inclusive.
type ProcessStore struct {
	mu   sync.RWMutex
	rows []domain.ActivityRow
}

// NewProcessStore creates an empty process store.
func NewProcessStore() *ProcessStore {
	return &ProcessStore{
		rows: make([]domain.ActivityRow, 0),
	}
}

// Add stores activity rows in the order given.
func (s *ProcessStore) Add(rows ...domain.ActivityRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		r.Tools = slices.Clone(r.Tools)
		s.rows = append(s.rows, r)
	}
}

// GetByID returns the activities on any of the objects.
func (s *ProcessStore) GetByID(_ context.Context, objectIDs []string) ([]domain.ActivityRow, error) {
	wanted := toSet(objectIDs)
	return s.filter(func(r domain.ActivityRow) bool {
		_, ok := wanted[r.RefersTo]
		return ok
	}), nil
}

// GetAllActivities returns every activity.
func (s *ProcessStore) GetAllActivities(_ context.Context) ([]domain.ActivityRow, error) {
	return s.filter(func(domain.ActivityRow) bool { return true }), nil
}

// GetActivitiesByResponsibleInstitution matches the institute by substring.
func (s *ProcessStore) GetActivitiesByResponsibleInstitution(
	_ context.Context, partialName string,
) ([]domain.ActivityRow, error) {
	return s.filter(func(r domain.ActivityRow) bool {
		return containsFold(r.Institute, partialName)
	}), nil
}

// GetActivitiesByResponsiblePerson matches the person by substring.
func (s *ProcessStore) GetActivitiesByResponsiblePerson(
	_ context.Context, partialName string,
) ([]domain.ActivityRow, error) {
	return s.filter(func(r domain.ActivityRow) bool {
		return r.Person != "" && containsFold(r.Person, partialName)
	}), nil
}

// GetActivitiesUsingTool matches any tool by substring.
func (s *ProcessStore) GetActivitiesUsingTool(_ context.Context, partialName string) ([]domain.ActivityRow, error) {
	return s.filter(func(r domain.ActivityRow) bool {
		return slices.ContainsFunc(r.Tools, func(tool string) bool {
			return containsFold(tool, partialName)
		})
	}), nil
}

// GetActivitiesStartedAfter returns activities starting on or after date.
func (s *ProcessStore) GetActivitiesStartedAfter(_ context.Context, date string) ([]domain.ActivityRow, error) {
	return s.filter(func(r domain.ActivityRow) bool {
		return r.Start != "" && r.Start >= date
	}), nil
}

// GetActivitiesEndedBefore returns activities ending on or before date.
func (s *ProcessStore) GetActivitiesEndedBefore(_ context.Context, date string) ([]domain.ActivityRow, error) {
	return s.filter(func(r domain.ActivityRow) bool {
		return r.End != "" && r.End <= date
	}), nil
}

// GetAcquisitionsByTechnique matches acquisition techniques by substring.
func (s *ProcessStore) GetAcquisitionsByTechnique(_ context.Context, partialName string) ([]domain.ActivityRow, error) {
	return s.filter(func(r domain.ActivityRow) bool {
		return r.Kind == string(domain.KindAcquisition) && containsFold(r.Technique, partialName)
	}), nil
}

func (s *ProcessStore) filter(keep func(domain.ActivityRow) bool) []domain.ActivityRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ActivityRow, 0)
	for _, r := range s.rows {
		if keep(r) {
			r.Tools = slices.Clone(r.Tools)
			result = append(result, r)
		}
	}
	return result
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
