package services

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// tableMetadata serves fixed raw rows, including partial ones the graph
// adapters would never produce.
type tableMetadata struct {
	people  []domain.PersonRow
	objects []domain.ObjectRow
	err     error
}

var _ driven.MetadataHandler = (*tableMetadata)(nil)

func (h *tableMetadata) GetByID(_ context.Context, ids []string) (domain.EntityTable, error) {
	if h.err != nil {
		return domain.EntityTable{}, h.err
	}
	var table domain.EntityTable
	for _, r := range h.objects {
		if slices.Contains(ids, r.Identifier) {
			table.Objects = append(table.Objects, r)
		}
	}
	if len(table.Objects) > 0 {
		return table, nil
	}
	for _, r := range h.people {
		if slices.Contains(ids, r.Identifier) {
			table.People = append(table.People, r)
		}
	}
	return table, nil
}

func (h *tableMetadata) GetAllPeople(_ context.Context) ([]domain.PersonRow, error) {
	return slices.Clone(h.people), h.err
}

func (h *tableMetadata) GetAllCulturalHeritageObjects(_ context.Context) ([]domain.ObjectRow, error) {
	return slices.Clone(h.objects), h.err
}

func (h *tableMetadata) GetAuthorsOfCulturalHeritageObject(_ context.Context, objectID string) ([]domain.PersonRow, error) {
	var rows []domain.PersonRow
	for _, r := range h.objects {
		if r.Identifier == objectID && r.AuthorID != "" {
			rows = append(rows, domain.PersonRow{Identifier: r.AuthorID, Name: r.AuthorName})
		}
	}
	return rows, h.err
}

func (h *tableMetadata) GetCulturalHeritageObjectsAuthoredBy(_ context.Context, personID string) ([]domain.ObjectRow, error) {
	authored := make(map[string]bool)
	for _, r := range h.objects {
		if r.AuthorID == personID {
			authored[r.Identifier] = true
		}
	}
	var rows []domain.ObjectRow
	for _, r := range h.objects {
		if authored[r.Identifier] {
			rows = append(rows, r)
		}
	}
	return rows, h.err
}

// tableProcess serves fixed raw activity rows.
type tableProcess struct {
	rows []domain.ActivityRow
	err  error
}

var _ driven.ProcessHandler = (*tableProcess)(nil)

func (h *tableProcess) GetByID(_ context.Context, objectIDs []string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool { return slices.Contains(objectIDs, r.RefersTo) })
}

func (h *tableProcess) GetAllActivities(_ context.Context) ([]domain.ActivityRow, error) {
	return h.where(func(domain.ActivityRow) bool { return true })
}

func (h *tableProcess) GetActivitiesByResponsibleInstitution(_ context.Context, name string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool { return containsFold(r.Institute, name) })
}

func (h *tableProcess) GetActivitiesByResponsiblePerson(_ context.Context, name string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool { return r.Person != "" && containsFold(r.Person, name) })
}

func (h *tableProcess) GetActivitiesUsingTool(_ context.Context, name string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool {
		return slices.ContainsFunc(r.Tools, func(t string) bool { return containsFold(t, name) })
	})
}

func (h *tableProcess) GetActivitiesStartedAfter(_ context.Context, date string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool { return r.Start != "" && r.Start >= date })
}

func (h *tableProcess) GetActivitiesEndedBefore(_ context.Context, date string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool { return r.End != "" && r.End <= date })
}

func (h *tableProcess) GetAcquisitionsByTechnique(_ context.Context, name string) ([]domain.ActivityRow, error) {
	return h.where(func(r domain.ActivityRow) bool {
		return r.Kind == string(domain.KindAcquisition) && containsFold(r.Technique, name)
	})
}

func (h *tableProcess) where(keep func(domain.ActivityRow) bool) ([]domain.ActivityRow, error) {
	if h.err != nil {
		return nil, h.err
	}
	var rows []domain.ActivityRow
	for _, r := range h.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// slowMetadata records how many calls overlap.
type slowMetadata struct {
	tableMetadata
	delay   time.Duration
	active  *atomic.Int32
	maxSeen *atomic.Int32
}

func (h *slowMetadata) GetAllPeople(ctx context.Context) ([]domain.PersonRow, error) {
	n := h.active.Add(1)
	defer h.active.Add(-1)
	for {
		seen := h.maxSeen.Load()
		if n <= seen || h.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	select {
	case <-time.After(h.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return h.tableMetadata.GetAllPeople(ctx)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
