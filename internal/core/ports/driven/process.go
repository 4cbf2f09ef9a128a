package driven

import (
	"context"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// ProcessHandler answers digitisation-process queries over one relational
// store. Text filters match case-insensitive substrings; date filters are
// inclusive.
type ProcessHandler interface {
	// GetByID returns the activities performed on the given objects.
	GetByID(ctx context.Context, objectIDs []string) ([]domain.ActivityRow, error)

	// GetAllActivities returns every activity.
	GetAllActivities(ctx context.Context) ([]domain.ActivityRow, error)

	// GetActivitiesByResponsibleInstitution filters on the institute name.
	GetActivitiesByResponsibleInstitution(ctx context.Context, partialName string) ([]domain.ActivityRow, error)

	// GetActivitiesByResponsiblePerson filters on the responsible person.
	GetActivitiesByResponsiblePerson(ctx context.Context, partialName string) ([]domain.ActivityRow, error)

	// GetActivitiesUsingTool filters on any tool name.
	GetActivitiesUsingTool(ctx context.Context, partialName string) ([]domain.ActivityRow, error)

	// GetActivitiesStartedAfter returns activities with start >= date.
	GetActivitiesStartedAfter(ctx context.Context, date string) ([]domain.ActivityRow, error)

	// GetActivitiesEndedBefore returns activities with end <= date.
	GetActivitiesEndedBefore(ctx context.Context, date string) ([]domain.ActivityRow, error)

	// GetAcquisitionsByTechnique returns acquisitions filtered on technique.
	GetAcquisitionsByTechnique(ctx context.Context, partialName string) ([]domain.ActivityRow, error)
}
