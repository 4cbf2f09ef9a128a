package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

func setupTestProcessStore(t *testing.T) *ProcessStore {
	t.Helper()

	s := NewProcessStore()
	s.Add(
		domain.ActivityRow{
			Kind: "Acquisition", RefersTo: "1", Institute: "Council", Person: "Alice Liddell",
			Technique: "Structured-light 3D scanner", Start: "2023-03-01", End: "2023-03-20",
			Tools: []string{"Artec Eva"},
		},
		domain.ActivityRow{
			Kind: "Processing", RefersTo: "1", Institute: "Philology", Person: "Bob",
			Start: "2023-03-21", End: "2023-04-02", Tools: []string{"Blender", "Meshlab"},
		},
		domain.ActivityRow{
			Kind: "Acquisition", RefersTo: "2", Institute: "Council", Technique: "Photogrammetry",
			Start: "2023-05-10",
		},
	)
	return s
}

func TestNewProcessStore(t *testing.T) {
	s := NewProcessStore()
	require.NotNil(t, s)

	rows, err := s.GetAllActivities(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestProcessStore_Filters(t *testing.T) {
	s := setupTestProcessStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    func() ([]domain.ActivityRow, error)
		expected []string
	}{
		{"all", func() ([]domain.ActivityRow, error) { return s.GetAllActivities(ctx) }, []string{"1/Acquisition", "1/Processing", "2/Acquisition"}},
		{"by id", func() ([]domain.ActivityRow, error) { return s.GetByID(ctx, []string{"2", "9"}) }, []string{"2/Acquisition"}},
		{"institution ignores case", func() ([]domain.ActivityRow, error) {
			return s.GetActivitiesByResponsibleInstitution(ctx, "coun")
		}, []string{"1/Acquisition", "2/Acquisition"}},
		{"person", func() ([]domain.ActivityRow, error) {
			return s.GetActivitiesByResponsiblePerson(ctx, "LIDDELL")
		}, []string{"1/Acquisition"}},
		{"tool", func() ([]domain.ActivityRow, error) { return s.GetActivitiesUsingTool(ctx, "mesh") }, []string{"1/Processing"}},
		{"started after is inclusive", func() ([]domain.ActivityRow, error) {
			return s.GetActivitiesStartedAfter(ctx, "2023-03-21")
		}, []string{"1/Processing", "2/Acquisition"}},
		{"ended before skips open activities", func() ([]domain.ActivityRow, error) {
			return s.GetActivitiesEndedBefore(ctx, "2023-12-31")
		}, []string{"1/Acquisition", "1/Processing"}},
		{"technique", func() ([]domain.ActivityRow, error) {
			return s.GetAcquisitionsByTechnique(ctx, "photo")
		}, []string{"2/Acquisition"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tt.query()
			require.NoError(t, err)

			got := make([]string, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.RefersTo+"/"+r.Kind)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestProcessStore_ReturnsCopies(t *testing.T) {
	s := setupTestProcessStore(t)
	ctx := context.Background()

	rows, err := s.GetActivitiesUsingTool(ctx, "blender")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rows[0].Tools[0] = "changed"

	again, err := s.GetActivitiesUsingTool(ctx, "blender")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, []string{"Blender", "Meshlab"}, again[0].Tools)
}
