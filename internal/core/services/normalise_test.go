package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

func objectRow(id, author, name string) domain.ObjectRow {
	return domain.ObjectRow{
		Class: "Painting", Identifier: id, Title: "Title " + id,
		Owner: "Owner", Place: "Bologna", AuthorID: author, AuthorName: name,
	}
}

func TestNormalise_EmptyInput(t *testing.T) {
	people := NormalisePeople()
	assert.NotNil(t, people)
	assert.Empty(t, people)

	objects := NormaliseObjects(nil, []domain.ObjectRow{})
	assert.NotNil(t, objects)
	assert.Empty(t, objects)

	activities := NormaliseActivities(nil)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestNormaliseObjects_MergesPartialRows(t *testing.T) {
	a := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Map", Owner: "Philology", Place: "Rome"}}
	b := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Map", Place: "Rome", Date: "1916"}}

	rows := NormaliseObjects(a, b)

	require.Len(t, rows, 1)
	assert.Equal(t, "Philology", rows[0].Owner)
	assert.Equal(t, "1916", rows[0].Date)
}

func TestNormaliseObjects_GroupsNeedNotBeAdjacent(t *testing.T) {
	a := []domain.ObjectRow{
		{Class: "Map", Identifier: "3", Title: "Map", Owner: "Philology", Place: "Rome"},
		objectRow("4", "", ""),
	}
	b := []domain.ObjectRow{
		objectRow("5", "", ""),
		{Identifier: "3", Date: "1916"},
	}

	rows := NormaliseObjects(a, b)

	require.Len(t, rows, 3)
	assert.Equal(t, "3", rows[0].Identifier)
	assert.Equal(t, "1916", rows[0].Date)
	assert.Equal(t, "Map", rows[0].Class)
}

func TestNormaliseObjects_FirstSourceWinsConflicts(t *testing.T) {
	a := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "First", Owner: "A", Place: "Rome"}}
	b := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Second", Owner: "B", Place: "Rome", Date: "1916"}}

	rows := NormaliseObjects(a, b)

	require.Len(t, rows, 1)
	assert.Equal(t, "First", rows[0].Title)
	assert.Equal(t, "A", rows[0].Owner)
	assert.Equal(t, "1916", rows[0].Date)
}

func TestNormaliseObjects_FillsAuthorNameByPair(t *testing.T) {
	a := []domain.ObjectRow{objectRow("1", "VIAF:X", "")}
	b := []domain.ObjectRow{objectRow("1", "VIAF:X", "Aldrovandi")}

	rows := NormaliseObjects(a, b)

	require.Len(t, rows, 1)
	assert.Equal(t, "VIAF:X", rows[0].AuthorID)
	assert.Equal(t, "Aldrovandi", rows[0].AuthorName)
}

func TestNormaliseObjects_SingleSourceIsNotMerged(t *testing.T) {
	rows := NormaliseObjects([]domain.ObjectRow{
		objectRow("1", "VIAF:X", ""),
		objectRow("1", "VIAF:X", "Aldrovandi"),
	})

	// The nameless row is invalid and the named one survives dedup.
	require.Len(t, rows, 1)
	assert.Equal(t, "Aldrovandi", rows[0].AuthorName)
}

func TestNormaliseObjects_Validation(t *testing.T) {
	tests := []struct {
		name string
		row  domain.ObjectRow
	}{
		{"unknown class", domain.ObjectRow{Class: "Sculpture", Identifier: "1", Title: "t", Owner: "o", Place: "p"}},
		{"missing class", domain.ObjectRow{Identifier: "1", Title: "t", Owner: "o", Place: "p"}},
		{"missing identifier", domain.ObjectRow{Class: "Map", Title: "t", Owner: "o", Place: "p"}},
		{"missing title", domain.ObjectRow{Class: "Map", Identifier: "1", Owner: "o", Place: "p"}},
		{"missing owner", domain.ObjectRow{Class: "Map", Identifier: "1", Title: "t", Place: "p"}},
		{"missing place", domain.ObjectRow{Class: "Map", Identifier: "1", Title: "t", Owner: "o"}},
		{"author id without name", domain.ObjectRow{Class: "Map", Identifier: "1", Title: "t", Owner: "o", Place: "p", AuthorID: "a"}},
		{"author name without id", domain.ObjectRow{Class: "Map", Identifier: "1", Title: "t", Owner: "o", Place: "p", AuthorName: "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := objectRow("2", "", "")
			rows := NormaliseObjects([]domain.ObjectRow{tt.row, valid})
			assert.Equal(t, []domain.ObjectRow{valid}, rows)
		})
	}
}

func TestNormaliseObjects_UnfillableGroupStaysInvalid(t *testing.T) {
	a := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Map", Place: "Rome"}}
	b := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Map", Place: "Rome", Date: "1916"}}

	assert.Empty(t, NormaliseObjects(a, b))
}

func TestNormaliseObjects_DeduplicatesByAuthorPair(t *testing.T) {
	a := []domain.ObjectRow{objectRow("1", "A", "Anna"), objectRow("1", "B", "Bruno")}
	b := []domain.ObjectRow{objectRow("1", "B", "Bruno"), objectRow("1", "C", "Carla")}

	rows := NormaliseObjects(a, b)

	authors := make([]string, 0, len(rows))
	for _, r := range rows {
		authors = append(authors, r.AuthorID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, authors)
}

func TestNormaliseObjects_AuthorsInPoolOrder(t *testing.T) {
	a := []domain.ObjectRow{objectRow("2", "Z", "Zeno"), objectRow("1", "M", "Marta")}
	b := []domain.ObjectRow{objectRow("1", "A", "Anna"), objectRow("2", "B", "Bruno")}

	rows := NormaliseObjects(a, b)

	pairs := make([]string, 0, len(rows))
	for _, r := range rows {
		pairs = append(pairs, r.Identifier+"/"+r.AuthorID)
	}
	assert.Equal(t, []string{"1/M", "1/A", "2/Z", "2/B"}, pairs)
}

func TestNormaliseObjects_SortsByIdentifierOrdering(t *testing.T) {
	rows := NormaliseObjects([]domain.ObjectRow{
		objectRow("b", "", ""),
		objectRow("10", "", ""),
		objectRow("a", "", ""),
		objectRow("9", "", ""),
	})

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Identifier)
	}
	assert.Equal(t, []string{"9", "10", "a", "b"}, ids)
}

func TestNormalisePeople(t *testing.T) {
	a := []domain.PersonRow{
		{Identifier: "VIAF:2", Name: "Zeno"},
		{Identifier: "VIAF:1"},
		{Name: "No identifier"},
	}
	b := []domain.PersonRow{
		{Identifier: "VIAF:1", Name: "Aldrovandi"},
		{Identifier: "VIAF:2", Name: "Zeno"},
	}

	rows := NormalisePeople(a, b)

	assert.Equal(t, []domain.PersonRow{
		{Identifier: "VIAF:1", Name: "Aldrovandi"},
		{Identifier: "VIAF:2", Name: "Zeno"},
	}, rows)
}

func TestNormaliseActivities(t *testing.T) {
	a := []domain.ActivityRow{
		{Kind: "Processing", RefersTo: "2", Institute: "Philology", Tools: []string{"Blender"}},
		{Kind: "Acquisition", RefersTo: "2", Institute: "Council", Technique: "Photogrammetry"},
		{Kind: "Exporting", RefersTo: "10", Institute: "Council"},
	}
	b := []domain.ActivityRow{
		{Kind: "Processing", RefersTo: "2", Person: "Alice", Start: "2023-01-01"},
		{Kind: "Acquisition", RefersTo: "1", Institute: "Council"},
		{Kind: "Teleporting", RefersTo: "1", Institute: "Council"},
	}

	rows := NormaliseActivities(a, b)

	require.Len(t, rows, 3)

	assert.Equal(t, "2", rows[0].RefersTo)
	assert.Equal(t, "Acquisition", rows[0].Kind)

	assert.Equal(t, "Processing", rows[1].Kind)
	assert.Equal(t, "Philology", rows[1].Institute)
	assert.Equal(t, "Alice", rows[1].Person)
	assert.Equal(t, "2023-01-01", rows[1].Start)
	assert.Equal(t, []string{"Blender"}, rows[1].Tools)

	assert.Equal(t, "10", rows[2].RefersTo)
}

func TestNormaliseActivities_FillsToolsFromLaterSource(t *testing.T) {
	a := []domain.ActivityRow{{Kind: "Modelling", RefersTo: "1", Institute: "Council"}}
	b := []domain.ActivityRow{{Kind: "Modelling", RefersTo: "1", Tools: []string{"Blender"}}}

	rows := NormaliseActivities(a, b)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Blender"}, rows[0].Tools)
}

func TestNormalise_DoesNotMutateInput(t *testing.T) {
	a := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Map", Owner: "Philology", Place: "Rome"}}
	b := []domain.ObjectRow{{Class: "Map", Identifier: "3", Title: "Map", Place: "Rome", Date: "1916"}}

	_ = NormaliseObjects(a, b)

	assert.Empty(t, a[0].Date)
	assert.Empty(t, b[0].Owner)
}
