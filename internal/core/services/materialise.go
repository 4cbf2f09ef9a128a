package services

import (
	"github.com/custodia-labs/heritage/internal/core/domain"
)

// ToPeople turns normalised person rows into persons, keeping row order.
func ToPeople(rows []domain.PersonRow) []domain.Person {
	out := make([]domain.Person, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Person{Identifier: r.Identifier, Name: r.Name})
	}
	return out
}

// ToObjects folds normalised object rows into one object per identifier.
// Rows must be grouped by identifier, as NormaliseObjects returns them.
// Authors are appended in row order; rows without an author add none.
func ToObjects(rows []domain.ObjectRow) []*domain.CulturalHeritageObject {
	out := make([]*domain.CulturalHeritageObject, 0, len(rows))

	var current *domain.CulturalHeritageObject
	for _, r := range rows {
		if current == nil || current.Identifier != r.Identifier {
			class, _ := domain.ParseObjectClass(r.Class)
			current = domain.NewCulturalHeritageObject(class, r.Identifier, r.Title, r.Owner, r.Place, r.Date)
			out = append(out, current)
		}
		if r.HasAuthor() {
			current.AddAuthor(r.Author())
		}
	}

	return out
}

type activityBuilder func(r domain.ActivityRow, object *domain.CulturalHeritageObject) domain.Activity

func buildActivity(kind domain.ActivityKind) activityBuilder {
	return func(r domain.ActivityRow, object *domain.CulturalHeritageObject) domain.Activity {
		return domain.NewActivity(kind, object, r.Institute, r.Person, r.Start, r.End, r.Tools)
	}
}

// activityBuilders dispatches on the activity tag.
var activityBuilders = map[domain.ActivityKind]activityBuilder{
	domain.KindAcquisition: func(r domain.ActivityRow, object *domain.CulturalHeritageObject) domain.Activity {
		return domain.NewAcquisition(object, r.Institute, r.Technique, r.Person, r.Start, r.End, r.Tools)
	},
	domain.KindProcessing: buildActivity(domain.KindProcessing),
	domain.KindModelling:  buildActivity(domain.KindModelling),
	domain.KindOptimising: buildActivity(domain.KindOptimising),
	domain.KindExporting:  buildActivity(domain.KindExporting),
}

// ToActivities turns normalised activity rows into activities bound to the
// given objects, keyed by identifier. Rows whose object is missing from
// objects, or whose tag is unknown, are skipped.
func ToActivities(rows []domain.ActivityRow, objects map[string]*domain.CulturalHeritageObject) []domain.Activity {
	out := make([]domain.Activity, 0, len(rows))
	for _, r := range rows {
		object, ok := objects[r.RefersTo]
		if !ok {
			continue
		}
		build, ok := activityBuilders[domain.ActivityKind(r.Kind)]
		if !ok {
			continue
		}
		out = append(out, build(r, object))
	}
	return out
}
