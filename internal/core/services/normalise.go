package services

import (
	"slices"
	"strings"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/logger"
)

// fillPass describes one cross-source back-fill over groups of rows that
// describe the same logical record.
type fillPass[R any] struct {
	// key returns the group key, or false when the row takes no part.
	key func(r R) (string, bool)

	// columns returns pointers to the nullable string columns filled by
	// this pass.
	columns func(r *R) []*string

	// sets returns pointers to the nullable set columns filled by this pass.
	sets func(r *R) []*[]string
}

// rowSpec captures everything the normaliser needs to know about a row kind.
type rowSpec[R any] struct {
	name     string
	fills    []fillPass[R]
	valid    func(r R) bool
	dedupKey func(r R) string
	compare  func(a, b R) int
}

// normalise pools the tables, reconciles partial rows across sources,
// drops invalid rows and exact repeats, and sorts the result so that all
// rows of one record are contiguous. The result is never nil.
func normalise[R any](spec rowSpec[R], tables [][]R) []R {
	total, nonEmpty := 0, 0
	for _, t := range tables {
		if len(t) > 0 {
			nonEmpty++
			total += len(t)
		}
	}

	rows := make([]R, 0, total)
	for _, t := range tables {
		rows = append(rows, t...)
	}

	if nonEmpty > 1 {
		for _, pass := range spec.fills {
			backFill(rows, pass)
		}
	}

	kept := rows[:0]
	seen := make(map[string]struct{}, len(rows))
	invalid, duplicates := 0, 0
	for _, r := range rows {
		if !spec.valid(r) {
			invalid++
			continue
		}
		k := spec.dedupKey(r)
		if _, ok := seen[k]; ok {
			duplicates++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, r)
	}

	slices.SortStableFunc(kept, spec.compare)

	logger.Debug("Normalised %s rows: %d in from %d source(s), %d invalid, %d duplicate, %d out",
		spec.name, total, nonEmpty, invalid, duplicates, len(kept))

	return kept
}

// backFill gives every row of a group the first non-null value each column
// has anywhere in the group. Groups are formed explicitly by key, so rows
// need not be adjacent. Pool order decides conflicts: the first source wins.
func backFill[R any](rows []R, pass fillPass[R]) {
	groups := make(map[string][]int)
	order := make([]string, 0)
	for i, r := range rows {
		k, ok := pass.key(r)
		if !ok {
			continue
		}
		if _, exists := groups[k]; !exists {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}

		rep := rows[members[0]]
		for _, i := range members[1:] {
			other := rows[i]
			fillColumns(pass, &rep, &other)
		}
		for _, i := range members {
			assignColumns(pass, &rows[i], &rep)
		}
	}
}

func fillColumns[R any](pass fillPass[R], dst, src *R) {
	dc, sc := pass.columns(dst), pass.columns(src)
	for c := range dc {
		if *dc[c] == "" && *sc[c] != "" {
			*dc[c] = *sc[c]
		}
	}
	if pass.sets == nil {
		return
	}
	ds, ss := pass.sets(dst), pass.sets(src)
	for c := range ds {
		if len(*ds[c]) == 0 && len(*ss[c]) > 0 {
			*ds[c] = *ss[c]
		}
	}
}

func assignColumns[R any](pass fillPass[R], dst, rep *R) {
	dc, rc := pass.columns(dst), pass.columns(rep)
	for c := range dc {
		*dc[c] = *rc[c]
	}
	if pass.sets == nil {
		return
	}
	ds, rs := pass.sets(dst), pass.sets(rep)
	for c := range ds {
		*ds[c] = *rs[c]
	}
}

// compareRecordKeys orders by Identifier Ordering, breaking ties between
// distinct spellings of the same number ("9", "09") so groups stay apart.
func compareRecordKeys(a, b string) int {
	if c := domain.CompareIdentifiers(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func pairKey(a, b string) string {
	return a + "\x00" + b
}

var personRows = rowSpec[domain.PersonRow]{
	name: "person",
	fills: []fillPass[domain.PersonRow]{{
		key: func(r domain.PersonRow) (string, bool) {
			return r.Identifier, r.Identifier != ""
		},
		columns: func(r *domain.PersonRow) []*string {
			return []*string{&r.Name}
		},
	}},
	valid: func(r domain.PersonRow) bool {
		return r.Identifier != "" && r.Name != ""
	},
	dedupKey: func(r domain.PersonRow) string {
		return r.Identifier
	},
	compare: func(a, b domain.PersonRow) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return compareRecordKeys(a.Identifier, b.Identifier)
	},
}

var objectRows = rowSpec[domain.ObjectRow]{
	name: "object",
	fills: []fillPass[domain.ObjectRow]{
		{
			key: func(r domain.ObjectRow) (string, bool) {
				return r.Identifier, r.Identifier != ""
			},
			columns: func(r *domain.ObjectRow) []*string {
				return []*string{&r.Class, &r.Title, &r.Owner, &r.Place, &r.Date}
			},
		},
		{
			key: func(r domain.ObjectRow) (string, bool) {
				return pairKey(r.Identifier, r.AuthorID), r.Identifier != "" && r.AuthorID != ""
			},
			columns: func(r *domain.ObjectRow) []*string {
				return []*string{&r.AuthorName}
			},
		},
	},
	valid: func(r domain.ObjectRow) bool {
		if _, ok := domain.ParseObjectClass(r.Class); !ok {
			return false
		}
		if r.Identifier == "" || r.Title == "" || r.Owner == "" || r.Place == "" {
			return false
		}
		// Author columns come in pairs: both set or both empty.
		return (r.AuthorID == "") == (r.AuthorName == "")
	},
	dedupKey: func(r domain.ObjectRow) string {
		return pairKey(r.Identifier, r.AuthorID)
	},
	// Stable: authors of one object keep pool order, first handler first.
	compare: func(a, b domain.ObjectRow) int {
		return compareRecordKeys(a.Identifier, b.Identifier)
	},
}

var activityRows = rowSpec[domain.ActivityRow]{
	name: "activity",
	fills: []fillPass[domain.ActivityRow]{{
		key: func(r domain.ActivityRow) (string, bool) {
			return pairKey(r.RefersTo, r.Kind), r.RefersTo != "" && r.Kind != ""
		},
		columns: func(r *domain.ActivityRow) []*string {
			return []*string{&r.Institute, &r.Person, &r.Technique, &r.Start, &r.End}
		},
		sets: func(r *domain.ActivityRow) []*[]string {
			return []*[]string{&r.Tools}
		},
	}},
	valid: func(r domain.ActivityRow) bool {
		kind, ok := domain.ParseActivityKind(r.Kind)
		if !ok || r.RefersTo == "" || r.Institute == "" {
			return false
		}
		return kind != domain.KindAcquisition || r.Technique != ""
	},
	dedupKey: func(r domain.ActivityRow) string {
		return pairKey(r.RefersTo, r.Kind)
	},
	compare: func(a, b domain.ActivityRow) int {
		if c := compareRecordKeys(a.RefersTo, b.RefersTo); c != 0 {
			return c
		}
		return domain.ActivityKind(a.Kind).Rank() - domain.ActivityKind(b.Kind).Rank()
	},
}

// NormalisePeople reconciles person tables from any number of sources.
func NormalisePeople(tables ...[]domain.PersonRow) []domain.PersonRow {
	return normalise(personRows, tables)
}

// NormaliseObjects reconciles object tables from any number of sources.
// Rows of one object are contiguous in the result, authors in pool order.
func NormaliseObjects(tables ...[]domain.ObjectRow) []domain.ObjectRow {
	return normalise(objectRows, tables)
}

// NormaliseActivities reconciles activity tables from any number of sources.
func NormaliseActivities(tables ...[]domain.ActivityRow) []domain.ActivityRow {
	return normalise(activityRows, tables)
}
