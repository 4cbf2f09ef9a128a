// Package processql builds and scans the read queries of the relational
// process stores.
//
// The schema has one table per activity kind, named after the kind, with
// the columns internalId, refersTo, institute, person, start and "end"
// (Acquisition adds technique), plus a Tool table of (internalId, tool)
// pairs. Every query unions the kind tables and aggregates the tools of
// each activity into one separated column.
package processql

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// ToolSeparator joins aggregated tool names. It never appears in a name.
const ToolSeparator = "\x1f"

// Dialect captures the SQL differences between backends.
type Dialect struct {
	// Name labels the dialect in errors.
	Name string

	// Placeholder returns the bind marker for the n-th argument, from 1.
	Placeholder func(n int) string

	// Aggregate wraps a column in the backend's string aggregation,
	// joined by ToolSeparator.
	Aggregate func(column string) string

	// Like is the case-insensitive pattern operator.
	Like string
}

// SQLite is the dialect of modernc.org/sqlite. LIKE ignores ASCII case.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	Aggregate: func(column string) string {
		return "group_concat(" + column + ", char(31))"
	},
	Like: "LIKE",
}

// Postgres is the dialect of PostgreSQL.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	Aggregate: func(column string) string {
		return "string_agg(" + column + ", chr(31))"
	},
	Like: "ILIKE",
}

// Query is a statement with its arguments.
type Query struct {
	SQL  string
	Args []any
}

// Filter restricts the activities of one kind table. Build calls it once
// per table, with a function that binds an argument and returns its marker.
type Filter func(bind func(arg any) string) string

// Build unions the given kinds, each restricted by filter. A nil filter
// selects everything.
func (d Dialect) Build(kinds []domain.ActivityKind, filter Filter) Query {
	var args []any
	bind := func(arg any) string {
		args = append(args, arg)
		return d.Placeholder(len(args))
	}

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		technique, group := "''", `A.internalId, A.refersTo, A.institute, A.person, A.start, A."end"`
		if kind == domain.KindAcquisition {
			technique, group = "COALESCE(A.technique, '')", group+", A.technique"
		}

		where := ""
		if filter != nil {
			where = "\n\t\tWHERE " + filter(bind)
		}

		parts = append(parts, fmt.Sprintf(`
		SELECT '%[1]s' AS kind, A.refersTo, A.institute,
			COALESCE(A.person, '') AS person, %[2]s AS technique,
			COALESCE(A.start, '') AS start, COALESCE(A."end", '') AS finish,
			COALESCE(%[3]s, '') AS tools
		FROM %[1]s AS A
		LEFT JOIN Tool AS T ON T.internalId = A.internalId%[4]s
		GROUP BY %[5]s`,
			kind, technique, d.Aggregate("T.tool"), where, group))
	}

	return Query{
		SQL:  strings.Join(parts, "\n\t\tUNION ALL") + "\n\t\tORDER BY 2, 1",
		Args: args,
	}
}

// All selects every activity.
func (d Dialect) All() Query {
	return d.Build(domain.ActivityKinds(), nil)
}

// ByObjects selects the activities on any of the objects.
func (d Dialect) ByObjects(ids []string) Query {
	return d.Build(domain.ActivityKinds(), func(bind func(any) string) string {
		markers := make([]string, 0, len(ids))
		for _, id := range ids {
			markers = append(markers, bind(id))
		}
		return "A.refersTo IN (" + strings.Join(markers, ", ") + ")"
	})
}

// InstituteLike matches the institute by substring, ignoring case.
func (d Dialect) InstituteLike(partial string) Query {
	return d.Build(domain.ActivityKinds(), d.contains("A.institute", partial))
}

// PersonLike matches the responsible person by substring, ignoring case.
func (d Dialect) PersonLike(partial string) Query {
	return d.Build(domain.ActivityKinds(), d.contains("A.person", partial))
}

// ToolLike matches activities with any tool containing partial. The whole
// tool set of a matching activity is returned.
func (d Dialect) ToolLike(partial string) Query {
	return d.Build(domain.ActivityKinds(), func(bind func(any) string) string {
		return "EXISTS (SELECT 1 FROM Tool AS F WHERE F.internalId = A.internalId AND F.tool " +
			d.Like + " " + bind(likePattern(partial)) + ` ESCAPE '\')`
	})
}

// StartedAfter selects activities starting on or after date.
func (d Dialect) StartedAfter(date string) Query {
	return d.Build(domain.ActivityKinds(), func(bind func(any) string) string {
		return "A.start >= " + bind(date)
	})
}

// EndedBefore selects activities ending on or before date.
func (d Dialect) EndedBefore(date string) Query {
	return d.Build(domain.ActivityKinds(), func(bind func(any) string) string {
		return `A."end" <= ` + bind(date)
	})
}

// TechniqueLike matches acquisitions by technique substring, ignoring case.
func (d Dialect) TechniqueLike(partial string) Query {
	return d.Build([]domain.ActivityKind{domain.KindAcquisition}, d.contains("A.technique", partial))
}

func (d Dialect) contains(column, partial string) Filter {
	return func(bind func(any) string) string {
		return column + " " + d.Like + " " + bind(likePattern(partial)) + ` ESCAPE '\'`
	}
}

// likePattern wraps s in wildcards, escaping the wildcards it contains.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
