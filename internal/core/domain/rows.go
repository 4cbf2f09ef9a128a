package domain

// Rows are the tabular results returned by sources, before reconciliation.
// In every row type the empty string stands for a null column.

// PersonRow is a person-shaped result row.
type PersonRow struct {
	Identifier string
	Name       string
}

// ObjectRow is a CHO-shaped result row. An object with several authors
// spans several rows, one per (object, author) pair; an object with no
// author has a single row with empty author columns.
type ObjectRow struct {
	Class      string
	Identifier string
	Title      string
	Owner      string
	Place      string
	Date       string
	AuthorID   string
	AuthorName string
}

// HasAuthor reports whether the row carries a complete author pair.
func (r ObjectRow) HasAuthor() bool {
	return r.AuthorID != "" && r.AuthorName != ""
}

// Author returns the row's author columns as a Person.
func (r ObjectRow) Author() Person {
	return Person{Identifier: r.AuthorID, Name: r.AuthorName}
}

// ActivityRow is an activity-shaped result row. Tools holds the
// pre-aggregated tool set of the activity.
type ActivityRow struct {
	Kind      string
	RefersTo  string
	Institute string
	Person    string
	Technique string
	Start     string
	End       string
	Tools     []string
}

// EntityTable is the result of a metadata lookup by identifier.
// Objects is populated when any object matched; People is only populated
// when no object matched.
type EntityTable struct {
	Objects []ObjectRow
	People  []PersonRow
}

// IsEmpty reports whether the lookup matched nothing.
func (t EntityTable) IsEmpty() bool {
	return len(t.Objects) == 0 && len(t.People) == 0
}
