package domain

import "strings"

// Entity is anything addressable by a source identifier.
// Person and CulturalHeritageObject implement it.
type Entity interface {
	// ID returns the source identifier.
	ID() string
}

// Person is an author of cultural heritage objects.
// Persons are values: two persons are equal when both fields are equal.
type Person struct {
	// Identifier is the authority identifier (e.g. "VIAF:100190422").
	Identifier string

	// Name is the display name.
	Name string
}

// ID returns the person identifier.
func (p Person) ID() string {
	return p.Identifier
}

// ComparePeople orders people by name, then by identifier.
func ComparePeople(a, b Person) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return CompareIdentifiers(a.Identifier, b.Identifier)
}
