package memory

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/heritage/internal/adapters/driven/rdf"
	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driven"
)

// Ensure Graph implements the interface.
var _ driven.MetadataHandler = (*Graph)(nil)

// Graph is an in-memory triple store implementing driven.MetadataHandler.
// It answers the same graph patterns a SPARQL metadata endpoint is asked:
// objects are resources typed with a subclass of edm:PhysicalThing, people
// are edm:Agent resources.
type Graph struct {
	mu       sync.RWMutex
	subjects []string
	props    map[string]map[string][]rdf.Term
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		props: make(map[string]map[string][]rdf.Term),
	}
}

// LoadGraph reads an N-Triples document into a new graph.
func LoadGraph(r io.Reader) (*Graph, error) {
	triples, err := rdf.ReadNTriples(r)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	g := NewGraph()
	g.Add(triples...)
	return g, nil
}

// Add stores triples. Repeated statements are kept once.
func (g *Graph) Add(triples ...rdf.Triple) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, t := range triples {
		props, ok := g.props[t.Subject]
		if !ok {
			props = make(map[string][]rdf.Term)
			g.props[t.Subject] = props
			g.subjects = append(g.subjects, t.Subject)
		}
		if !slices.Contains(props[t.Predicate], t.Object) {
			props[t.Predicate] = append(props[t.Predicate], t.Object)
		}
	}
}

// AddObject stores an object, its class declaration and its authors. It
// builds fixture graphs; configured ntriples handlers are filled by LoadGraph.
func (g *Graph) AddObject(o *domain.CulturalHeritageObject) {
	g.Add(rdf.ObjectTriples(o)...)
}

// AddPerson stores a person as an agent.
func (g *Graph) AddPerson(p domain.Person) {
	g.Add(rdf.PersonTriples(p)...)
}

// Len returns the number of distinct subjects.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.subjects)
}

// GetByID returns object rows matching ids, or person rows when no object
// matches.
func (g *Graph) GetByID(_ context.Context, ids []string) (domain.EntityTable, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	wanted := toSet(ids)
	objects := g.objectRows(func(_ string, identifier string) bool {
		_, ok := wanted[identifier]
		return ok
	})
	if len(objects) > 0 {
		return domain.EntityTable{Objects: objects}, nil
	}

	people := g.personRows(func(_ string, identifier string) bool {
		_, ok := wanted[identifier]
		return ok
	})
	return domain.EntityTable{People: people}, nil
}

// GetAllPeople returns every agent, ordered by name.
func (g *Graph) GetAllPeople(_ context.Context) ([]domain.PersonRow, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByName(g.personRows(nil)), nil
}

// GetAllCulturalHeritageObjects returns one row per (object, author) pair,
// ordered by identifier.
func (g *Graph) GetAllCulturalHeritageObjects(_ context.Context) ([]domain.ObjectRow, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedByIdentifier(g.objectRows(nil)), nil
}

// GetAuthorsOfCulturalHeritageObject returns the creators of the object,
// ordered by name.
func (g *Graph) GetAuthorsOfCulturalHeritageObject(_ context.Context, objectID string) ([]domain.PersonRow, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	creators := make(map[string]struct{})
	for _, s := range g.subjects {
		if !g.hasLiteral(s, rdf.Identifier, objectID) {
			continue
		}
		for _, c := range g.props[s][rdf.Creator] {
			if !c.Literal {
				creators[c.Value] = struct{}{}
			}
		}
	}

	people := g.personRows(func(subject, _ string) bool {
		_, ok := creators[subject]
		return ok
	})
	return sortedByName(people), nil
}

// GetCulturalHeritageObjectsAuthoredBy returns every row of the objects one
// of whose creators has the identifier, so co-authors are included.
func (g *Graph) GetCulturalHeritageObjectsAuthoredBy(_ context.Context, personID string) ([]domain.ObjectRow, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rows := g.objectRows(func(subject, _ string) bool {
		for _, c := range g.props[subject][rdf.Creator] {
			if !c.Literal && g.hasLiteral(c.Value, rdf.Identifier, personID) {
				return true
			}
		}
		return false
	})
	return sortedByIdentifier(rows), nil
}

// objectRows evaluates the object pattern. Required properties missing on a
// resource exclude it; date and author are optional. match filters by
// subject and identifier; nil matches everything. Callers hold the lock.
func (g *Graph) objectRows(match func(subject, identifier string) bool) []domain.ObjectRow {
	rows := make([]domain.ObjectRow, 0)
	for _, s := range g.subjects {
		class, ok := g.physicalClass(s)
		if !ok {
			continue
		}
		identifier, ok1 := g.literal(s, rdf.Identifier)
		title, ok2 := g.literal(s, rdf.Title)
		owner, ok3 := g.literal(s, rdf.CurrentLocation)
		place, ok4 := g.literal(s, rdf.Coverage)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		if match != nil && !match(s, identifier) {
			continue
		}
		date, _ := g.literal(s, rdf.Date)

		base := domain.ObjectRow{
			Class:      rdf.LocalClass(class),
			Identifier: identifier,
			Title:      title,
			Owner:      owner,
			Place:      place,
			Date:       date,
		}

		authored := false
		for _, c := range g.props[s][rdf.Creator] {
			if c.Literal {
				continue
			}
			authorID, okID := g.literal(c.Value, rdf.Identifier)
			authorName, okName := g.literal(c.Value, rdf.Name)
			if !okID || !okName {
				continue
			}
			row := base
			row.AuthorID, row.AuthorName = authorID, authorName
			rows = append(rows, row)
			authored = true
		}
		if !authored {
			rows = append(rows, base)
		}
	}
	return rows
}

// personRows evaluates the agent pattern. Callers hold the lock.
func (g *Graph) personRows(match func(subject, identifier string) bool) []domain.PersonRow {
	rows := make([]domain.PersonRow, 0)
	for _, s := range g.subjects {
		if !slices.Contains(g.props[s][rdf.Type], rdf.IRI(rdf.Agent)) {
			continue
		}
		identifier, okID := g.literal(s, rdf.Identifier)
		name, okName := g.literal(s, rdf.Name)
		if !okID || !okName {
			continue
		}
		if match != nil && !match(s, identifier) {
			continue
		}
		rows = append(rows, domain.PersonRow{Identifier: identifier, Name: name})
	}
	return rows
}

// physicalClass returns the first type of s declared a subclass of
// edm:PhysicalThing.
func (g *Graph) physicalClass(s string) (string, bool) {
	for _, t := range g.props[s][rdf.Type] {
		if t.Literal {
			continue
		}
		if slices.Contains(g.props[t.Value][rdf.SubClassOf], rdf.IRI(rdf.PhysicalThing)) {
			return t.Value, true
		}
	}
	return "", false
}

// literal returns the first literal value of predicate on s.
func (g *Graph) literal(s, predicate string) (string, bool) {
	for _, t := range g.props[s][predicate] {
		if t.Literal {
			return t.Value, true
		}
	}
	return "", false
}

func (g *Graph) hasLiteral(s, predicate, value string) bool {
	return slices.Contains(g.props[s][predicate], rdf.Literal(value))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func sortedByName(rows []domain.PersonRow) []domain.PersonRow {
	slices.SortStableFunc(rows, func(a, b domain.PersonRow) int {
		return strings.Compare(a.Name, b.Name)
	})
	return rows
}

func sortedByIdentifier(rows []domain.ObjectRow) []domain.ObjectRow {
	slices.SortStableFunc(rows, func(a, b domain.ObjectRow) int {
		return domain.CompareIdentifiers(a.Identifier, b.Identifier)
	})
	return rows
}
