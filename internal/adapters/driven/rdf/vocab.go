// Package rdf holds the vocabulary shared by the metadata adapters and a
// minimal triple model.
//
// Objects are typed with a class in the catalogue namespace, declared as a
// subclass of edm:PhysicalThing. People are edm:Agent resources. Both carry
// a dc:identifier literal, which is the identifier exposed to the domain.
package rdf

import (
	"strings"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// Namespaces.
const (
	NamespaceDC   = "http://purl.org/dc/elements/1.1/"
	NamespaceEDM  = "http://www.europeana.eu/schemas/edm/"
	NamespaceFOAF = "http://xmlns.com/foaf/0.1/"
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"

	// NamespaceCatalogue holds object classes and catalogue resources.
	NamespaceCatalogue = "https://agonymagnolia.github.io/data-science#"
)

// Predicates and classes.
const (
	Type       = NamespaceRDF + "type"
	SubClassOf = NamespaceRDFS + "subClassOf"

	Identifier = NamespaceDC + "identifier"
	Title      = NamespaceDC + "title"
	Creator    = NamespaceDC + "creator"
	Date       = NamespaceDC + "date"
	Coverage   = NamespaceDC + "coverage"

	Name = NamespaceFOAF + "name"

	CurrentLocation = NamespaceEDM + "currentLocation"
	Agent           = NamespaceEDM + "Agent"
	PhysicalThing   = NamespaceEDM + "PhysicalThing"
)

// Term is the object position of a triple: an IRI or a plain literal.
type Term struct {
	Value   string
	Literal bool
}

// IRI returns an IRI term.
func IRI(v string) Term {
	return Term{Value: v}
}

// Literal returns a plain literal term.
func Literal(v string) Term {
	return Term{Value: v, Literal: true}
}

// Triple is a single statement. Subjects and predicates are always IRIs.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}

// ClassIRI returns the catalogue IRI of an object class.
func ClassIRI(class domain.ObjectClass) string {
	return NamespaceCatalogue + string(class)
}

// LocalClass strips the catalogue namespace from a class IRI. IRIs outside
// the namespace are returned unchanged, so they fail class validation.
func LocalClass(iri string) string {
	return strings.TrimPrefix(iri, NamespaceCatalogue)
}

// ObjectIRI returns the resource IRI for an object identifier.
func ObjectIRI(identifier string) string {
	return NamespaceCatalogue + "CHO-" + identifier
}

// PersonIRI returns the resource IRI for a person identifier.
func PersonIRI(identifier string) string {
	return NamespaceCatalogue + "Person-" + identifier
}

// ObjectTriples describes an object and its authors as triples, including
// the class declaration. Authors are emitted as agents. It builds fixtures:
// in-memory graphs and N-Triples files for tests and demos. Handlers only
// read triples.
func ObjectTriples(o *domain.CulturalHeritageObject) []Triple {
	subject := ObjectIRI(o.Identifier)
	class := ClassIRI(o.Class)

	triples := []Triple{
		{Subject: class, Predicate: SubClassOf, Object: IRI(PhysicalThing)},
		{Subject: subject, Predicate: Type, Object: IRI(class)},
		{Subject: subject, Predicate: Identifier, Object: Literal(o.Identifier)},
		{Subject: subject, Predicate: Title, Object: Literal(o.Title)},
		{Subject: subject, Predicate: CurrentLocation, Object: Literal(o.Owner)},
		{Subject: subject, Predicate: Coverage, Object: Literal(o.Place)},
	}
	if o.Date != "" {
		triples = append(triples, Triple{Subject: subject, Predicate: Date, Object: Literal(o.Date)})
	}
	for _, p := range o.HasAuthor {
		triples = append(triples, PersonTriples(p)...)
		triples = append(triples, Triple{Subject: subject, Predicate: Creator, Object: IRI(PersonIRI(p.Identifier))})
	}
	return triples
}

// PersonTriples describes a person as an agent. Like ObjectTriples it is a
// fixture builder.
func PersonTriples(p domain.Person) []Triple {
	subject := PersonIRI(p.Identifier)
	return []Triple{
		{Subject: subject, Predicate: Type, Object: IRI(Agent)},
		{Subject: subject, Predicate: Identifier, Object: Literal(p.Identifier)},
		{Subject: subject, Predicate: Name, Object: Literal(p.Name)},
	}
}
