package sparql

import (
	"strings"

	"github.com/custodia-labs/heritage/internal/adapters/driven/rdf"
)

var prefixes = strings.Join([]string{
	"PREFIX rdf: <" + rdf.NamespaceRDF + ">",
	"PREFIX rdfs: <" + rdf.NamespaceRDFS + ">",
	"PREFIX dc: <" + rdf.NamespaceDC + ">",
	"PREFIX edm: <" + rdf.NamespaceEDM + ">",
	"PREFIX foaf: <" + rdf.NamespaceFOAF + ">",
}, "\n") + "\n"

// objectPattern selects object rows. Date and author are optional; an
// object with several authors yields one row per author. The closing
// brace is left to the caller.
const objectPattern = `SELECT DISTINCT ?class ?identifier ?title ?owner ?place ?date ?author_id ?author_name
WHERE {
  ?class rdfs:subClassOf edm:PhysicalThing .
  ?internalId a ?class ;
    dc:identifier ?identifier ;
    dc:title ?title ;
    edm:currentLocation ?owner ;
    dc:coverage ?place .
  OPTIONAL { ?internalId dc:date ?date . }
  OPTIONAL {
    ?hasAuthor ^dc:creator ?internalId ;
      dc:identifier ?author_id ;
      foaf:name ?author_name .
  }
`

// personPattern selects person rows, open like objectPattern.
const personPattern = `SELECT DISTINCT ?identifier ?name
WHERE {
  ?internalId a edm:Agent ;
    dc:identifier ?identifier ;
    foaf:name ?name .
`

func objectsByID(ids []string) string {
	return prefixes + objectPattern + "  VALUES ?identifier { " + literals(ids) + " }\n}"
}

func peopleByID(ids []string) string {
	return prefixes + personPattern + "  VALUES ?identifier { " + literals(ids) + " }\n}"
}

func allPeople() string {
	return prefixes + personPattern + "}\nORDER BY ?name"
}

func allObjects() string {
	return prefixes + objectPattern + "}\nORDER BY ?identifier"
}

func authorsOf(objectID string) string {
	return prefixes + personPattern +
		"  ?internalId ^dc:creator / dc:identifier ?objectId .\n" +
		"  VALUES ?objectId { " + literal(objectID) + " }\n}\nORDER BY ?name"
}

func objectsAuthoredBy(personID string) string {
	return prefixes + objectPattern +
		"  ?internalId dc:creator / dc:identifier ?personId .\n" +
		"  VALUES ?personId { " + literal(personID) + " }\n}\nORDER BY ?identifier"
}

func literals(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, literal(v))
	}
	return strings.Join(quoted, " ")
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// literal renders v as a quoted SPARQL string literal.
func literal(v string) string {
	return `"` + literalEscaper.Replace(v) + `"`
}
