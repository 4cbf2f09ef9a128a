package rdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

func TestReadNTriples(t *testing.T) {
	doc := `
# catalogue
<https://agonymagnolia.github.io/data-science#CHO-1> <http://purl.org/dc/elements/1.1/identifier> "1" .
<https://agonymagnolia.github.io/data-science#CHO-1> <http://purl.org/dc/elements/1.1/title> "Carta \"nautica\""@it .
<https://agonymagnolia.github.io/data-science#CHO-1> <http://purl.org/dc/elements/1.1/date> "1610"^^<http://www.w3.org/2001/XMLSchema#string> .
<https://agonymagnolia.github.io/data-science#CHO-1> <http://purl.org/dc/elements/1.1/creator> _:a1 .
`
	triples, err := ReadNTriples(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, triples, 4)

	assert.Equal(t, ObjectIRI("1"), triples[0].Subject)
	assert.Equal(t, Identifier, triples[0].Predicate)
	assert.Equal(t, Literal("1"), triples[0].Object)
	assert.Equal(t, Literal(`Carta "nautica"`), triples[1].Object)
	assert.Equal(t, Literal("1610"), triples[2].Object)
	assert.Equal(t, IRI("_:a1"), triples[3].Object)
}

func TestReadNTriples_UnicodeEscape(t *testing.T) {
	doc := `<s> <p> "Bologna \u00e8" .`
	triples, err := ReadNTriples(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "Bologna è", triples[0].Object.Value)
}

func TestReadNTriples_Echar(t *testing.T) {
	doc := `<s> <p> "a\tb\bc\nd\re\ff\"g\\h\'i" .`
	triples, err := ReadNTriples(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "a\tb\bc\nd\re\ff\"g\\h'i", triples[0].Object.Value)
}

func TestReadNTriples_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing dot", `<s> <p> <o>`},
		{"unterminated iri", `<s <p> <o> .`},
		{"unterminated literal", `<s> <p> "abc .`},
		{"literal subject", `"s" <p> <o> .`},
		{"trailing garbage", `<s> <p> <o> <x> .`},
		{"bad escape", `<s> <p> "a\qb" .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNTriples(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestWriteNTriples_ReadBack(t *testing.T) {
	o := domain.NewCulturalHeritageObject(domain.ClassPainting, "7", `Ritratto "di" Aldrovandi`, "Museo", "Bologna", "")
	o.AddAuthor(domain.Person{Identifier: "VIAF:1", Name: "Anon"})

	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, ObjectTriples(o)))

	triples, err := ReadNTriples(&buf)
	require.NoError(t, err)
	assert.Equal(t, ObjectTriples(o), triples)
}

func TestWriteNTriples_ControlCharacters(t *testing.T) {
	title := "bell\a tab\v back\b feed\f\t\n\r \"q\" \\ \x01\x7f Città"
	triples := []Triple{{Subject: ObjectIRI("9"), Predicate: Title, Object: Literal(title)}}

	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, triples))

	line := buf.String()
	assert.Contains(t, line, `bell\u0007 tab\u000B back\b feed\f\t\n\r \"q\" \\ \u0001\u007F Città`)
	assert.NotContains(t, line, `\a`)
	assert.NotContains(t, line, `\v`)
	assert.NotContains(t, line, `\x`)
	assert.Equal(t, 1, strings.Count(line, "\n"), "one statement per line")

	read, err := ReadNTriples(&buf)
	require.NoError(t, err)
	assert.Equal(t, triples, read)
}

func TestObjectTriples(t *testing.T) {
	o := domain.NewCulturalHeritageObject(domain.ClassMap, "3", "Map", "Library", "Rome", "1700")
	triples := ObjectTriples(o)

	assert.Contains(t, triples, Triple{Subject: ClassIRI(domain.ClassMap), Predicate: SubClassOf, Object: IRI(PhysicalThing)})
	assert.Contains(t, triples, Triple{Subject: ObjectIRI("3"), Predicate: Date, Object: Literal("1700")})
	assert.Equal(t, "Map", LocalClass(ClassIRI(domain.ClassMap)))
	assert.Equal(t, "http://other/Map", LocalClass("http://other/Map"))
}
