package sparql

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/heritage/internal/adapters/driven/rdf"
	"github.com/custodia-labs/heritage/internal/core/domain"
)

// resultsMIME is the SPARQL 1.1 query results JSON media type.
const resultsMIME = "application/sparql-results+json"

// results is the body of a SELECT response.
type results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

// binding is one bound variable. Type is "uri", "literal" or "bnode".
type binding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// solution maps variable names to values. Unbound variables are absent.
type solution map[string]string

func decodeResults(r io.Reader) ([]solution, error) {
	var res results
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decoding sparql results: %w", err)
	}

	out := make([]solution, 0, len(res.Results.Bindings))
	for _, b := range res.Results.Bindings {
		s := make(solution, len(b))
		for name, v := range b {
			s[name] = v.Value
		}
		out = append(out, s)
	}
	return out, nil
}

func toObjectRows(solutions []solution) []domain.ObjectRow {
	rows := make([]domain.ObjectRow, 0, len(solutions))
	for _, s := range solutions {
		rows = append(rows, domain.ObjectRow{
			Class:      rdf.LocalClass(s["class"]),
			Identifier: s["identifier"],
			Title:      s["title"],
			Owner:      s["owner"],
			Place:      s["place"],
			Date:       s["date"],
			AuthorID:   s["author_id"],
			AuthorName: s["author_name"],
		})
	}
	return rows
}

func toPersonRows(solutions []solution) []domain.PersonRow {
	rows := make([]domain.PersonRow, 0, len(solutions))
	for _, s := range solutions {
		rows = append(rows, domain.PersonRow{
			Identifier: s["identifier"],
			Name:       s["name"],
		})
	}
	return rows
}
