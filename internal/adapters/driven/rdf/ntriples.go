package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

// ReadNTriples parses an N-Triples document. Language tags and datatypes
// are accepted and dropped: every literal becomes a plain literal. Blank
// nodes are kept as "_:label" resources.
func ReadNTriples(r io.Reader) ([]Triple, error) {
	var triples []Triple

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		t, err := parseStatement(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		triples = append(triples, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading n-triples: %w", err)
	}

	return triples, nil
}

// WriteNTriples serialises triples, one statement per line. It writes the
// fixture files that ntriples handlers load; nothing in the query path
// produces triples.
func WriteNTriples(w io.Writer, triples []Triple) error {
	bw := bufio.NewWriter(w)
	for _, t := range triples {
		object := "<" + t.Object.Value + ">"
		if t.Object.Literal {
			object = `"` + escapeLiteral(t.Object.Value) + `"`
		}
		if _, err := fmt.Fprintf(bw, "<%s> <%s> %s .\n", t.Subject, t.Predicate, object); err != nil {
			return fmt.Errorf("writing n-triples: %w", err)
		}
	}
	return bw.Flush()
}

func parseStatement(text string) (Triple, error) {
	rest, ok := strings.CutSuffix(text, ".")
	if !ok {
		return Triple{}, fmt.Errorf("missing terminating '.'")
	}
	rest = strings.TrimSpace(rest)

	subject, rest, err := parseResource(rest)
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	predicate, rest, err := parseResource(rest)
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}

	var object Term
	if strings.HasPrefix(rest, `"`) {
		value, tail, err := parseLiteral(rest)
		if err != nil {
			return Triple{}, fmt.Errorf("object: %w", err)
		}
		object, rest = Literal(value), tail
	} else {
		value, tail, err := parseResource(rest)
		if err != nil {
			return Triple{}, fmt.Errorf("object: %w", err)
		}
		object, rest = IRI(value), tail
	}

	if rest != "" {
		return Triple{}, fmt.Errorf("unexpected trailing %q", rest)
	}
	return Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

// parseResource reads an <iri> or a _:blank node and returns the remainder.
func parseResource(s string) (string, string, error) {
	switch {
	case strings.HasPrefix(s, "<"):
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated IRI")
		}
		return s[1:end], strings.TrimSpace(s[end+1:]), nil
	case strings.HasPrefix(s, "_:"):
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			return s, "", nil
		}
		return s[:end], strings.TrimSpace(s[end:]), nil
	default:
		return "", "", fmt.Errorf("expected IRI or blank node at %q", s)
	}
}

// parseLiteral reads a quoted literal with an optional language tag or
// datatype and returns the unescaped value and the remainder.
func parseLiteral(s string) (string, string, error) {
	end := 1
	for end < len(s) {
		if s[end] == '\\' {
			end += 2
			continue
		}
		if s[end] == '"' {
			break
		}
		end++
	}
	if end >= len(s) {
		return "", "", fmt.Errorf("unterminated literal")
	}

	value, err := unescape(s[1:end])
	if err != nil {
		return "", "", err
	}

	rest := s[end+1:]
	switch {
	case strings.HasPrefix(rest, "@"):
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			i = len(rest)
		}
		rest = rest[i:]
	case strings.HasPrefix(rest, "^^"):
		_, tail, err := parseResource(rest[2:])
		if err != nil {
			return "", "", fmt.Errorf("datatype: %w", err)
		}
		rest = tail
	}

	return value, strings.TrimSpace(rest), nil
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '"', '\\', '\'':
			b.WriteByte(s[i])
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if i+width >= len(s) {
				return "", fmt.Errorf("short unicode escape")
			}
			code, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("unicode escape: %w", err)
			}
			b.WriteRune(rune(code))
			i += width
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return b.String(), nil
}

// escapeLiteral escapes s for a quoted literal. Only the escapes a reader
// must accept are produced: ECHAR for the usual controls and \uXXXX for the
// rest. Other characters are written as UTF-8.
func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
