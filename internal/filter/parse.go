package filter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedOperator is returned for OR and NOT: criteria are always a conjunction.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrUnknownField        = errors.New("unknown field")
	ErrSyntax              = errors.New("syntax error")
)

// Parse turns a query such as `title:"dune messiah" author:a1 genre:g2` into
// Criteria. Bare words are joined into the title substring. AND is accepted
// and ignored. A repeated field keeps its last value.
func Parse(query string) (Criteria, error) {
	toks, err := scan(query)
	if err != nil {
		return Criteria{}, err
	}

	var (
		c     Criteria
		words []string
	)
	for _, tok := range toks {
		switch tok.kind {
		case tokAnd:
		case tokOr, tokNot:
			return Criteria{}, fmt.Errorf("%w: %s at %d", ErrUnsupportedOperator, strings.ToUpper(tok.text), tok.pos)
		case tokWord:
			words = append(words, tok.text)
		case tokField:
			switch tok.field {
			case "title":
				c.Title = tok.text
			case "author":
				c.AuthorID = tok.text
			case "genre":
				c.GenreID = tok.text
			default:
				return Criteria{}, fmt.Errorf("%w: %s", ErrUnknownField, tok.field)
			}
		}
	}

	if len(words) > 0 {
		if c.Title != "" {
			words = append([]string{c.Title}, words...)
		}
		c.Title = strings.Join(words, " ")
	}
	return c.Normalize(), nil
}

// String renders c in the query syntax accepted by Parse. Empty ids are
// omitted, so they parse back as Any.
func (c Criteria) String() string {
	var parts []string
	if c.Title != "" {
		parts = append(parts, "title:"+quote(c.Title))
	}
	if c.AuthorID != Any && c.AuthorID != "" {
		parts = append(parts, "author:"+quote(c.AuthorID))
	}
	if c.GenreID != Any && c.GenreID != "" {
		parts = append(parts, "genre:"+quote(c.GenreID))
	}
	return strings.Join(parts, " ")
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	if strings.ContainsAny(s, " \t\n:\"\\") {
		return `"` + quoteEscaper.Replace(s) + `"`
	}
	return s
}
