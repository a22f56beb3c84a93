package filter

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokField
	tokAnd
	tokOr
	tokNot
)

// token is one unit of a query. A field token carries the lowercased field
// name in field and its value in text.
type token struct {
	kind  tokenKind
	field string
	text  string
	pos   int
}

// scan splits a query into tokens. Quoted phrases keep their spaces and a
// "field:" prefix binds to the word or phrase after it.
func scan(query string) ([]token, error) {
	rs := []rune(query)
	var out []token

	i := skipSpace(rs, 0)
	for i < len(rs) {
		start := i
		if rs[i] == '"' {
			text, next, err := quoted(rs, i)
			if err != nil {
				return nil, err
			}
			out = append(out, token{kind: tokWord, text: text, pos: start})
			i = skipSpace(rs, next)
			continue
		}

		j := i
		for j < len(rs) && !unicode.IsSpace(rs[j]) && rs[j] != ':' {
			j++
		}
		word := string(rs[i:j])

		if j < len(rs) && rs[j] == ':' {
			text, next, err := fieldValue(rs, j+1)
			if err != nil {
				return nil, fmt.Errorf("%w: missing value for %q at %d", ErrSyntax, word, start)
			}
			out = append(out, token{kind: tokField, field: strings.ToLower(word), text: text, pos: start})
			i = skipSpace(rs, next)
			continue
		}

		out = append(out, token{kind: keyword(word), text: word, pos: start})
		i = skipSpace(rs, j)
	}
	return out, nil
}

func keyword(word string) tokenKind {
	switch strings.ToUpper(word) {
	case "AND":
		return tokAnd
	case "OR":
		return tokOr
	case "NOT":
		return tokNot
	}
	return tokWord
}

// fieldValue reads the value after a colon, allowing blanks before it.
func fieldValue(rs []rune, i int) (string, int, error) {
	i = skipSpace(rs, i)
	if i >= len(rs) {
		return "", i, ErrSyntax
	}
	if rs[i] == '"' {
		return quoted(rs, i)
	}
	j := i
	for j < len(rs) && !unicode.IsSpace(rs[j]) {
		j++
	}
	return string(rs[i:j]), j, nil
}

// quoted reads a phrase starting at the opening quote rs[i]. A backslash
// takes the next rune literally, so \" and \\ stand for " and \.
func quoted(rs []rune, i int) (string, int, error) {
	var sb strings.Builder
	for end := i + 1; end < len(rs); end++ {
		switch rs[end] {
		case '"':
			return sb.String(), end + 1, nil
		case '\\':
			if end+1 < len(rs) {
				end++
			}
		}
		sb.WriteRune(rs[end])
	}
	return "", len(rs), fmt.Errorf("%w: unterminated quote at %d", ErrSyntax, i)
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	return i
}
