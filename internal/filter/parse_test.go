package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Criteria
	}{
		{name: "empty", input: "", want: Criteria{AuthorID: Any, GenreID: Any}},
		{name: "bare words", input: "children of dune", want: Criteria{Title: "children of dune", AuthorID: Any, GenreID: Any}},
		{name: "fields", input: "author:a1 genre:g2", want: Criteria{AuthorID: "a1", GenreID: "g2"}},
		{name: "quoted title", input: `title:"dune messiah" AND author:a1`, want: Criteria{Title: "dune messiah", AuthorID: "a1", GenreID: Any}},
		{name: "field names are case-insensitive", input: "Genre:g3", want: Criteria{AuthorID: Any, GenreID: "g3"}},
		{name: "title field plus bare words", input: "title:dune messiah", want: Criteria{Title: "dune messiah", AuthorID: Any, GenreID: Any}},
		{name: "explicit any", input: "author:any", want: Criteria{AuthorID: Any, GenreID: Any}},
		{name: "escaped quote", input: `title:"say \"hi\""`, want: Criteria{Title: `say "hi"`, AuthorID: Any, GenreID: Any}},
		{name: "quoted blank keeps its space", input: `title:" "`, want: Criteria{Title: " ", AuthorID: Any, GenreID: Any}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{input: "dune OR emma", want: ErrUnsupportedOperator},
		{input: "NOT author:a1", want: ErrUnsupportedOperator},
		{input: "year:1965", want: ErrUnknownField},
		{input: `title:"dune`, want: ErrSyntax},
		{input: "author:", want: ErrSyntax},
		{input: `title:"dune\"`, want: ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCriteriaStringRoundTrip(t *testing.T) {
	c := Criteria{Title: "dune messiah", AuthorID: "a1", GenreID: Any}
	assert.Equal(t, `title:"dune messiah" author:a1`, c.String())

	back, err := Parse(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)

	assert.Equal(t, "", Criteria{}.String())

	for _, c := range []Criteria{
		{Title: `say "hi"`, AuthorID: Any, GenreID: Any},
		{Title: `back\slash`, AuthorID: "a1", GenreID: Any},
		{Title: "Dune ", AuthorID: Any, GenreID: "g2"},
		{Title: " ", AuthorID: Any, GenreID: Any},
	} {
		back, err := Parse(c.String())
		require.NoError(t, err, c.String())
		assert.Equal(t, c, back)
	}
	assert.Equal(t, `title:"say \"hi\""`, Criteria{Title: `say "hi"`, AuthorID: Any, GenreID: Any}.String())
}

func TestScan(t *testing.T) {
	toks, err := scan(`Title: "a b" and x genre:g1`)
	require.NoError(t, err)
	assert.Equal(t, []token{
		{kind: tokField, field: "title", text: "a b", pos: 0},
		{kind: tokAnd, text: "and", pos: 13},
		{kind: tokWord, text: "x", pos: 17},
		{kind: tokField, field: "genre", text: "g1", pos: 19},
	}, toks)
}
