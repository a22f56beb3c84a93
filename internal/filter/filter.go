package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"bookshelf/internal/catalog"
)

// Any is the sentinel criterion value meaning "no constraint on this field".
const Any = "any"

// Criteria is one filter submission. Only Any lifts the author or genre
// constraint; an empty id is compared literally.
type Criteria struct {
	Title    string `json:"title"`
	AuthorID string `json:"author"`
	GenreID  string `json:"genre"`
}

// Normalize replaces empty ids with Any. Form and query adapters call it on
// input where an omitted field means "all"; the title is left as typed.
func (c Criteria) Normalize() Criteria {
	if c.AuthorID == "" {
		c.AuthorID = Any
	}
	if c.GenreID == "" {
		c.GenreID = Any
	}
	return c
}

// IsIdentity reports whether c constrains nothing.
func (c Criteria) IsIdentity() bool {
	return c.Title == "" && c.AuthorID == Any && c.GenreID == Any
}

// Filter returns the books matching all three predicates of c, in input order.
// The result is never nil.
func Filter(books []catalog.Book, c Criteria) []catalog.Book {
	m := newMatcher(c)
	out := make([]catalog.Book, 0)
	for _, b := range books {
		if m.match(b) {
			out = append(out, b)
		}
	}
	return out
}

// FilterCatalog is Filter over the whole catalog, narrowed first through its
// author/genre index. It returns the same books as Filter(cat.Books(), c).
func FilterCatalog(cat *catalog.Catalog, c Criteria) []catalog.Book {
	books := cat.Books()
	// The index reads an empty id as unconstrained.
	if c.AuthorID == "" || c.GenreID == "" {
		return Filter(books, c)
	}
	m := newMatcher(c)

	authorID, genreID := c.AuthorID, c.GenreID
	if authorID == Any {
		authorID = ""
	}
	if genreID == Any {
		genreID = ""
	}
	candidates := cat.Index().Candidates(authorID, genreID)

	out := make([]catalog.Book, 0, candidates.GetCardinality())
	for pos := range catalog.Positions(candidates) {
		if m.matchTitle(books[pos]) {
			out = append(out, books[pos])
		}
	}
	return out
}

type matcher struct {
	criteria Criteria
	fold     cases.Caser
	title    string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{criteria: c, fold: cases.Fold()}
	if c.Title != "" {
		m.title = m.fold.String(c.Title)
	}
	return m
}

func (m *matcher) match(b catalog.Book) bool {
	return m.matchTitle(b) && m.matchAuthor(b) && m.matchGenre(b)
}

func (m *matcher) matchTitle(b catalog.Book) bool {
	if m.title == "" {
		return true
	}
	return strings.Contains(m.fold.String(b.Title), m.title)
}

func (m *matcher) matchAuthor(b catalog.Book) bool {
	return m.criteria.AuthorID == Any || b.AuthorID == m.criteria.AuthorID
}

func (m *matcher) matchGenre(b catalog.Book) bool {
	if m.criteria.GenreID == Any {
		return true
	}
	for _, g := range b.GenreIDs {
		if g == m.criteria.GenreID {
			return true
		}
	}
	return false
}
