package catalog

import (
	"errors"
	"fmt"
	"time"
)

// DefaultBooksPerPage is the page size used when a dataset does not declare one.
const DefaultBooksPerPage = 36

// ErrNotFound is returned when no book carries the requested id.
var ErrNotFound = errors.New("book not found")

// Book is a single catalog entry. AuthorID and GenreIDs reference the
// catalog's authors and genres.
type Book struct {
	ID          string
	Title       string
	AuthorID    string
	Image       string
	GenreIDs    []string
	Published   time.Time
	Description string
}

type Author struct {
	ID   string
	Name string
}

type Genre struct {
	ID   string
	Name string
}

// Catalog holds the loaded dataset. It is never mutated after New.
type Catalog struct {
	books        []Book
	authors      []Author
	genres       []Genre
	authorByID   map[string]Author
	genreByID    map[string]Genre
	booksPerPage int
	index        *Index
}

// New builds a catalog over books, authors and genres in the order given.
// A non-positive booksPerPage falls back to DefaultBooksPerPage.
func New(books []Book, authors []Author, genres []Genre, booksPerPage int) *Catalog {
	if booksPerPage <= 0 {
		booksPerPage = DefaultBooksPerPage
	}
	c := &Catalog{
		books:        books,
		authors:      authors,
		genres:       genres,
		authorByID:   make(map[string]Author, len(authors)),
		genreByID:    make(map[string]Genre, len(genres)),
		booksPerPage: booksPerPage,
	}
	for _, a := range authors {
		c.authorByID[a.ID] = a
	}
	for _, g := range genres {
		c.genreByID[g.ID] = g
	}
	c.index = buildIndex(books)
	return c
}

// Books returns the dataset in load order. Callers must not modify the slice.
func (c *Catalog) Books() []Book { return c.books }

// Authors returns the authors in declaration order, for dropdowns.
func (c *Catalog) Authors() []Author { return c.authors }

// Genres returns the genres in declaration order, for dropdowns.
func (c *Catalog) Genres() []Genre { return c.genres }

func (c *Catalog) BooksPerPage() int { return c.booksPerPage }

func (c *Catalog) Len() int { return len(c.books) }

// Index returns the author/genre bitmap index over the dataset.
func (c *Catalog) Index() *Index { return c.index }

// AuthorName resolves an author id. Unknown ids yield "".
func (c *Catalog) AuthorName(id string) string {
	return c.authorByID[id].Name
}

// GenreName resolves a genre id. Unknown ids yield "".
func (c *Catalog) GenreName(id string) string {
	return c.genreByID[id].Name
}

// GenreNames resolves the genres of a book, skipping unknown ids.
func (c *Catalog) GenreNames(b Book) []string {
	names := make([]string, 0, len(b.GenreIDs))
	for _, id := range b.GenreIDs {
		if g, ok := c.genreByID[id]; ok {
			names = append(names, g.Name)
		}
	}
	return names
}

// Book looks a book up by id over the whole dataset.
func (c *Catalog) Book(id string) (Book, error) {
	return FindByID(c.books, id)
}

// Subtitle renders the detail line shown under a book title: "Author (Year)".
func (c *Catalog) Subtitle(b Book) string {
	if b.Published.IsZero() {
		return c.AuthorName(b.AuthorID)
	}
	return fmt.Sprintf("%s (%d)", c.AuthorName(b.AuthorID), b.Published.Year())
}

// FindByID returns the first book in books whose id equals id.
func FindByID(books []Book, id string) (Book, error) {
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
