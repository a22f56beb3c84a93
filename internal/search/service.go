package search

import (
	"context"

	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
	"bookshelf/internal/logger"
)

const (
	AllGenres  = "All Genres"
	AllAuthors = "All Authors"
)

// Service answers stateless catalog queries for the JSON and gRPC surfaces.
type Service struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Service {
	return &Service{cat: cat}
}

func (s *Service) Catalog() *catalog.Catalog { return s.cat }

// Search filters the catalog and returns the window [from, from+size).
// A non-positive size means the catalog's page size.
func (s *Service) Search(ctx context.Context, c filter.Criteria, from, size int) *SearchResult {
	defer logger.Track(ctx, "search: filter catalog")()

	if size <= 0 {
		size = s.cat.BooksPerPage()
	}
	if from < 0 {
		from = 0
	}

	matches := filter.FilterCatalog(s.cat, c)
	lo := min(from, len(matches))
	hi := lo + min(size, len(matches)-lo)

	res := &SearchResult{
		Total:    len(matches),
		From:     from,
		Size:     size,
		NextFrom: hi,
		HasMore:  hi < len(matches),
		Books:    make([]BookDTO, 0, hi-lo),
	}
	for _, b := range matches[lo:hi] {
		res.Books = append(res.Books, s.DTO(b))
	}

	logger.For(ctx).WithField("criteria", c.String()).WithField("total", res.Total).Debug("search.done")
	return res
}

// Book returns one book by id. A miss wraps catalog.ErrNotFound.
func (s *Service) Book(id string) (BookDTO, error) {
	b, err := s.cat.Book(id)
	if err != nil {
		return BookDTO{}, err
	}
	return s.DTO(b), nil
}

// DTO resolves a book's author and genres.
func (s *Service) DTO(b catalog.Book) BookDTO {
	d := BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		AuthorID:    b.AuthorID,
		Author:      s.cat.AuthorName(b.AuthorID),
		Image:       b.Image,
		Genres:      s.cat.GenreNames(b),
		Subtitle:    s.cat.Subtitle(b),
		Description: b.Description,
	}
	if !b.Published.IsZero() {
		d.Year = b.Published.Year()
	}
	return d
}

// Options returns the dropdown entries, each list led by its "any" entry.
func (s *Service) Options() Options {
	opts := Options{
		Genres:  make([]Option, 0, len(s.cat.Genres())+1),
		Authors: make([]Option, 0, len(s.cat.Authors())+1),
	}
	opts.Genres = append(opts.Genres, Option{Value: filter.Any, Label: AllGenres})
	for _, g := range s.cat.Genres() {
		opts.Genres = append(opts.Genres, Option{Value: g.ID, Label: g.Name})
	}
	opts.Authors = append(opts.Authors, Option{Value: filter.Any, Label: AllAuthors})
	for _, a := range s.cat.Authors() {
		opts.Authors = append(opts.Authors, Option{Value: a.ID, Label: a.Name})
	}
	return opts
}
