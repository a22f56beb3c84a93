package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"bookshelf/internal/catalog"
)

// Document is the on-disk JSON shape of a dataset:
//
//	{"books": [...], "authors": {"id": "name"}, "genres": {"id": "name"}, "booksPerPage": 36}
//
// authors and genres keep their key order, which is the dropdown order.
type Document struct {
	Books        []BookRecord    `json:"books"`
	Authors      json.RawMessage `json:"authors"`
	Genres       json.RawMessage `json:"genres"`
	BooksPerPage int             `json:"booksPerPage,omitempty"`
}

type BookRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Image       string   `json:"image"`
	Genres      []string `json:"genres"`
	Published   string   `json:"published"`
	Description string   `json:"description"`
}

// LoadJSON reads a dataset document into a catalog.
func LoadJSON(r io.Reader) (*catalog.Catalog, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	authors, err := orderedPairs(doc.Authors)
	if err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	genres, err := orderedPairs(doc.Genres)
	if err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}

	books := make([]catalog.Book, 0, len(doc.Books))
	for _, rec := range doc.Books {
		published, err := parsePublished(rec.Published)
		if err != nil {
			return nil, fmt.Errorf("book %s: %w", rec.ID, err)
		}
		books = append(books, catalog.Book{
			ID:          rec.ID,
			Title:       rec.Title,
			AuthorID:    rec.Author,
			Image:       rec.Image,
			GenreIDs:    rec.Genres,
			Published:   published,
			Description: rec.Description,
		})
	}

	as := make([]catalog.Author, 0, len(authors))
	for _, p := range authors {
		as = append(as, catalog.Author{ID: p[0], Name: p[1]})
	}
	gs := make([]catalog.Genre, 0, len(genres))
	for _, p := range genres {
		gs = append(gs, catalog.Genre{ID: p[0], Name: p[1]})
	}
	return catalog.New(books, as, gs, doc.BooksPerPage), nil
}

// WriteJSON writes cat in the format LoadJSON reads.
func WriteJSON(w io.Writer, cat *catalog.Catalog) error {
	doc := Document{BooksPerPage: cat.BooksPerPage()}
	for _, b := range cat.Books() {
		rec := BookRecord{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.AuthorID,
			Image:       b.Image,
			Genres:      b.GenreIDs,
			Description: b.Description,
		}
		if !b.Published.IsZero() {
			rec.Published = b.Published.UTC().Format(time.RFC3339)
		}
		doc.Books = append(doc.Books, rec)
	}

	var err error
	pairs := make([][2]string, 0, len(cat.Authors()))
	for _, a := range cat.Authors() {
		pairs = append(pairs, [2]string{a.ID, a.Name})
	}
	if doc.Authors, err = encodePairs(pairs); err != nil {
		return err
	}
	pairs = pairs[:0]
	for _, g := range cat.Genres() {
		pairs = append(pairs, [2]string{g.ID, g.Name})
	}
	if doc.Genres, err = encodePairs(pairs); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// orderedPairs decodes a flat {"id": "name"} object keeping key order.
func orderedPairs(raw json.RawMessage) ([][2]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var out [][2]string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", keyTok)
		}
		var name string
		if err := dec.Decode(&name); err != nil {
			return nil, fmt.Errorf("value of %s: %w", key, err)
		}
		out = append(out, [2]string{key, name})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func encodePairs(pairs [][2]string) (json.RawMessage, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, err := json.Marshal(p[0])
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p[1])
		if err != nil {
			return nil, err
		}
		sb.Write(k)
		sb.WriteByte(':')
		sb.Write(v)
	}
	sb.WriteByte('}')
	return json.RawMessage(sb.String()), nil
}

var publishedLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02", "2006"}

func parsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized published date %q", s)
}
