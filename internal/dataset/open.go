package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bookshelf/internal/catalog"
)

var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Open loads a catalog from a .json document or a .db/.sqlite database.
// A positive booksPerPage overrides the page size stored in the dataset.
func Open(ctx context.Context, path string, booksPerPage int) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cat, err = openJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		cat, err = openSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}
	if booksPerPage > 0 && booksPerPage != cat.BooksPerPage() {
		cat = catalog.New(cat.Books(), cat.Authors(), cat.Genres(), booksPerPage)
	}
	return cat, nil
}

func openJSON(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

func openSQLite(ctx context.Context, path string) (*catalog.Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	db, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Load(ctx)
}
