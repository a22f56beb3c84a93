package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "booksPerPage": 2,
  "authors": {"z9": "Zed Last", "a1": "Frank Herbert", "m5": "Middle"},
  "genres": {"g2": "Romance", "g1": "Science Fiction"},
  "books": [
    {"id": "b1", "title": "Dune", "author": "a1", "image": "https://img/dune.jpg",
     "genres": ["g1"], "published": "1965-08-01T00:00:00.000Z", "description": "Spice."},
    {"id": "b2", "title": "Emma", "author": "z9", "image": "", "genres": ["g2", "g1"],
     "published": "1815-12-23", "description": ""},
    {"id": "b3", "title": "Undated", "author": "m5", "genres": [], "published": ""}
  ]
}`

func TestLoadJSON(t *testing.T) {
	cat, err := LoadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 2, cat.BooksPerPage())
	require.Equal(t, 3, cat.Len())

	dune := cat.Books()[0]
	assert.Equal(t, "a1", dune.AuthorID)
	assert.Equal(t, []string{"g1"}, dune.GenreIDs)
	assert.Equal(t, 1965, dune.Published.Year())
	assert.Equal(t, "Spice.", dune.Description)
	assert.Equal(t, 1815, cat.Books()[1].Published.Year())
	assert.True(t, cat.Books()[2].Published.IsZero())

	// declaration order, not sorted
	var authorIDs []string
	for _, a := range cat.Authors() {
		authorIDs = append(authorIDs, a.ID)
	}
	assert.Equal(t, []string{"z9", "a1", "m5"}, authorIDs)
	assert.Equal(t, "g2", cat.Genres()[0].ID)
}

func TestLoadJSONErrors(t *testing.T) {
	tests := map[string]string{
		"not json":       `{`,
		"authors array":  `{"authors": ["a"]}`,
		"bad date":       `{"books": [{"id": "b1", "published": "yesterday"}]}`,
		"non-string val": `{"genres": {"g1": 3}}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	cat, err := LoadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, cat))

	back, err := LoadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, cat.Books(), back.Books())
	assert.Equal(t, cat.Authors(), back.Authors())
	assert.Equal(t, cat.Genres(), back.Genres())
	assert.Equal(t, cat.BooksPerPage(), back.BooksPerPage())
}

func TestSQLiteSaveLoad(t *testing.T) {
	ctx := context.Background()
	cat, err := LoadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "books.db")
	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	saved := 0
	require.NoError(t, db.Save(ctx, cat, func() { saved++ }))
	assert.Equal(t, 3, saved)

	// saving again replaces rather than duplicates
	require.NoError(t, db.Save(ctx, cat, nil))
	require.NoError(t, db.Close())

	back, err := Open(ctx, path, 0)
	require.NoError(t, err)
	assert.Equal(t, cat.Authors(), back.Authors())
	assert.Equal(t, cat.Genres(), back.Genres())
	assert.Equal(t, 2, back.BooksPerPage())
	require.Equal(t, 3, back.Len())
	assert.Equal(t, []string{"g2", "g1"}, back.Books()[1].GenreIDs)
	assert.Nil(t, back.Books()[2].GenreIDs)
	assert.True(t, cat.Books()[0].Published.Equal(back.Books()[0].Published))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "books.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cat, err := Open(ctx, path, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.BooksPerPage())

	cat, err = Open(ctx, path, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, cat.BooksPerPage())
	assert.Equal(t, 3, cat.Len())

	_, err = Open(ctx, filepath.Join(dir, "books.csv"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Open(ctx, filepath.Join(dir, "missing.db"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParsePublished(t *testing.T) {
	got, err := parsePublished("2016-10-15T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 10, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = parsePublished("1999")
	require.NoError(t, err)
	assert.Equal(t, 1999, got.Year())

	_, err = parsePublished("soon")
	assert.Error(t, err)
}

func TestOpenShippedDataset(t *testing.T) {
	cat, err := Open(context.Background(), filepath.Join("..", "..", "data", "books.json"), 0)
	require.NoError(t, err)
	assert.Equal(t, 12, cat.Len())
	assert.Equal(t, 36, cat.BooksPerPage())
	assert.Equal(t, "a01", cat.Authors()[0].ID)
	assert.Equal(t, "Frank Herbert (1965)", cat.Subtitle(cat.Books()[0]))
}
