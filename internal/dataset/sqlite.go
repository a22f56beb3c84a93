package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"bookshelf/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS authors (
	position INTEGER NOT NULL,
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS genres (
	position INTEGER NOT NULL,
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS books (
	position    INTEGER NOT NULL,
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	author_id   TEXT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	published   TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS book_genres (
	book_id  TEXT NOT NULL,
	position INTEGER NOT NULL,
	genre_id TEXT NOT NULL,
	PRIMARY KEY (book_id, position)
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLite stores a dataset in a SQLite file. Row order is kept in the
// position columns.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Save replaces the stored dataset with cat. progress, when not nil, is
// called once per stored book.
func (s *SQLite) Save(ctx context.Context, cat *catalog.Catalog, progress func()) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"book_genres", "books", "genres", "authors", "meta"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, a := range cat.Authors() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO authors (position, id, name) VALUES (?, ?, ?)`, i, a.ID, a.Name); err != nil {
			return fmt.Errorf("insert author %s: %w", a.ID, err)
		}
	}
	for i, g := range cat.Genres() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO genres (position, id, name) VALUES (?, ?, ?)`, i, g.ID, g.Name); err != nil {
			return fmt.Errorf("insert genre %s: %w", g.ID, err)
		}
	}

	bookStmt, err := tx.PrepareContext(ctx, `INSERT INTO books (position, id, title, author_id, image, published, description) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare books: %w", err)
	}
	defer bookStmt.Close()
	genreStmt, err := tx.PrepareContext(ctx, `INSERT INTO book_genres (book_id, position, genre_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare book_genres: %w", err)
	}
	defer genreStmt.Close()

	for i, b := range cat.Books() {
		published := ""
		if !b.Published.IsZero() {
			published = b.Published.UTC().Format(time.RFC3339)
		}
		if _, err = bookStmt.ExecContext(ctx, i, b.ID, b.Title, b.AuthorID, b.Image, published, b.Description); err != nil {
			return fmt.Errorf("insert book %s: %w", b.ID, err)
		}
		for j, g := range b.GenreIDs {
			if _, err = genreStmt.ExecContext(ctx, b.ID, j, g); err != nil {
				return fmt.Errorf("insert genre %s of %s: %w", g, b.ID, err)
			}
		}
		if progress != nil {
			progress()
		}
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('books_per_page', ?)`, strconv.Itoa(cat.BooksPerPage())); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reads the stored dataset back into a catalog.
func (s *SQLite) Load(ctx context.Context) (*catalog.Catalog, error) {
	authors, err := s.loadAuthors(ctx)
	if err != nil {
		return nil, err
	}
	genres, err := s.loadGenres(ctx)
	if err != nil {
		return nil, err
	}
	bookGenres, err := s.loadBookGenres(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, author_id, image, published, description FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []catalog.Book
	for rows.Next() {
		var (
			b         catalog.Book
			published string
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &b.Image, &published, &b.Description); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if b.Published, err = parsePublished(published); err != nil {
			return nil, fmt.Errorf("book %s: %w", b.ID, err)
		}
		b.GenreIDs = bookGenres[b.ID]
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	perPage := 0
	var v string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'books_per_page'`).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("query meta: %w", err)
	default:
		perPage, _ = strconv.Atoi(v)
	}

	return catalog.New(books, authors, genres, perPage), nil
}

func (s *SQLite) loadAuthors(ctx context.Context) ([]catalog.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM authors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	defer rows.Close()
	var out []catalog.Author
	for rows.Next() {
		var a catalog.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) loadGenres(ctx context.Context) ([]catalog.Genre, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()
	var out []catalog.Genre
	for rows.Next() {
		var g catalog.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLite) loadBookGenres(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT book_id, genre_id FROM book_genres ORDER BY book_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query book_genres: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var bookID, genreID string
		if err := rows.Scan(&bookID, &genreID); err != nil {
			return nil, fmt.Errorf("scan book_genre: %w", err)
		}
		out[bookID] = append(out[bookID], genreID)
	}
	return out, rows.Err()
}
