package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
)

const maxBody = 1 << 20

// GET /api/books?title=&author=&genre=&q=&from=0&size=36
func (s *Server) APIBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := filter.Criteria{
		Title:    q.Get("title"),
		AuthorID: q.Get("author"),
		GenreID:  q.Get("genre"),
	}.Normalize()
	if raw := q.Get("q"); raw != "" {
		parsed, err := filter.Parse(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "bad_query", "invalid q parameter", err.Error())
			return
		}
		c = parsed
	}
	from := atoiDefault(q.Get("from"), 0)
	size := atoiDefault(q.Get("size"), 0)
	if from < 0 || size < 0 {
		WriteError(w, http.StatusBadRequest, "bad_request", "from and size must not be negative", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, s.Search.Search(ctx, c, from, size))
}

// POST /api/search  body: {"title","author","genre","query","from","size"}
func (s *Server) APISearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "unreadable body", err.Error())
		return
	}
	violations, err := s.schema.validate(body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", err.Error())
		return
	}
	if len(violations) > 0 {
		WriteError(w, http.StatusBadRequest, "validation_failed", "request does not match schema", violations)
		return
	}

	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", err.Error())
		return
	}
	c := filter.Criteria{Title: req.Title, AuthorID: req.Author, GenreID: req.Genre}.Normalize()
	if req.Query != "" {
		if c, err = filter.Parse(req.Query); err != nil {
			WriteError(w, http.StatusBadRequest, "bad_query", "invalid query", err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	writeJSON(w, http.StatusOK, s.Search.Search(ctx, c, req.From, req.Size))
}

// GET /api/books/{id}
func (s *Server) APIBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := s.Search.Book(id)
	if errors.Is(err, catalog.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "not_found", "book not found", map[string]string{"id": id})
		return
	}
	if err != nil {
		s.Log.WithError(err).WithField("id", id).Error("api.book.failed")
		WriteError(w, http.StatusInternalServerError, "internal", "lookup failed", nil)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GET /api/options
func (s *Server) APIOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Search.Options())
}
