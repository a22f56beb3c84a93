package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
	"bookshelf/internal/logger"
	"bookshelf/internal/session"
	"bookshelf/internal/theme"
)

// GET /
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	w.Header().Set("Accept-CH", ColorSchemeHint)
	s.page(w, r, http.StatusOK, sess.View(), nil)
}

// POST /search  form: title, genre, author (or q)
func (s *Server) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c, err := formCriteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	st := sess.SubmitFilter(c)
	logger.For(r.Context()).WithField("criteria", c.String()).
		WithField("matches", len(st.Matches)).Info("filter.submitted")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /more
// With HX-Request or ?fragment=1 only the newly revealed previews come back;
// 204 means there was nothing left to reveal.
func (s *Server) More(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	advanced := sess.RequestMore()

	if !wantsFragment(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if !advanced {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Render.Fragment(w, sess.View()); err != nil {
		logger.For(r.Context()).WithError(err).Error("render.fragment.failed")
	}
}

// GET /books/{id}
// An unknown id renders the page without a modal.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	d, err := sess.SelectPreview(chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		s.page(w, r, http.StatusNotFound, sess.View(), nil)
		return
	}
	s.page(w, r, http.StatusOK, sess.View(), &d)
}

// POST /settings  form: theme
func (s *Server) Settings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := s.session(w, r)
	sess.SetTheme(theme.Parse(r.PostForm.Get("theme")))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, v session.View, d *session.Detail) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Render.Page(w, v, d); err != nil {
		logger.For(r.Context()).WithError(err).Error("render.page.failed")
	}
}

func formCriteria(r *http.Request) (filter.Criteria, error) {
	if q := r.Form.Get("q"); q != "" {
		return filter.Parse(q)
	}
	c := filter.Criteria{
		Title:    r.Form.Get("title"),
		AuthorID: r.Form.Get("author"),
		GenreID:  r.Form.Get("genre"),
	}
	return c.Normalize(), nil
}

func wantsFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.URL.Query().Get("fragment") == "1"
}
