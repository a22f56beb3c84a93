package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"

	"bookshelf/internal/catalog"
	"bookshelf/internal/search"
	"bookshelf/internal/session"
	"bookshelf/internal/theme"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Preview is one tile of the grid.
type Preview struct {
	ID     string
	Title  string
	Author string
	Image  string
}

// Modal is the detail overlay for an activated preview.
type Modal struct {
	Image       string
	Title       string
	Subtitle    string
	Genres      []string
	Description template.HTML
}

// PageData feeds page.tmpl.
type PageData struct {
	Theme       theme.Theme
	Scheme      theme.Scheme
	Title       string
	AuthorID    string
	GenreID     string
	Options     search.Options
	Previews    []Preview
	ShowMessage bool
	HasMore     bool
	Remaining   int
	Modal       *Modal
}

// FragmentData feeds the previews fragment returned by show-more.
type FragmentData struct {
	Previews  []Preview
	HasMore   bool
	Remaining int
}

// Renderer turns session views into HTML.
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
	cat    *catalog.Catalog
	opts   search.Options
}

func New(svc *search.Service) (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		tmpl:   tmpl,
		policy: bluemonday.UGCPolicy(),
		cat:    svc.Catalog(),
		opts:   svc.Options(),
	}, nil
}

// Page renders the whole document. detail may be nil.
func (r *Renderer) Page(w io.Writer, v session.View, detail *session.Detail) error {
	data := PageData{
		Theme:       v.Theme,
		Scheme:      v.Theme.Scheme(),
		Title:       v.Criteria.Title,
		AuthorID:    v.Criteria.AuthorID,
		GenreID:     v.Criteria.GenreID,
		Options:     r.opts,
		Previews:    r.previews(v.Visible),
		ShowMessage: v.Match.Empty,
		HasMore:     v.HasMore,
		Remaining:   v.Remaining,
	}
	if detail != nil {
		data.Modal = r.modal(*detail)
	}
	return r.tmpl.ExecuteTemplate(w, "page.tmpl", data)
}

// Fragment renders only the books revealed by the latest show-more.
func (r *Renderer) Fragment(w io.Writer, v session.View) error {
	return r.tmpl.ExecuteTemplate(w, "previews.tmpl", FragmentData{
		Previews:  r.previews(v.LastPage),
		HasMore:   v.HasMore,
		Remaining: v.Remaining,
	})
}

func (r *Renderer) previews(books []catalog.Book) []Preview {
	out := make([]Preview, 0, len(books))
	for _, b := range books {
		out = append(out, Preview{
			ID:     b.ID,
			Title:  b.Title,
			Author: r.cat.AuthorName(b.AuthorID),
			Image:  b.Image,
		})
	}
	return out
}

func (r *Renderer) modal(d session.Detail) *Modal {
	return &Modal{
		Image:       d.Book.Image,
		Title:       d.Book.Title,
		Subtitle:    d.Subtitle,
		Genres:      d.Genres,
		Description: template.HTML(r.policy.Sanitize(d.Book.Description)),
	}
}
