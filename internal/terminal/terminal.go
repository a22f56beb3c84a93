package terminal

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/microcosm-cc/bluemonday"

	"bookshelf/internal/catalog"
	"bookshelf/internal/search"
	"bookshelf/internal/session"
)

const (
	idWidth     = 8
	titleWidth  = 36
	authorWidth = 24
)

var strict = bluemonday.StrictPolicy()

// EmptyMessage is printed when a filter submission matched nothing.
const EmptyMessage = "No results found. Your filters might be too narrow."

// Printer writes session state as plain text.
type Printer struct {
	w   io.Writer
	cat *catalog.Catalog
}

func New(w io.Writer, cat *catalog.Catalog) *Printer {
	return &Printer{w: w, cat: cat}
}

// Page prints the given books as a table, followed by the empty-result
// message or the show-more hint.
func (p *Printer) Page(books []catalog.Book, v session.View) {
	if v.Match.Empty {
		fmt.Fprintln(p.w, EmptyMessage)
		return
	}
	if len(books) > 0 {
		fmt.Fprintf(p.w, "%s | %s | %s\n",
			cell("ID", idWidth), cell("Title", titleWidth), cell("Author", authorWidth))
		fmt.Fprintln(p.w, strings.Repeat("-", idWidth+titleWidth+authorWidth+6))
		for _, b := range books {
			fmt.Fprintf(p.w, "%s | %s | %s\n",
				cell(b.ID, idWidth), cell(b.Title, titleWidth), cell(p.cat.AuthorName(b.AuthorID), authorWidth))
		}
	}
	if v.HasMore {
		fmt.Fprintf(p.w, "\nShowing %d of %d. Type 'more' to show more (%d).\n",
			len(v.Visible), len(v.Match.Matches), v.Remaining)
	} else {
		fmt.Fprintf(p.w, "\nShowing %d of %d.\n", len(v.Visible), len(v.Match.Matches))
	}
}

// Options prints a dropdown list, the "any" entry included.
func (p *Printer) Options(title string, opts []search.Option) {
	fmt.Fprintf(p.w, "%s:\n", title)
	for _, o := range opts {
		fmt.Fprintf(p.w, "  %s  %s\n", cell(o.Value, idWidth), o.Label)
	}
}

// Detail prints the modal contents for one book.
func (p *Printer) Detail(d session.Detail) {
	fmt.Fprintln(p.w, d.Book.Title)
	fmt.Fprintln(p.w, d.Subtitle)
	if len(d.Genres) > 0 {
		fmt.Fprintf(p.w, "Genres: %s\n", strings.Join(d.Genres, ", "))
	}
	if d.Book.Image != "" {
		fmt.Fprintf(p.w, "Cover: %s\n", d.Book.Image)
	}
	if d.Book.Description != "" {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, plain(d.Book.Description))
	}
}

// cell truncates or pads s to exactly w display columns.
func cell(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// plain drops markup from a description for terminal output.
func plain(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}
