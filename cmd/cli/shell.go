package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
	"bookshelf/internal/search"
	"bookshelf/internal/session"
	"bookshelf/internal/terminal"
	"bookshelf/internal/theme"
)

const helpText = `Commands:
  search <query>     filter the catalog, e.g. search title:dune genre:g1
  search             clear all filters
  more               show the next page
  show <id>          show one book
  theme day|night    switch the color theme
  genres | authors   list filter values
  help               this text
  exit | quit        leave the shell`

var commands = []string{"search", "more", "show", "theme", "genres", "authors", "help", "exit", "quit"}

// shell runs REPL commands against one session.
type shell struct {
	out   io.Writer
	sess  *session.Session
	opts  search.Options
	print *terminal.Printer
	debug bool
}

func newShell(out io.Writer, cat *catalog.Catalog, t theme.Theme, debug bool) *shell {
	return &shell{
		out:   out,
		sess:  session.New("cli", cat, t),
		opts:  search.New(cat).Options(),
		print: terminal.New(out, cat),
		debug: debug,
	}
}

// exec runs one input line. It returns false when the shell should exit.
func (s *shell) exec(line string) bool {
	start := time.Now()
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return true
	case "exit", "quit":
		return false
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "search":
		c, err := filter.Parse(arg)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return true
		}
		s.sess.SubmitFilter(c)
		v := s.sess.View()
		s.print.Page(v.Visible, v)
	case "more":
		if !s.sess.RequestMore() {
			fmt.Fprintln(s.out, "Nothing more to show.")
			return true
		}
		v := s.sess.View()
		s.print.Page(v.LastPage, v)
	case "show":
		d, err := s.sess.SelectPreview(arg)
		if errors.Is(err, catalog.ErrNotFound) {
			fmt.Fprintf(s.out, "No book with id %q.\n", arg)
			return true
		}
		s.print.Detail(d)
	case "theme":
		if arg == "" {
			fmt.Fprintf(s.out, "Theme: %s\n", s.sess.Theme())
			return true
		}
		s.sess.SetTheme(theme.Parse(arg))
		fmt.Fprintf(s.out, "Theme: %s\n", s.sess.Theme())
	case "genres":
		s.print.Options("Genres", s.opts.Genres)
	case "authors":
		s.print.Options("Authors", s.opts.Authors)
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help'.\n", cmd)
	}

	if s.debug {
		fmt.Fprintf(s.out, "\n[criteria: %s] [took: %v]\n", s.sess.Criteria(), time.Since(start))
	}
	return true
}

// complete suggests command names and, after show, book ids.
func (s *shell) complete(line string) []string {
	var out []string
	if rest, ok := strings.CutPrefix(line, "show "); ok {
		for _, b := range s.sess.View().Visible {
			if strings.HasPrefix(b.ID, rest) {
				out = append(out, "show "+b.ID)
			}
		}
		return out
	}
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
