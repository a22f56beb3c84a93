package session

import (
	"sync"
	"time"

	"bookshelf/internal/catalog"
	"bookshelf/internal/filter"
	"bookshelf/internal/metrics"
	"bookshelf/internal/pager"
	"bookshelf/internal/theme"
)

// Detail is what the preview modal shows for one book.
type Detail struct {
	Book     catalog.Book
	Author   string
	Subtitle string
	Genres   []string
}

// View is a read-only snapshot of a session for rendering.
type View struct {
	Criteria  filter.Criteria
	Theme     theme.Theme
	Match     pager.MatchState
	Visible   []catalog.Book
	LastPage  []catalog.Book
	HasMore   bool
	Remaining int
	State     pager.State
}

// Session is one browsing session: the current match set, its cursor and
// the chosen theme. Commands run one at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	cat      *catalog.Catalog
	cursor   *pager.Cursor
	criteria filter.Criteria
	theme    theme.Theme
	lastSeen time.Time
}

// New starts a session showing the full dataset from its first page.
func New(id string, cat *catalog.Catalog, t theme.Theme) *Session {
	return &Session{
		ID:       id,
		cat:      cat,
		cursor:   pager.New(cat.Books(), cat.BooksPerPage()),
		criteria: filter.Criteria{}.Normalize(),
		theme:    t,
		lastSeen: time.Now(),
	}
}

// SubmitFilter recomputes the match set and rewinds to the first page.
func (s *Session) SubmitFilter(c filter.Criteria) pager.MatchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria = c
	matches := filter.FilterCatalog(s.cat, s.criteria)
	s.cursor.Submit(matches)
	metrics.FilterMatches.Observe(float64(len(matches)))
	return s.cursor.MatchState()
}

// RequestMore reveals the next page. It reports false when nothing was left.
func (s *Session) RequestMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cursor.Advance() {
		return false
	}
	metrics.PagesRevealed.Inc()
	return true
}

// SelectPreview looks up a book for the detail modal. A miss wraps
// catalog.ErrNotFound and means there is nothing to display.
func (s *Session) SelectPreview(id string) (Detail, error) {
	b, err := s.cat.Book(id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		Book:     b,
		Author:   s.cat.AuthorName(b.AuthorID),
		Subtitle: s.cat.Subtitle(b),
		Genres:   s.cat.GenreNames(b),
	}, nil
}

func (s *Session) SetTheme(t theme.Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}

func (s *Session) Theme() theme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func (s *Session) Catalog() *catalog.Catalog { return s.cat }

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Criteria:  s.criteria,
		Theme:     s.theme,
		Match:     s.cursor.MatchState(),
		Visible:   s.cursor.Visible(),
		LastPage:  s.cursor.LastPage(),
		HasMore:   s.cursor.HasMore(),
		Remaining: s.cursor.Remaining(),
		State:     s.cursor.State(),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
