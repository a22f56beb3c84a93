package pager

import "bookshelf/internal/catalog"

// State is the cursor's position relative to its match set.
type State int

const (
	Empty State = iota
	Partial
	Exhausted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Partial:
		return "partial"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// MatchState is a snapshot of the current match set and how much of it is
// revealed. Empty is set only after a filter submission produced no books,
// so it never fires for the startup state.
type MatchState struct {
	Matches  []catalog.Book
	Page     int
	Filtered bool
	Empty    bool
}

// Cursor reveals a match set page by page. It is not safe for concurrent use.
type Cursor struct {
	matches  []catalog.Book
	page     int
	pageSize int
	filtered bool
}

// New returns a cursor over matches. A non-positive pageSize falls back to
// catalog.DefaultBooksPerPage.
func New(matches []catalog.Book, pageSize int) *Cursor {
	if pageSize <= 0 {
		pageSize = catalog.DefaultBooksPerPage
	}
	c := &Cursor{pageSize: pageSize}
	c.Reset(matches)
	return c
}

// Reset replaces the match set and rewinds to the first page.
func (c *Cursor) Reset(matches []catalog.Book) {
	if matches == nil {
		matches = []catalog.Book{}
	}
	c.matches = matches
	c.page = 1
}

// Submit is Reset for the result of a filter submission.
func (c *Cursor) Submit(matches []catalog.Book) {
	c.Reset(matches)
	c.filtered = true
}

// Advance reveals the next page. It reports false, changing nothing, when
// every match is already visible.
func (c *Cursor) Advance() bool {
	if !c.HasMore() {
		return false
	}
	c.page++
	return true
}

func (c *Cursor) HasMore() bool {
	return len(c.matches)-c.page*c.pageSize > 0
}

// Revealed is the number of currently visible books.
func (c *Cursor) Revealed() int {
	return min(c.page*c.pageSize, len(c.matches))
}

// Remaining is the number of matches not yet visible.
func (c *Cursor) Remaining() int {
	return len(c.matches) - c.Revealed()
}

// Visible returns the revealed prefix of the match set.
func (c *Cursor) Visible() []catalog.Book {
	return c.matches[:c.Revealed()]
}

// LastPage returns only the books revealed by the most recent Reset or
// Advance, for appending to an already rendered grid.
func (c *Cursor) LastPage() []catalog.Book {
	from := min((c.page-1)*c.pageSize, len(c.matches))
	return c.matches[from:c.Revealed()]
}

func (c *Cursor) Page() int     { return c.page }
func (c *Cursor) PageSize() int { return c.pageSize }
func (c *Cursor) Len() int      { return len(c.matches) }

func (c *Cursor) State() State {
	switch {
	case len(c.matches) == 0:
		return Empty
	case c.HasMore():
		return Partial
	default:
		return Exhausted
	}
}

func (c *Cursor) MatchState() MatchState {
	return MatchState{
		Matches:  c.matches,
		Page:     c.page,
		Filtered: c.filtered,
		Empty:    c.filtered && len(c.matches) == 0,
	}
}
