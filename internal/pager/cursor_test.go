package pager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/catalog"
)

func books(n int) []catalog.Book {
	out := make([]catalog.Book, n)
	for i := range out {
		out[i] = catalog.Book{ID: fmt.Sprintf("b%d", i+1)}
	}
	return out
}

func ids(bs []catalog.Book) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestCursorFiveBooksPageTwo(t *testing.T) {
	c := New(books(5), 2)

	assert.Len(t, c.Visible(), 2)
	assert.True(t, c.HasMore())
	assert.Equal(t, Partial, c.State())

	require.True(t, c.Advance())
	assert.Len(t, c.Visible(), 4)
	assert.True(t, c.HasMore())
	assert.Equal(t, []string{"b3", "b4"}, ids(c.LastPage()))

	require.True(t, c.Advance())
	assert.Len(t, c.Visible(), 5)
	assert.False(t, c.HasMore())
	assert.Equal(t, Exhausted, c.State())
	assert.Equal(t, []string{"b5"}, ids(c.LastPage()))

	assert.False(t, c.Advance())
	assert.Len(t, c.Visible(), 5)
	assert.Equal(t, 3, c.Page())
	assert.Equal(t, 0, c.Remaining())
}

func TestCursorVisibleLengthAfterKAdvances(t *testing.T) {
	for n := 0; n <= 12; n++ {
		for size := 1; size <= 5; size++ {
			for k := 0; k <= 6; k++ {
				t.Run(fmt.Sprintf("n=%d/size=%d/k=%d", n, size, k), func(t *testing.T) {
					c := New(books(n), size)
					for i := 0; i < k; i++ {
						c.Advance()
					}
					want := min((k+1)*size, n)
					visible := c.Visible()
					assert.Len(t, visible, want)
					assert.Equal(t, ids(books(n))[:want], ids(visible))
					assert.Equal(t, len(visible) != n, c.HasMore())
				})
			}
		}
	}
}

func TestCursorResetRewinds(t *testing.T) {
	c := New(books(10), 3)
	c.Advance()
	c.Advance()
	require.Equal(t, 9, c.Revealed())

	c.Reset(books(4))
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(c.Visible()))
	assert.Equal(t, 1, c.Remaining())
}

func TestCursorStates(t *testing.T) {
	assert.Equal(t, Empty, New(nil, 3).State())
	assert.Equal(t, Exhausted, New(books(3), 3).State())
	assert.Equal(t, Partial, New(books(4), 3).State())
	assert.Equal(t, "exhausted", Exhausted.String())
}

func TestCursorEmptyAdvanceIsNoop(t *testing.T) {
	c := New(nil, 3)
	assert.False(t, c.Advance())
	assert.Empty(t, c.Visible())
	assert.Empty(t, c.LastPage())
	assert.NotNil(t, c.Visible())
}

func TestMatchStateEmptyFlag(t *testing.T) {
	c := New(nil, 3)
	ms := c.MatchState()
	assert.False(t, ms.Filtered)
	assert.False(t, ms.Empty, "startup state is not a filter result")

	c.Submit([]catalog.Book{})
	ms = c.MatchState()
	assert.True(t, ms.Filtered)
	assert.True(t, ms.Empty)

	c.Submit(books(2))
	assert.False(t, c.MatchState().Empty)
	assert.Equal(t, 1, c.MatchState().Page)
}

func TestNewDefaultsPageSize(t *testing.T) {
	c := New(books(40), 0)
	assert.Equal(t, catalog.DefaultBooksPerPage, c.PageSize())
	assert.Len(t, c.Visible(), catalog.DefaultBooksPerPage)
}
