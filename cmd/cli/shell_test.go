package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf/internal/catalog"
	"bookshelf/internal/terminal"
	"bookshelf/internal/theme"
)

func newTestShell() (*shell, *bytes.Buffer) {
	cat := catalog.New([]catalog.Book{
		{ID: "b1", Title: "Dune", AuthorID: "a1", GenreIDs: []string{"g1"}},
		{ID: "b2", Title: "Dune Messiah", AuthorID: "a1", GenreIDs: []string{"g1"}},
		{ID: "b3", Title: "Emma", AuthorID: "a2", GenreIDs: []string{"g2"}},
	},
		[]catalog.Author{{ID: "a1", Name: "Frank Herbert"}, {ID: "a2", Name: "Jane Austen"}},
		[]catalog.Genre{{ID: "g1", Name: "SF"}, {ID: "g2", Name: "Romance"}},
		2)
	var buf bytes.Buffer
	return newShell(&buf, cat, theme.Day, false), &buf
}

func TestShellSearchAndMore(t *testing.T) {
	sh, out := newTestShell()

	assert.True(t, sh.exec("search"))
	assert.Contains(t, out.String(), "Showing 2 of 3")
	assert.NotContains(t, out.String(), "Emma")

	out.Reset()
	assert.True(t, sh.exec("more"))
	assert.Contains(t, out.String(), "Emma")
	assert.NotContains(t, out.String(), "Dune")
	assert.Contains(t, out.String(), "Showing 3 of 3.")

	out.Reset()
	sh.exec("more")
	assert.Equal(t, "Nothing more to show.\n", out.String())
}

func TestShellEmptyResult(t *testing.T) {
	sh, out := newTestShell()
	sh.exec("search author:a2 genre:g1")
	assert.Contains(t, out.String(), terminal.EmptyMessage)

	out.Reset()
	sh.exec("search dune OR emma")
	assert.Contains(t, out.String(), "unsupported operator")
}

func TestShellShowThemeAndExit(t *testing.T) {
	sh, out := newTestShell()

	sh.exec("show b3")
	assert.Contains(t, out.String(), "Jane Austen")

	out.Reset()
	sh.exec("show nope")
	assert.Contains(t, out.String(), `No book with id "nope"`)

	out.Reset()
	sh.exec("theme night")
	assert.Equal(t, "Theme: night\n", out.String())

	out.Reset()
	sh.exec("authors")
	assert.Contains(t, out.String(), "All Authors")

	assert.False(t, sh.exec("exit"))
	assert.False(t, sh.exec("QUIT"))
}

func TestShellComplete(t *testing.T) {
	sh, _ := newTestShell()
	assert.Equal(t, []string{"search", "show"}, sh.complete("s"))
	assert.Equal(t, []string{"show b1", "show b2"}, sh.complete("show b"))
}
