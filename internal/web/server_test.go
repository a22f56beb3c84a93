package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/catalog"
	"bookshelf/internal/search"
	"bookshelf/internal/session"
)

func testCatalog() *catalog.Catalog {
	books := make([]catalog.Book, 0, 5)
	for i := 1; i <= 5; i++ {
		books = append(books, catalog.Book{
			ID:       fmt.Sprintf("b%d", i),
			Title:    fmt.Sprintf("Book %d", i),
			AuthorID: "a1",
			GenreIDs: []string{"g1"},
		})
	}
	books[4].Title = "Dune"
	books[4].AuthorID = "a2"
	books[4].GenreIDs = []string{"g2"}
	return catalog.New(books,
		[]catalog.Author{{ID: "a1", Name: "Anon"}, {ID: "a2", Name: "Frank Herbert"}},
		[]catalog.Genre{{ID: "g1", Name: "Misc"}, {ID: "g2", Name: "SF"}},
		2)
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cat := testCatalog()
	srv, err := New(log, session.NewStore(cat, 0), search.New(cat), Options{})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestIndexStartsSession(t *testing.T) {
	ts, client := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.Header.Set(ColorSchemeHint, `"dark"`)
	res, err := client.Do(req)
	require.NoError(t, err)
	html := body(t, res)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, html, "--color-dark: 255, 255, 255")
	assert.Equal(t, 2, strings.Count(html, "data-preview="))
	assert.Contains(t, html, "(3)")

	u, _ := url.Parse(ts.URL)
	require.Len(t, client.Jar.Cookies(u), 1)
	assert.Equal(t, SessionCookie, client.Jar.Cookies(u)[0].Name)
}

func TestSearchThenMore(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.PostForm(ts.URL+"/search", url.Values{"author": {"a1"}, "genre": {"any"}})
	require.NoError(t, err)
	html := body(t, res)
	assert.Equal(t, 2, strings.Count(html, "data-preview="))
	assert.Contains(t, html, "(2)")

	res, err = client.Post(ts.URL+"/more?fragment=1", "", nil)
	require.NoError(t, err)
	frag := body(t, res)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, frag, `data-preview="b3"`)
	assert.Contains(t, frag, `data-preview="b4"`)
	assert.NotContains(t, frag, `data-preview="b1"`)
	assert.Regexp(t, `data-list-button\s+disabled`, frag)

	res, err = client.Post(ts.URL+"/more?fragment=1", "", nil)
	require.NoError(t, err)
	body(t, res)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(body(t, res), "data-preview="))
}

func TestSearchEmptyShowsMessage(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.PostForm(ts.URL+"/search", url.Values{"author": {"a2"}, "genre": {"g1"}})
	require.NoError(t, err)
	html := body(t, res)
	assert.Contains(t, html, "list__message_show")
	assert.NotContains(t, html, "data-preview=")
}

func TestSearchRejectsOr(t *testing.T) {
	ts, client := newTestServer(t)
	res, err := client.PostForm(ts.URL+"/search", url.Values{"q": {"dune OR emma"}})
	require.NoError(t, err)
	body(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPreviewAndSettings(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.Get(ts.URL + "/books/b5")
	require.NoError(t, err)
	html := body(t, res)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, html, "data-list-active")
	assert.Contains(t, html, "Frank Herbert")

	res, err = client.Get(ts.URL + "/books/nope")
	require.NoError(t, err)
	html = body(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.NotContains(t, html, "data-list-active")

	res, err = client.PostForm(ts.URL+"/settings", url.Values{"theme": {"night"}})
	require.NoError(t, err)
	assert.Contains(t, body(t, res), "--color-dark: 255, 255, 255")

	res, err = client.PostForm(ts.URL+"/settings", url.Values{"theme": {"day"}})
	require.NoError(t, err)
	assert.Contains(t, body(t, res), "--color-dark: 10, 10, 20")
}

func TestAPIBooks(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.Get(ts.URL + "/api/books?genre=g2")
	require.NoError(t, err)
	var out search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &out))
	assert.Equal(t, 1, out.Total)
	require.Len(t, out.Books, 1)
	assert.Equal(t, "Dune", out.Books[0].Title)

	res, err = client.Get(ts.URL + "/api/books?q=" + url.QueryEscape("title:book author:a1") + "&from=2&size=10")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &out))
	assert.Equal(t, 4, out.Total)
	assert.Len(t, out.Books, 2)
	assert.False(t, out.HasMore)

	res, err = client.Get(ts.URL + "/api/books?from=9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	out = search.SearchResult{}
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &out))
	assert.Empty(t, out.Books)
	assert.Equal(t, 5, out.NextFrom)
}

func TestAPIBooksTitleIsNotTrimmed(t *testing.T) {
	ts, client := newTestServer(t)

	var out search.SearchResult
	res, err := client.Get(ts.URL + "/api/books?title=" + url.QueryEscape(" "))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &out))
	assert.Equal(t, 4, out.Total)

	out = search.SearchResult{}
	res, err = client.Get(ts.URL + "/api/books?title=" + url.QueryEscape("Dune "))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &out))
	assert.Equal(t, 0, out.Total)
}

func TestAPISearchValidation(t *testing.T) {
	ts, client := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"valid", `{"title":"dune","size":5}`, http.StatusOK, ""},
		{"query", `{"query":"author:a1"}`, http.StatusOK, ""},
		{"unknown field", `{"titel":"dune"}`, http.StatusBadRequest, "validation_failed"},
		{"negative from", `{"from":-1}`, http.StatusBadRequest, "validation_failed"},
		{"huge from", `{"from":9223372036854775807}`, http.StatusBadRequest, "validation_failed"},
		{"from at limit", `{"from":1000000}`, http.StatusOK, ""},
		{"not json", `{`, http.StatusBadRequest, "bad_request"},
		{"bad query", `{"query":"NOT dune"}`, http.StatusBadRequest, "bad_query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := client.Post(ts.URL+"/api/search", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			b := body(t, res)
			assert.Equal(t, tt.status, res.StatusCode, b)
			if tt.code == "" {
				return
			}
			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal([]byte(b), &env))
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestAPIBookAndOptions(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.Get(ts.URL + "/api/books/b5")
	require.NoError(t, err)
	var b search.BookDTO
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &b))
	assert.Equal(t, "Frank Herbert", b.Author)
	assert.Equal(t, []string{"SF"}, b.Genres)

	res, err = client.Get(ts.URL + "/api/books/missing")
	require.NoError(t, err)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &env))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not_found", env.Error.Code)

	res, err = client.Get(ts.URL + "/api/options")
	require.NoError(t, err)
	var opts search.Options
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &opts))
	assert.Len(t, opts.Genres, 3)
	assert.Equal(t, search.AllAuthors, opts.Authors[0].Label)
}

func TestHealthAndMetrics(t *testing.T) {
	ts, client := newTestServer(t)

	res, err := client.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Contains(t, body(t, res), `"books":5`)

	res, err = client.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	assert.Contains(t, body(t, res), "bookshelf_http_requests_total")
}
