package webutil_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/parsekit/pkg/webutil"
)

func TestCookiesToMap(t *testing.T) {
	t.Parallel()

	got := webutil.CookiesToMap([]*http.Cookie{
		{Name: "session", Value: "abc"},
		nil,
		{Name: "lang", Value: "en"},
		{Name: "session", Value: "def"},
	})
	assert.Equal(t, map[string]string{"session": "def", "lang": "en"}, got)
}

func TestParseCookiesJSON(t *testing.T) {
	t.Parallel()

	t.Run("browser export", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[
			{"domain": ".example.com", "name": "sid", "value": "42", "httpOnly": true},
			{"name": "theme", "value": "dark"},
			{"name": "empty"}
		]`)
		got, err := webutil.ParseCookiesJSON(data)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"sid": "42", "theme": "dark", "empty": ""}, got)
	})

	t.Run("not an array", func(t *testing.T) {
		t.Parallel()

		_, err := webutil.ParseCookiesJSON([]byte(`{"name": "sid"}`))
		assert.ErrorIs(t, err, webutil.ErrInvalidCookies)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		_, err := webutil.ParseCookiesJSON([]byte(`[{"name": `))
		assert.ErrorIs(t, err, webutil.ErrInvalidCookies)
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		_, err := webutil.ParseCookiesJSON([]byte(`[{"value": "x"}]`))
		assert.ErrorIs(t, err, webutil.ErrInvalidCookies)
	})
}

func TestLoadCookiesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"a","value":"1"}]`), 0o600))

	got, err := webutil.LoadCookiesJSON(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, got)

	_, err = webutil.LoadCookiesJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	got, err := webutil.BuildURL("https://example.com/search?q=cats&page=1", map[string]string{
		"page": "2",
		"sort": "new",
	})
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/search", u.Path)
	assert.Equal(t, url.Values{"q": {"cats"}, "page": {"2"}, "sort": {"new"}}, u.Query())

	_, err = webutil.BuildURL("://bad", nil)
	assert.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	t.Parallel()

	got, err := webutil.BaseURL("https://sub.example.com:8443/a/b?c=d")
	require.NoError(t, err)
	assert.Equal(t, "https://sub.example.com:8443/", got)

	_, err = webutil.BaseURL("/relative/path")
	assert.Error(t, err)
}

func TestFindURLs(t *testing.T) {
	t.Parallel()

	text := "see https://www.example.com/a/b?x=1 and http://test.org, or plain docs.go.dev/pkg"

	t.Run("with protocol", func(t *testing.T) {
		t.Parallel()

		got := webutil.FindURLs(text, true)
		require.Len(t, got, 2)
		assert.Equal(t, webutil.URLMatch{Protocol: "https", WWW: "www.", Host: "example.com", Path: "/a/b?x=1"}, got[0])
		assert.Equal(t, "http://test.org", got[1].String())
	})

	t.Run("without protocol", func(t *testing.T) {
		t.Parallel()

		got := webutil.FindURLs(text, false)
		hosts := make([]string, 0, len(got))
		for _, m := range got {
			hosts = append(hosts, m.Host)
		}
		assert.Contains(t, hosts, "docs.go.dev")
	})
}

func TestMatchURL(t *testing.T) {
	t.Parallel()

	m, ok := webutil.MatchURL("https://example.com/x trailing", true)
	require.True(t, ok)
	assert.Equal(t, "example.com", m.Host)
	assert.Equal(t, "/x", m.Path)

	_, ok = webutil.MatchURL("prefix https://example.com", true)
	assert.False(t, ok)

	_, ok = webutil.MatchURL("example.com/x", true)
	assert.False(t, ok)

	m, ok = webutil.MatchURL("example.com/x", false)
	require.True(t, ok)
	assert.Equal(t, "example.com", m.Host)
}

func TestJSONFiles(t *testing.T) {
	t.Parallel()

	type item struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}

	path := filepath.Join(t.TempDir(), "nested", "dir", "items.json")
	in := []item{{Title: "Кошки <3", URL: "https://example.com/?a=1&b=2"}}
	require.NoError(t, webutil.SaveJSON(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Кошки <3")
	assert.Contains(t, string(raw), "&b=2")
	assert.Contains(t, string(raw), "\n    {")

	var out []item
	found, err := webutil.LoadJSON(path, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	found, err = webutil.LoadJSON(filepath.Join(t.TempDir(), "none.json"), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`a/b\c:d"e*f?g«h<i>j|k`: "abcdefghijk",
		"plain.jpg":             "plain.jpg",
		"tab\tname":             "tabname",
		"e\u0301te.png":         "\u00e9te.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, webutil.SanitizeFilename(in), in)
	}
}

func TestUniqueTrimmed(t *testing.T) {
	t.Parallel()

	got := webutil.UniqueTrimmed([]string{" a ", "b", "a", "c ", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Empty(t, webutil.UniqueTrimmed(nil))
}
