package webutil

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/tidwall/gjson"
)

// ErrInvalidCookies is returned when cookie JSON is not an array of objects.
var ErrInvalidCookies = errors.New("webutil: invalid cookies json")

// CookiesToMap maps cookie names to values. Later duplicates win.
func CookiesToMap(cookies []*http.Cookie) map[string]string {
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		if c != nil {
			out[c.Name] = c.Value
		}
	}
	return out
}

// ParseCookiesJSON reads a browser cookie export: an array of objects with
// "name" and "value" fields. Other fields are ignored.
func ParseCookiesJSON(data []byte) (map[string]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidCookies
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidCookies)
	}

	out := make(map[string]string)
	var err error
	root.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("name")
		if !name.Exists() || name.String() == "" {
			err = fmt.Errorf("%w: cookie without name: %s", ErrInvalidCookies, item.Raw)
			return false
		}
		out[name.String()] = item.Get("value").String()
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCookiesJSON reads a cookie export from path.
func LoadCookiesJSON(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCookiesJSON(data)
}
