package webutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// BuildURL merges params into the query of rawURL, replacing existing keys.
func BuildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// BaseURL returns scheme://host/ of rawURL.
func BaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("webutil: not an absolute url: %q", rawURL)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

const (
	hostPattern = `(?P<host>[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6})\b`
	pathPattern = `(?P<path>[-a-zA-Z0-9()@:%_\+.~#?&/=]*)`
)

var (
	urlRe     = regexp.MustCompile(hostPattern + pathPattern)
	urlHTTPRe = regexp.MustCompile(`(?P<protocol>https?)://(?P<www>www\.)?` + hostPattern + pathPattern)
)

// URLMatch is one URL found in text.
type URLMatch struct {
	Protocol string
	WWW      string
	Host     string
	Path     string
}

func (m URLMatch) String() string {
	var b strings.Builder
	if m.Protocol != "" {
		b.WriteString(m.Protocol + "://")
	}
	b.WriteString(m.WWW + m.Host + m.Path)
	return b.String()
}

func pattern(withProtocol bool) *regexp.Regexp {
	if withProtocol {
		return urlHTTPRe
	}
	return urlRe
}

func toMatch(re *regexp.Regexp, sub []string) URLMatch {
	var m URLMatch
	for i, name := range re.SubexpNames() {
		switch name {
		case "protocol":
			m.Protocol = sub[i]
		case "www":
			m.WWW = sub[i]
		case "host":
			m.Host = sub[i]
		case "path":
			m.Path = sub[i]
		}
	}
	return m
}

// FindURLs returns every URL in text. withProtocol requires an http or https scheme.
func FindURLs(text string, withProtocol bool) []URLMatch {
	re := pattern(withProtocol)
	all := re.FindAllStringSubmatch(text, -1)
	out := make([]URLMatch, 0, len(all))
	for _, sub := range all {
		out = append(out, toMatch(re, sub))
	}
	return out
}

// MatchURL reports whether s starts with a URL and returns it.
func MatchURL(s string, withProtocol bool) (URLMatch, bool) {
	re := pattern(withProtocol)
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil || loc[0] != 0 {
		return URLMatch{}, false
	}
	sub := make([]string, len(loc)/2)
	for i := range sub {
		if loc[2*i] >= 0 {
			sub[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return toMatch(re, sub), true
}
