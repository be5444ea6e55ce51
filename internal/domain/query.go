package domain

import (
	"net/url"
	"strings"
	"unicode"
)

// Query is the text or URL a caller asks the analyzer to look at.
type Query struct {
	text string
}

// NewQuery trims the raw input and returns a Query.
// Returns ErrEmptyQuery if nothing remains after trimming.
func NewQuery(raw string) (Query, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Query{}, ErrEmptyQuery
	}
	return Query{text: text}, nil
}

// String returns the trimmed query text.
func (q Query) String() string {
	return q.text
}

// IsZero reports whether the query was never initialized.
func (q Query) IsZero() bool {
	return q.text == ""
}

// IsURL reports whether the whole query is a single absolute http(s) URL.
func (q Query) IsURL() bool {
	if strings.IndexFunc(q.text, unicode.IsSpace) >= 0 {
		return false
	}
	u, err := url.Parse(q.text)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
