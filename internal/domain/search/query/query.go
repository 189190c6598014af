// Package query validates free-text search input before it reaches the text
// index. The query string ends up inside a full-text expression, so the
// anchored charset check here is the injection defense; the index layer does
// no further escaping.
package query

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/listdex/internal/domain"
)

// Query length bounds: at least MinLength characters, strictly fewer than
// MaxLength. The lower bound follows the user-facing form rule.
const (
	MinLength = 3
	MaxLength = 80
)

// pattern requires an alphanumeric first character and restricts the rest to
// word characters, dots, dashes and spaces.
var pattern = regexp.MustCompile(`^[A-Za-z0-9][.\- \w]+$`)

// sqlKeywords catches injection probes that survive the charset check, e.g.
// "foo UNION SELECT id FROM categories".
var sqlKeywords = regexp.MustCompile(`(?i)\b(union|select|insert|delete|drop|truncate)\b`)

// Query is a validated search string.
type Query struct {
	text string
}

// New normalizes and validates raw search input. Rejections carry a
// human-readable reason and unwrap to domain.ErrInvalidQuery; New never
// fails for infrastructure reasons.
func New(raw string) (Query, error) {
	text := strings.TrimSpace(raw)

	n := utf8.RuneCountInString(text)
	if n < MinLength {
		return Query{}, domain.NewInvalidQuery(
			fmt.Sprintf("search must be at least %d characters", MinLength))
	}
	if n >= MaxLength {
		return Query{}, domain.NewInvalidQuery(
			fmt.Sprintf("search must be shorter than %d characters", MaxLength))
	}
	if !pattern.MatchString(text) {
		return Query{}, domain.NewInvalidQuery(
			"search must have only letters, numbers, dots, dashes or underscores")
	}
	if sqlKeywords.MatchString(text) {
		return Query{}, domain.NewInvalidQuery("search contains disallowed terms")
	}

	return Query{text: text}, nil
}

// String returns the normalized query text.
func (q Query) String() string { return q.text }

// IsZero reports whether the query is the zero value (never produced by New).
func (q Query) IsZero() bool { return q.text == "" }
