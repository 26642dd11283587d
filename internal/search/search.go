// Package search filters quotes by a free-text query. Matching is a plain
// substring test over normalized text, so masked values ("(11) 98765-4321",
// "ABC-1D23") match unformatted queries and vice versa.
package search

import (
	"strings"
	"unicode"

	"github.com/diewo77/workshop-quotes/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, strips diacritics and drops everything that is not
// an ASCII letter or digit.
func Normalize(s string) string {
	// transform.Chain keeps state, so a fresh one per call keeps Normalize safe for concurrent use.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fields returns the searchable values of q.
func Fields(q *models.Quote) []string {
	c := q.Client.Data()
	items := q.Items.Data()
	out := make([]string, 0, 5+len(items))
	out = append(out, q.Number, c.Name, c.Phone, c.Vehicle, c.Plate)
	for _, it := range items {
		out = append(out, it.Description)
	}
	return out
}

// Match reports whether the normalized query occurs in any field of q.
// An empty query (after normalization) matches everything.
func Match(q *models.Quote, query string) bool {
	needle := Normalize(query)
	if needle == "" {
		return true
	}
	return matchNormalized(q, needle)
}

func matchNormalized(q *models.Quote, needle string) bool {
	for _, f := range Fields(q) {
		if strings.Contains(Normalize(f), needle) {
			return true
		}
	}
	return false
}

// Filter keeps the quotes matching query, preserving order.
func Filter(quotes []models.Quote, query string) []models.Quote {
	needle := Normalize(query)
	if needle == "" {
		return quotes
	}
	out := make([]models.Quote, 0, len(quotes))
	for i := range quotes {
		if matchNormalized(&quotes[i], needle) {
			out = append(out, quotes[i])
		}
	}
	return out
}
