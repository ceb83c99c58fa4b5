// Package search ranks lessons against free-text queries and keeps a short
// history of queries that found something.
package search

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips diacritics so "Crédito" and "credito" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// fieldNorm damps long fields: 1/sqrt(token count), rounded to 3 places.
func fieldNorm(s string) float64 {
	tokens := len(strings.Fields(s))
	if tokens == 0 {
		return 1
	}
	return roundTo(1/math.Sqrt(float64(tokens)), 3)
}
