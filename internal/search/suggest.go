package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest filters candidates with a subsequence match against input, best
// first. An empty input returns the candidates unchanged. limit <= 0 means
// no limit.
func Suggest(input string, candidates []string, limit int) []string {
	input = strings.TrimSpace(input)
	var out []string
	if input == "" {
		out = append([]string{}, candidates...)
	} else {
		matches := fuzzy.Find(input, candidates)
		out = make([]string, 0, len(matches))
		for _, m := range matches {
			out = append(out, m.Str)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
