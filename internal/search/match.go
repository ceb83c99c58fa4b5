package search

import "math"

// epsilon stands in for an exact match so it still contributes a weight.
const epsilon = 2.220446049250313e-16

// approxScore returns the lowest edit distance between pattern and any
// substring of text, divided by the pattern length. 0 is an exact hit and
// the position of the hit does not matter.
func approxScore(pattern, text []rune) float64 {
	m := len(pattern)
	if m == 0 {
		return 0
	}
	n := len(text)
	if n == 0 {
		return 1
	}
	// prev[i] holds the distance of pattern[:i] against a substring ending
	// at the previous text position; a match may start anywhere.
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := 0; i <= m; i++ {
		prev[i] = i
	}
	best := prev[m]
	for j := 1; j <= n; j++ {
		cur[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			cur[i] = min3(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		if cur[m] < best {
			best = cur[m]
			if best == 0 {
				return 0
			}
		}
		prev, cur = cur, prev
	}
	return float64(best) / float64(m)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
