package search

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
)

// Field weights before normalization. Title hits matter most.
const (
	TitleWeight       = 0.7
	DescriptionWeight = 0.5
	ContentWeight     = 0.3
)

// DefaultThreshold is the highest per-field score still counted as a match.
// 0 accepts only exact substrings; 1 accepts anything.
const DefaultThreshold = 0.3

// Result is a ranked lesson. Lower scores are better.
type Result struct {
	Lesson model.Lesson
	Score  float64
}

type fieldValue struct {
	text []rune
	norm float64
}

type field struct {
	weight float64
	values []fieldValue
}

type entry struct {
	lesson model.Lesson
	fields []field
}

// Index is an immutable search structure built for one lesson collection and
// one locale. Build a new Index when either changes.
type Index struct {
	entries   []entry
	threshold float64
	locale    locale.Locale
}

// Option configures an Index.
type Option func(*Index)

// WithThreshold sets the match threshold. Values outside [0,1] are clamped.
func WithThreshold(threshold float64) Option {
	return func(idx *Index) {
		idx.threshold = math.Max(0, math.Min(1, threshold))
	}
}

// NewIndex builds an index over lessons with text resolved for loc.
func NewIndex(lessons []model.Lesson, loc locale.Locale, opts ...Option) *Index {
	idx := &Index{threshold: DefaultThreshold, locale: loc}
	for _, opt := range opts {
		opt(idx)
	}
	total := TitleWeight + DescriptionWeight + ContentWeight
	idx.entries = make([]entry, 0, len(lessons))
	for _, lesson := range lessons {
		contents := make([]string, 0, len(lesson.Content))
		for _, block := range lesson.Content {
			contents = append(contents, block.Text.Resolve(loc))
		}
		idx.entries = append(idx.entries, entry{
			lesson: lesson,
			fields: []field{
				newField(TitleWeight/total, lesson.Title.Resolve(loc)),
				newField(DescriptionWeight/total, lesson.Description.Resolve(loc)),
				newField(ContentWeight/total, contents...),
			},
		})
	}
	return idx
}

func newField(weight float64, values ...string) field {
	f := field{weight: weight}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		f.values = append(f.values, fieldValue{text: []rune(fold(v)), norm: fieldNorm(v)})
	}
	return f
}

// Len returns the number of indexed lessons.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Locale returns the locale the index was built for.
func (idx *Index) Locale() locale.Locale {
	return idx.locale
}

// Search returns matching lessons, best first. Empty queries return nothing.
func (idx *Index) Search(query string) []model.Lesson {
	results := idx.Rank(query)
	lessons := make([]model.Lesson, 0, len(results))
	for _, r := range results {
		lessons = append(lessons, r.Lesson)
	}
	return lessons
}

// Rank is Search with scores. Equal scores keep collection order.
func (idx *Index) Rank(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" || idx == nil {
		return []Result{}
	}
	pattern := []rune(fold(query))
	results := make([]Result, 0)
	for _, e := range idx.entries {
		score, ok := idx.score(pattern, e)
		if !ok {
			continue
		}
		results = append(results, Result{Lesson: e.lesson, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})
	return results
}

// score multiplies the contribution of every matching field value. Each
// contribution is in (0,1], so more and better matches lower the total.
func (idx *Index) score(pattern []rune, e entry) (float64, bool) {
	total := 1.0
	matched := false
	for _, f := range e.fields {
		for _, v := range f.values {
			s := approxScore(pattern, v.text)
			if s > idx.threshold {
				continue
			}
			matched = true
			if s == 0 {
				s = epsilon
			}
			total *= math.Pow(s, f.weight*v.norm)
		}
	}
	return total, matched
}
