package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
)

func lesson(id, title, description string, content ...string) model.Lesson {
	l := model.Lesson{
		ID:          id,
		Title:       model.Text(title),
		Description: model.Text(description),
		XPReward:    50,
	}
	for _, c := range content {
		l.Content = append(l.Content, model.ContentBlock{Title: model.Text("Part"), Text: model.Text(c)})
	}
	return l
}

func ids(lessons []model.Lesson) []string {
	out := make([]string, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, l.ID)
	}
	return out
}

func testLessons() []model.Lesson {
	return []model.Lesson{
		lesson("banking-basics", "Banking Basics", "Choose your first bank and account.",
			"Chequing accounts are for daily spending.", "Savings accounts earn interest."),
		lesson("building-credit", "Building Your Credit Score", "The foundation of your financial life.",
			"Pay your card in full every month."),
		lesson("tax-filing", "Tax Filing 101", "Why everyone should file their taxes.",
			"Filing unlocks benefits and refunds."),
		lesson("scams", "Spotting Scams", "Protect yourself from fraud.",
			"Never share a one-time code; a real bank and real credit agencies will not ask for it."),
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := NewIndex(testLessons(), locale.English)
	assert.Empty(t, idx.Search(""))
	assert.Empty(t, idx.Search("   \t"))
}

func TestSearchToleratesTypo(t *testing.T) {
	idx := NewIndex(testLessons(), locale.English)
	results := idx.Search("bankng")
	require.NotEmpty(t, results)
	assert.Equal(t, "banking-basics", results[0].ID)
}

func TestSearchIsLocationIndependent(t *testing.T) {
	idx := NewIndex(testLessons(), locale.English)
	assert.Contains(t, ids(idx.Search("interest")), "banking-basics")
	assert.Contains(t, ids(idx.Search("refunds")), "tax-filing")
}

func TestSearchRanksTitleAboveContent(t *testing.T) {
	idx := NewIndex(testLessons(), locale.English)
	results := idx.Search("credit")
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, "building-credit", results[0].ID)
	assert.Contains(t, ids(results), "scams")
}

func TestSearchKeepsCollectionOrderForTies(t *testing.T) {
	lessons := []model.Lesson{
		lesson("second", "Budget Basics", "Plan money."),
		lesson("first", "Budget Basics", "Plan money."),
	}
	idx := NewIndex(lessons, locale.English)
	assert.Equal(t, []string{"second", "first"}, ids(idx.Search("budget")))
}

func TestSearchThreshold(t *testing.T) {
	strict := NewIndex(testLessons(), locale.English, WithThreshold(0))
	assert.Empty(t, strict.Search("bankng"))
	assert.NotEmpty(t, strict.Search("banking"))

	loose := NewIndex(testLessons(), locale.English, WithThreshold(0.6))
	assert.GreaterOrEqual(t, len(loose.Search("bnkig")), 1)
}

func TestSearchFoldsCaseAndDiacritics(t *testing.T) {
	lessons := []model.Lesson{{
		ID:          "credito",
		Title:       model.Translations(map[string]string{"en": "Credit", "es": "Crédito Básico"}),
		Description: model.Text(""),
	}}
	es := NewIndex(lessons, locale.Spanish)
	assert.Equal(t, []string{"credito"}, ids(es.Search("CREDITO basico")))

	en := NewIndex(lessons, locale.English)
	assert.Empty(t, en.Search("basico"))
}

func TestSearchShortTaxQueries(t *testing.T) {
	idx := NewIndex(testLessons(), locale.English)
	assert.NotEmpty(t, idx.Search("tax"))
	assert.NotEmpty(t, idx.Search("taxx"))
}

func TestRankScoresAreOrdered(t *testing.T) {
	idx := NewIndex(testLessons(), locale.English)
	results := idx.Rank("account")
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestApproxScore(t *testing.T) {
	cases := []struct {
		pattern, text string
		want          float64
	}{
		{"bank", "banking basics", 0},
		{"bankng", "banking basics", 1.0 / 6},
		{"xyz", "abc", 1},
		{"abc", "", 1},
		{"", "abc", 0},
		{"taxx", "tax filing", 0.25},
	}
	for _, tc := range cases {
		got := approxScore([]rune(tc.pattern), []rune(tc.text))
		assert.InDelta(t, tc.want, got, 1e-9, "approxScore(%q, %q)", tc.pattern, tc.text)
	}
}

func TestFieldNorm(t *testing.T) {
	assert.Equal(t, 1.0, fieldNorm("word"))
	assert.Equal(t, 0.5, fieldNorm("one two three four"))
	assert.Equal(t, 1.0, fieldNorm(""))
}
