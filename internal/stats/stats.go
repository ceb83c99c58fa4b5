// Package stats contains progress summaries and text reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/finlearn/internal/lessons"
	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
)

const sparkChars = " .:-=+*#%@"

// LessonRow is one lesson in a summary.
type LessonRow struct {
	ID        string
	Title     string
	Level     int
	XPReward  int
	Status    lessons.Status
	BestScore int
	HasScore  bool
}

// Summary is the learner's progress against a lesson collection.
type Summary struct {
	XP           int
	Streak       int
	LastLogin    string
	Completed    int
	Total        int
	AverageScore float64
	Scored       int
	Rows         []LessonRow
}

// Summarize builds a summary with rows in collection order. Averages cover
// every stored best score, including lessons no longer in the collection.
func Summarize(state model.ProgressState, collection []model.Lesson, loc locale.Locale) Summary {
	s := Summary{
		XP:        state.XP,
		Streak:    state.Streak,
		LastLogin: state.LastLogin,
		Total:     len(collection),
	}
	for _, l := range collection {
		row := LessonRow{
			ID:       l.ID,
			Title:    l.Title.Resolve(loc),
			Level:    l.EffectiveLevel(),
			XPReward: l.XPReward,
			Status:   lessons.StatusActive,
		}
		if state.IsCompleted(l.ID) {
			row.Status = lessons.StatusCompleted
			s.Completed++
		}
		row.BestScore, row.HasScore = state.QuizScores[l.ID]
		s.Rows = append(s.Rows, row)
	}
	total := 0
	for _, score := range state.QuizScores {
		total += score
		s.Scored++
	}
	if s.Scored > 0 {
		s.AverageScore = float64(total) / float64(s.Scored)
	}
	return s
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the headline numbers.
func RenderSummary(w io.Writer, s Summary) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("XP: %d", s.XP),
		fmt.Sprintf("Streak: %d day(s)", s.Streak),
		fmt.Sprintf("Last visit: %s", s.LastLogin),
		fmt.Sprintf("Lessons: %d/%d completed", s.Completed, s.Total),
	}
	if s.Scored > 0 {
		lines = append(lines, fmt.Sprintf("Avg best score: %.1f%% over %d lesson(s)", s.AverageScore, s.Scored))
		var scores []float64
		for _, r := range s.Rows {
			if r.HasScore {
				scores = append(scores, float64(r.BestScore))
			}
		}
		if len(scores) > 1 {
			lines = append(lines, fmt.Sprintf("Scores: [%s]", Sparkline(scores)))
		}
	} else {
		lines = append(lines, "Avg best score: no quizzes taken yet")
	}
	if review := ReviewCandidates(s.Rows, DefaultReviewBelow, 3); len(review) > 0 {
		ids := make([]string, 0, len(review))
		for _, r := range review {
			ids = append(ids, fmt.Sprintf("%s (%d%%)", r.ID, r.BestScore))
		}
		lines = append(lines, "Worth reviewing: "+strings.Join(ids, ", "))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLessonTable prints one row per lesson.
func RenderLessonTable(w io.Writer, s Summary) error {
	if len(s.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No lessons found.")
		return err
	}
	headers := []string{"Lvl", "Lesson", "Status", "Best", "XP"}
	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		best := "-"
		if r.HasScore {
			best = fmt.Sprintf("%d%%", r.BestScore)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Level),
			r.Title,
			string(r.Status),
			best,
			fmt.Sprintf("%d", r.XPReward),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true}))
}

// RenderPath prints the learning path grouped by level.
func RenderPath(w io.Writer, levels []lessons.Level, loc locale.Locale) error {
	if len(levels) == 0 {
		_, err := fmt.Fprintln(w, "No lessons found.")
		return err
	}
	for _, level := range levels {
		header := fmt.Sprintf("%s  [%d/%d]", level.Title, level.Completed, level.Total())
		if level.Complete() {
			header += "  done"
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		rows := make([][]string, 0, len(level.Lessons))
		for _, pl := range level.Lessons {
			mark := "[ ]"
			if pl.Status == lessons.StatusCompleted {
				mark = "[x]"
			}
			rows = append(rows, []string{"  " + mark, pl.Lesson.Title.Resolve(loc), fmt.Sprintf("+%d XP", pl.Lesson.XPReward)})
		}
		if err := writeLines(w, formatTable(nil, rows, map[int]bool{2: true})); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
