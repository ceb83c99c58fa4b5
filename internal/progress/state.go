// Package progress owns the learner's XP, completion, best-score and streak rules.
package progress

import (
	"math"

	"cloud.google.com/go/civil"

	"github.com/verte-zerg/finlearn/internal/model"
)

const (
	minScore = 0
	maxScore = 100
)

// Initial returns the fixed starting state for a learner whose first visit is today.
func Initial(today civil.Date) model.ProgressState {
	return model.ProgressState{
		XP:               0,
		CompletedLessons: []string{},
		QuizScores:       map[string]int{},
		Streak:           1,
		LastLogin:        today.String(),
	}
}

// Reset discards all progress. It is the only transition that lowers XP or
// clears completions.
func Reset(today civil.Date) model.ProgressState {
	return Initial(today)
}

// ReconcileStreak counts today's visit. A visit on the day after lastLogin
// extends the streak, a repeat visit on the same day changes nothing, and
// anything else (a gap, a future date, an unreadable date) restarts it at 1.
func ReconcileStreak(state model.ProgressState, today civil.Date) model.ProgressState {
	next := state.Clone()
	last, err := civil.ParseDate(state.LastLogin)
	switch {
	case err == nil && last == today:
		if next.Streak < 1 {
			next.Streak = 1
		}
		return next
	case err == nil && last.AddDays(1) == today:
		next.Streak = state.Streak + 1
	default:
		next.Streak = 1
	}
	if next.Streak < 1 {
		next.Streak = 1
	}
	next.LastLogin = today.String()
	return next
}

// CompleteLesson records a finished lesson. XP is granted only the first time
// a lesson id is completed; the stored quiz score only ever improves.
func CompleteLesson(state model.ProgressState, lessonID string, scorePercent, xpReward int) model.ProgressState {
	next := state.Clone()
	first := !state.IsCompleted(lessonID)
	if first {
		if xpReward > 0 {
			next.XP += xpReward
		}
		next.CompletedLessons = append(next.CompletedLessons, lessonID)
	}
	score := ClampScore(scorePercent)
	if current, ok := next.QuizScores[lessonID]; !ok || score > current {
		next.QuizScores[lessonID] = score
	}
	return next
}

// ScorePercent converts a quiz result into a percentage. Content-only
// lessons (no questions) score 100.
func ScorePercent(correct, total int) int {
	if total <= 0 {
		return maxScore
	}
	return ClampScore(int(math.Round(float64(correct) / float64(total) * 100)))
}

// ClampScore bounds a score to [0, 100].
func ClampScore(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// Normalize repairs a restored state so the invariants hold: no duplicate
// completions, scores only for completed lessons and within range, XP not
// negative and a streak of at least 1.
func Normalize(state model.ProgressState, today civil.Date) model.ProgressState {
	out := model.ProgressState{
		XP:               state.XP,
		CompletedLessons: make([]string, 0, len(state.CompletedLessons)),
		QuizScores:       map[string]int{},
		Streak:           state.Streak,
		LastLogin:        state.LastLogin,
	}
	if out.XP < 0 {
		out.XP = 0
	}
	if out.Streak < 1 {
		out.Streak = 1
	}
	if out.LastLogin == "" {
		out.LastLogin = today.String()
	}
	seen := make(map[string]struct{}, len(state.CompletedLessons))
	for _, id := range state.CompletedLessons {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out.CompletedLessons = append(out.CompletedLessons, id)
	}
	for id, score := range state.QuizScores {
		if _, ok := seen[id]; !ok {
			continue
		}
		out.QuizScores[id] = ClampScore(score)
	}
	return out
}
