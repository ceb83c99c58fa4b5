package lessons

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/finlearn/internal/model"
)

// Problem is one validation failure.
type Problem struct {
	LessonID string
	Message  string
}

func (p Problem) String() string {
	id := p.LessonID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("%s: %s", id, p.Message)
}

// Validate checks a collection for problems that would break the path, the
// search index or the lesson viewer.
func Validate(lessons []model.Lesson) []Problem {
	var problems []Problem
	seen := make(map[string]int, len(lessons))
	for i, l := range lessons {
		add := func(format string, args ...any) {
			problems = append(problems, Problem{LessonID: l.ID, Message: fmt.Sprintf(format, args...)})
		}
		if strings.TrimSpace(l.ID) == "" {
			add("lesson #%d has no id", i+1)
		} else if first, ok := seen[l.ID]; ok {
			add("duplicate id (first seen as lesson #%d)", first+1)
		} else {
			seen[l.ID] = i
		}
		if l.Title.IsZero() {
			add("missing title")
		}
		if l.XPReward < 0 {
			add("negative xpReward %d", l.XPReward)
		}
		if len(l.Content) == 0 && len(l.Quiz) == 0 {
			add("no content or quiz")
		}
		for qi, q := range l.Quiz {
			if len(q.Options) < 2 {
				add("quiz question %d has %d options", qi+1, len(q.Options))
			}
			if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
				add("quiz question %d: correctAnswerIndex %d out of range", qi+1, q.CorrectAnswerIndex)
			}
		}
	}
	return problems
}
