package lessons

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/finlearn/internal/model"
)

var levelNames = map[int]string{
	1: "The First 30 Days (Survival)",
	2: "Building Your Foundation",
	3: "Government Benefits & Tax",
	4: "Protection & Long-Term Growth",
	5: "Estate Planning & Segregated Funds",
}

const fallbackLevelName = "Continuing Your Journey"

// Status is a lesson's state on the learning path.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusActive    Status = "active"
)

// PathLesson is a lesson placed on the path.
type PathLesson struct {
	Lesson    model.Lesson
	Status    Status
	BestScore int
	HasScore  bool
}

// Level groups the lessons of one curriculum level.
type Level struct {
	Number    int
	Title     string
	Lessons   []PathLesson
	Completed int
	Open      bool
}

// Total returns the number of lessons in the level.
func (l Level) Total() int {
	return len(l.Lessons)
}

// Complete reports whether every lesson in a non-empty level is done.
func (l Level) Complete() bool {
	return l.Total() > 0 && l.Completed == l.Total()
}

// LevelTitle returns the display title for a level number.
func LevelTitle(level int) string {
	name, ok := levelNames[level]
	if !ok {
		name = fallbackLevelName
	}
	return fmt.Sprintf("Level %d: %s", level, name)
}

// BuildPath groups lessons by level in ascending order, keeping collection
// order inside a level. The first level starts open, as does any level that
// is partly done.
func BuildPath(lessons []model.Lesson, state model.ProgressState) []Level {
	groups := map[int][]model.Lesson{}
	var numbers []int
	for _, l := range lessons {
		n := l.EffectiveLevel()
		if _, ok := groups[n]; !ok {
			numbers = append(numbers, n)
		}
		groups[n] = append(groups[n], l)
	}
	sort.Ints(numbers)

	levels := make([]Level, 0, len(numbers))
	for i, n := range numbers {
		level := Level{Number: n, Title: LevelTitle(n)}
		for _, l := range groups[n] {
			pl := PathLesson{Lesson: l, Status: StatusActive}
			if state.IsCompleted(l.ID) {
				pl.Status = StatusCompleted
				level.Completed++
			}
			pl.BestScore, pl.HasScore = state.QuizScores[l.ID]
			level.Lessons = append(level.Lessons, pl)
		}
		partial := level.Completed > 0 && level.Completed < level.Total()
		level.Open = i == 0 || partial
		levels = append(levels, level)
	}
	return levels
}
