// Package model defines shared data structures.
package model

// Config defines runtime settings after flags and the config file are merged.
type Config struct {
	Lang            string
	LessonsDir      string
	Offline         bool
	SearchThreshold float64
	DebounceMs      int
	Remote          RemoteConfig
}

// RemoteConfig describes the remote document store.
type RemoteConfig struct {
	Enabled         bool
	ProjectID       string
	CredentialsFile string
	TimeoutMs       int
}

// Lesson is a unit of content: ordered text segments followed by a quiz.
type Lesson struct {
	ID          string         `json:"id" yaml:"id"`
	Title       LocalizedText  `json:"title" yaml:"title"`
	Description LocalizedText  `json:"description" yaml:"description"`
	Level       int            `json:"level,omitempty" yaml:"level,omitempty"`
	XPReward    int            `json:"xpReward" yaml:"xpReward"`
	Content     []ContentBlock `json:"content" yaml:"content"`
	Quiz        []QuizQuestion `json:"quiz" yaml:"quiz"`
}

// ContentBlock is one reading segment of a lesson.
type ContentBlock struct {
	Title LocalizedText `json:"title" yaml:"title"`
	Text  LocalizedText `json:"text" yaml:"text"`
}

// QuizQuestion is a multiple-choice question.
type QuizQuestion struct {
	Question           LocalizedText   `json:"question" yaml:"question"`
	Options            []LocalizedText `json:"options" yaml:"options"`
	CorrectAnswerIndex int             `json:"correctAnswerIndex" yaml:"correctAnswerIndex"`
	Explanation        LocalizedText   `json:"explanation" yaml:"explanation"`
}

// EffectiveLevel returns the lesson level, treating unset levels as level 1.
func (l Lesson) EffectiveLevel() int {
	if l.Level <= 0 {
		return 1
	}
	return l.Level
}

// ProgressState is the learner's durable achievement record.
type ProgressState struct {
	XP               int            `json:"xp"`
	CompletedLessons []string       `json:"completedLessons"`
	QuizScores       map[string]int `json:"quizScores"`
	Streak           int            `json:"streak"`
	LastLogin        string         `json:"lastLogin"`
}

// Clone returns a deep copy of the state.
func (s ProgressState) Clone() ProgressState {
	out := s
	out.CompletedLessons = append([]string{}, s.CompletedLessons...)
	out.QuizScores = make(map[string]int, len(s.QuizScores))
	for k, v := range s.QuizScores {
		out.QuizScores[k] = v
	}
	return out
}

// IsCompleted reports whether the lesson has been completed at least once.
func (s ProgressState) IsCompleted(lessonID string) bool {
	for _, id := range s.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Advisor is a localized advisor card.
type Advisor struct {
	ID       string
	Name     string
	Title    string
	Bio      string
	PhotoURL string
	Email    string
	Phone    string
	Website  string
}
