package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
)

func quizLesson() model.Lesson {
	return model.Lesson{
		ID:       "building-credit",
		Title:    model.Translations(map[string]string{"en": "Building Credit", "es": "Construir Crédito"}),
		XPReward: 75,
		Content: []model.ContentBlock{
			{Title: model.Text("Utilization"), Text: model.Text("Keep balances low.")},
		},
		Quiz: []model.QuizQuestion{
			{
				Question:           model.Text("What helps your score?"),
				Options:            []model.LocalizedText{model.Text("Paying on time"), model.Text("Missing payments")},
				CorrectAnswerIndex: 0,
				Explanation:        model.Text("Payment history matters most."),
			},
			{
				Question:           model.Text("Ideal utilization?"),
				Options:            []model.LocalizedText{model.Text("90%"), model.Text("50%"), model.Text("Under 30%")},
				CorrectAnswerIndex: 2,
			},
		},
	}
}

func newTestModel(t *testing.T, lesson model.Lesson) *Model {
	t.Helper()
	m, err := NewModel(lesson, locale.Parse("en"))
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func press(t *testing.T, m *Model, key tea.KeyMsg) tea.Msg {
	t.Helper()
	_, cmd := m.Update(key)
	if cmd == nil {
		return nil
	}
	return cmd()
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	upKey    = tea.KeyMsg{Type: tea.KeyUp}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelRejectsEmptyLesson(t *testing.T) {
	_, err := NewModel(model.Lesson{ID: "empty"}, locale.Parse("en"))
	if !errors.Is(err, ErrNoSlides) {
		t.Fatalf("expected ErrNoSlides, got %v", err)
	}
}

func TestSlidesAreContentThenQuiz(t *testing.T) {
	m := newTestModel(t, quizLesson())
	if len(m.slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(m.slides))
	}
	if m.slides[0].isQuiz() || !m.slides[1].isQuiz() || !m.slides[2].isQuiz() {
		t.Fatalf("unexpected slide order")
	}
}

func TestAllCorrectCompletesWithFullScore(t *testing.T) {
	m := newTestModel(t, quizLesson())

	if msg := press(t, m, enterKey); msg != nil {
		t.Fatalf("content slide should advance silently, got %#v", msg)
	}
	press(t, m, runeKey("1"))
	press(t, m, enterKey)
	if !m.checked || m.correct != 1 {
		t.Fatalf("expected first answer checked as correct, checked=%v correct=%d", m.checked, m.correct)
	}
	press(t, m, enterKey)

	press(t, m, runeKey("3"))
	press(t, m, enterKey)
	msg := press(t, m, enterKey)
	done, ok := msg.(CompletedMsg)
	if !ok {
		t.Fatalf("expected CompletedMsg, got %#v", msg)
	}
	want := CompletedMsg{LessonID: "building-credit", Score: 100, XPReward: 75}
	if done != want {
		t.Fatalf("expected %+v, got %+v", want, done)
	}
}

func TestHalfCorrectScoresFifty(t *testing.T) {
	m := newTestModel(t, quizLesson())
	press(t, m, enterKey)

	press(t, m, runeKey("2"))
	press(t, m, enterKey)
	press(t, m, enterKey)

	press(t, m, runeKey("3"))
	press(t, m, enterKey)
	msg := press(t, m, enterKey)
	done, ok := msg.(CompletedMsg)
	if !ok {
		t.Fatalf("expected CompletedMsg, got %#v", msg)
	}
	if done.Score != 50 {
		t.Fatalf("expected score 50, got %d", done.Score)
	}
}

func TestUnanswerableQuestionsAreSkipped(t *testing.T) {
	lesson := quizLesson()
	lesson.Quiz = append(lesson.Quiz,
		model.QuizQuestion{Question: model.Text("No options")},
		model.QuizQuestion{
			Question:           model.Text("Bad answer"),
			Options:            []model.LocalizedText{model.Text("A"), model.Text("B")},
			CorrectAnswerIndex: 5,
		},
	)
	m := newTestModel(t, lesson)
	if len(m.slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(m.slides))
	}

	press(t, m, enterKey)
	press(t, m, runeKey("1"))
	press(t, m, enterKey)
	press(t, m, enterKey)
	press(t, m, runeKey("3"))
	press(t, m, enterKey)
	done, ok := press(t, m, enterKey).(CompletedMsg)
	if !ok {
		t.Fatalf("expected CompletedMsg")
	}
	if done.Score != 100 {
		t.Fatalf("expected score 100, got %d", done.Score)
	}
}

func TestLessonWithOnlyBrokenQuestionsIsRejected(t *testing.T) {
	lesson := model.Lesson{ID: "broken", Quiz: []model.QuizQuestion{{Question: model.Text("Empty")}}}
	_, err := NewModel(lesson, locale.Parse("en"))
	if !errors.Is(err, ErrNoSlides) {
		t.Fatalf("expected ErrNoSlides, got %v", err)
	}
}

func TestEnterWithoutSelectionDoesNothing(t *testing.T) {
	m := newTestModel(t, quizLesson())
	press(t, m, enterKey)
	press(t, m, enterKey)
	if m.checked || m.index != 1 {
		t.Fatalf("expected to stay unchecked on question, index=%d checked=%v", m.index, m.checked)
	}
}

func TestArrowSelectionWraps(t *testing.T) {
	m := newTestModel(t, quizLesson())
	press(t, m, enterKey)

	press(t, m, downKey)
	if m.selected != 0 {
		t.Fatalf("first move should select option 0, got %d", m.selected)
	}
	press(t, m, upKey)
	if m.selected != 1 {
		t.Fatalf("expected wrap to last option, got %d", m.selected)
	}
	press(t, m, runeKey("9"))
	if m.selected != 1 {
		t.Fatalf("out of range digit should be ignored, got %d", m.selected)
	}
}

func TestSelectionLockedAfterCheck(t *testing.T) {
	m := newTestModel(t, quizLesson())
	press(t, m, enterKey)
	press(t, m, runeKey("2"))
	press(t, m, enterKey)
	press(t, m, runeKey("1"))
	if m.selected != 1 {
		t.Fatalf("selection should not change after check, got %d", m.selected)
	}
}

func TestEscapeClosesLesson(t *testing.T) {
	m := newTestModel(t, quizLesson())
	if _, ok := press(t, m, escKey).(ClosedMsg); !ok {
		t.Fatalf("expected ClosedMsg")
	}
}

func TestContentOnlyLessonScoresFull(t *testing.T) {
	lesson := quizLesson()
	lesson.Quiz = nil
	m := newTestModel(t, lesson)
	done, ok := press(t, m, enterKey).(CompletedMsg)
	if !ok || done.Score != 100 {
		t.Fatalf("expected full score completion, got %#v", done)
	}
}

func TestFinishedModelIgnoresKeys(t *testing.T) {
	lesson := quizLesson()
	lesson.Quiz = nil
	m := newTestModel(t, lesson)
	press(t, m, enterKey)
	if msg := press(t, m, enterKey); msg != nil {
		t.Fatalf("expected no further messages, got %#v", msg)
	}
}

func TestViewShowsLocalizedTitleAndFeedback(t *testing.T) {
	m, err := NewModel(quizLesson(), locale.Parse("es"))
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.SetSize(100, 30)
	if view := m.View(); !strings.Contains(view, "Construir Crédito") {
		t.Fatalf("expected localized title in view")
	}

	press(t, m, enterKey)
	press(t, m, runeKey("2"))
	press(t, m, enterKey)
	view := m.View()
	if !containsAll(view, []string{"Incorrect", "Payment history matters most."}) {
		t.Fatalf("expected feedback in view:\n%s", view)
	}
}
