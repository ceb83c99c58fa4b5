// Package tui provides the Bubble Tea lesson viewer.
package tui

import (
	"errors"
	"fmt"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
	"github.com/verte-zerg/finlearn/internal/progress"
)

// ErrNoSlides is returned for a lesson with neither content nor quiz.
var ErrNoSlides = errors.New("lesson has no content")

// CompletedMsg is emitted when the learner finishes the last slide.
type CompletedMsg struct {
	LessonID string
	Score    int
	XPReward int
}

// ClosedMsg is emitted when the learner leaves a lesson early.
type ClosedMsg struct{}

type slide struct {
	block    *model.ContentBlock
	question *model.QuizQuestion
}

func (s slide) isQuiz() bool {
	return s.question != nil
}

// Model implements the Bubble Tea lesson viewer: content slides first, then
// one slide per quiz question.
type Model struct {
	lesson model.Lesson
	loc    locale.Locale
	slides []slide
	asked  int

	width  int
	height int

	index    int
	selected int
	checked  bool
	correct  int
	finished bool

	bar      progressbar.Model
	rendered map[int]string
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel builds a viewer for lesson. Questions without a valid correct
// option are skipped. Lessons without slides cannot be opened.
func NewModel(lesson model.Lesson, loc locale.Locale) (*Model, error) {
	m := &Model{
		lesson:   lesson,
		loc:      loc,
		selected: -1,
		bar:      progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
		rendered: map[int]string{},
	}
	for i := range lesson.Content {
		m.slides = append(m.slides, slide{block: &lesson.Content[i]})
	}
	for i := range lesson.Quiz {
		q := &lesson.Quiz[i]
		if !answerable(q) {
			continue
		}
		m.slides = append(m.slides, slide{question: q})
		m.asked++
	}
	if len(m.slides) == 0 {
		return nil, fmt.Errorf("%s: %w", lesson.ID, ErrNoSlides)
	}
	return m, nil
}

func answerable(q *model.QuizQuestion) bool {
	return q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < len(q.Options)
}

// SetSize resizes the viewer.
func (m *Model) SetSize(width, height int) {
	if width != m.width {
		m.rendered = map[int]string{}
	}
	m.width = width
	m.height = height
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.finished {
		return nil
	}
	current := m.slides[m.index]
	switch key := msg.String(); key {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q":
		return func() tea.Msg { return ClosedMsg{} }
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "enter", " ":
		switch {
		case !current.isQuiz() || m.checked:
			return m.next()
		case m.selected >= 0:
			m.check()
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.selectOption(int(key[0] - '1'))
		}
	}
	return nil
}

func (m *Model) moveSelection(delta int) {
	current := m.slides[m.index]
	if !current.isQuiz() || m.checked {
		return
	}
	n := len(current.question.Options)
	if n == 0 {
		return
	}
	next := m.selected + delta
	if m.selected < 0 {
		next = 0
	}
	m.selectOption((next + n) % n)
}

func (m *Model) selectOption(i int) {
	current := m.slides[m.index]
	if !current.isQuiz() || m.checked {
		return
	}
	if i < 0 || i >= len(current.question.Options) {
		return
	}
	m.selected = i
}

func (m *Model) check() {
	m.checked = true
	if m.selected == m.slides[m.index].question.CorrectAnswerIndex {
		m.correct++
	}
}

func (m *Model) next() tea.Cmd {
	if m.index == len(m.slides)-1 {
		m.finished = true
		done := CompletedMsg{
			LessonID: m.lesson.ID,
			Score:    m.Score(),
			XPReward: m.lesson.XPReward,
		}
		return func() tea.Msg { return done }
	}
	m.index++
	m.selected = -1
	m.checked = false
	return nil
}

// Score returns the quiz percentage so far. Lessons without questions score 100.
func (m *Model) Score() int {
	return progress.ScorePercent(m.correct, m.asked)
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := m.contentWidth()
	m.bar.Width = contentWidth
	header := titleStyle.Render(m.lesson.Title.Resolve(m.loc)) + "\n" +
		m.bar.ViewAs(float64(m.index)/float64(len(m.slides)))

	var body string
	if current := m.slides[m.index]; current.isQuiz() {
		body = m.renderQuiz(current.question, contentWidth)
	} else {
		body = m.renderContent(current.block, contentWidth)
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(header + "\n\n" + body)
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + footer
	}
	bodyHeight := m.height - 1
	main := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return main + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	if w < 20 {
		w = m.width
	}
	return w
}

func (m *Model) renderContent(block *model.ContentBlock, width int) string {
	if out, ok := m.rendered[m.index]; ok {
		return out
	}
	title := block.Title.Resolve(m.loc)
	text := block.Text.Resolve(m.loc)
	out := renderMarkdown(fmt.Sprintf("## %s\n\n%s\n", title, text), width)
	if out == "" {
		out = titleStyle.Render(title) + "\n\n" + wrapText(text, width)
	}
	m.rendered[m.index] = out
	return out
}

func renderMarkdown(source string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return ""
	}
	out, err := r.Render(source)
	if err != nil {
		return ""
	}
	return strings.Trim(out, "\n")
}

func (m *Model) renderQuiz(q *model.QuizQuestion, width int) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render(wrapText(q.Question.Resolve(m.loc), width)))
	b.WriteString("\n\n")
	for i, option := range q.Options {
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		line := hangingIndent(fmt.Sprintf("%s%d. ", marker, i+1), option.Resolve(m.loc), width)
		b.WriteString(m.optionStyle(i, q.CorrectAnswerIndex).Render(line))
		b.WriteString("\n")
	}
	if m.checked {
		b.WriteString("\n")
		if m.selected == q.CorrectAnswerIndex {
			b.WriteString(correctStyle.Render("Correct!"))
		} else {
			b.WriteString(incorrectStyle.Render("Incorrect"))
		}
		if explanation := q.Explanation.Resolve(m.loc); explanation != "" {
			b.WriteString("\n")
			b.WriteString(wrapText(explanation, width))
		}
	}
	return b.String()
}

func (m *Model) optionStyle(i, correct int) lipgloss.Style {
	switch {
	case m.checked && i == correct:
		return correctStyle
	case m.checked && i == m.selected:
		return incorrectStyle
	case !m.checked && i == m.selected:
		return selectedStyle
	default:
		return pendingStyle
	}
}

func (m *Model) renderFooter() string {
	current := m.slides[m.index]
	segments := []string{fmt.Sprintf("Slide %d/%d", m.index+1, len(m.slides))}
	if m.asked > 0 {
		segments = append(segments, fmt.Sprintf("Quiz %d/%d", m.correct, m.asked))
	}
	switch {
	case current.isQuiz() && !m.checked:
		segments = append(segments, "1-9/↑↓ choose · enter check")
	case m.index == len(m.slides)-1:
		segments = append(segments, "enter finish")
	default:
		segments = append(segments, "enter continue")
	}
	segments = append(segments, "esc back")
	return footerStyle.Render(strings.Join(segments, "  "))
}
