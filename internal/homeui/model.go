// Package homeui provides the Bubble Tea home screen: learning path, lesson
// search, budget calculator and advisor card.
package homeui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/finlearn/internal/advisor"
	"github.com/verte-zerg/finlearn/internal/budget"
	"github.com/verte-zerg/finlearn/internal/lessons"
	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
	"github.com/verte-zerg/finlearn/internal/progress"
	"github.com/verte-zerg/finlearn/internal/search"
	"github.com/verte-zerg/finlearn/internal/tui"
)

const (
	tabPath = iota
	tabSearch
	tabBudget
	tabAdvice
)

const (
	suggestionLimit = 5
	advisorTimeout  = 10 * time.Second
)

// Deps are the collaborators of the home screen. Watcher, Reload and
// Advisors may be nil.
type Deps struct {
	Collection lessons.Collection
	Tracker    *progress.Tracker
	Live       *search.Live
	Advisors   *advisor.Cache
	Watcher    *lessons.Watcher
	Reload     func() (lessons.Collection, error)
	Locale     locale.Locale
	Threshold  float64
	Logger     *zap.Logger
}

type searchMsg search.Update

type reloadedMsg struct {
	collection lessons.Collection
	err        error
}

// pathRow is one selectable line of the path tab: a level header, or a lesson
// of an expanded level when lesson >= 0.
type pathRow struct {
	level  int
	lesson int
}

type advisorMsg struct {
	advisor model.Advisor
	err     error
}

// Model implements the Bubble Tea home UI.
type Model struct {
	ctx  context.Context
	deps Deps

	lessons []model.Lesson
	source  lessons.Source
	path    []lessons.Level
	rows    []pathRow
	toggled map[int]bool

	tabs      []string
	activeTab int
	viewport  viewport.Model

	width  int
	height int

	pathIndex int

	searchInput  textinput.Model
	results      []model.Lesson
	resultIndex  int
	history      []string
	settledQuery string

	budgetInput textinput.Model

	advisor       model.Advisor
	advisorErr    error
	advisorLoaded bool

	viewer *tui.Model
	status string
	errMsg string
}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	levelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs the home UI.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	m := &Model{
		ctx:      ctx,
		deps:     deps,
		tabs:     []string{"Path", "Search", "Budget", "Advice"},
		viewport: viewport.New(0, 0),
		toggled:  map[int]bool{},
	}
	m.searchInput = newInput("Search: ", "budget, credit, taxes...")
	m.budgetInput = newInput("Monthly income: ", "3200")
	m.setCollection(deps.Collection)
	if len(m.rows) > 1 && m.rows[1].lesson >= 0 {
		m.pathIndex = 1
	}
	return m
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSearch(), m.waitForReload())
}

func (m *Model) setCollection(c lessons.Collection) {
	m.lessons = c.Lessons
	m.source = c.Source
	m.refreshPath()
}

func (m *Model) progressState() model.ProgressState {
	if m.deps.Tracker == nil {
		return model.ProgressState{}
	}
	return m.deps.Tracker.State()
}

func (m *Model) refreshPath() {
	m.path = lessons.BuildPath(m.lessons, m.progressState())
	m.refreshRows()
}

// expanded reports whether a level shows its lessons. A level keeps the
// learner's last toggle; untouched levels follow the path's default.
func (m *Model) expanded(level lessons.Level) bool {
	if open, ok := m.toggled[level.Number]; ok {
		return open
	}
	return level.Open
}

func (m *Model) refreshRows() {
	m.rows = m.rows[:0]
	for li, level := range m.path {
		m.rows = append(m.rows, pathRow{level: li, lesson: -1})
		if !m.expanded(level) {
			continue
		}
		for pi := range level.Lessons {
			m.rows = append(m.rows, pathRow{level: li, lesson: pi})
		}
	}
	if m.pathIndex >= len(m.rows) {
		m.pathIndex = maxInt(0, len(m.rows)-1)
	}
}

func (m *Model) toggleLevel(li int) {
	level := m.path[li]
	m.toggled[level.Number] = !m.expanded(level)
	m.refreshRows()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		if m.viewer != nil {
			m.viewer.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case searchMsg:
		m.applySearch(search.Update(msg))
		return m, m.waitForSearch()
	case reloadedMsg:
		m.applyReload(msg)
		return m, m.waitForReload()
	case advisorMsg:
		m.advisorLoaded = true
		m.advisor = msg.advisor
		m.advisorErr = msg.err
		return m, nil
	case tui.CompletedMsg:
		m.completeLesson(msg)
		return m, nil
	case tui.ClosedMsg:
		m.viewer = nil
		return m, nil
	case tea.KeyMsg:
		if m.viewer != nil {
			_, cmd := m.viewer.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m, m.moveTab(1)
	case "shift+tab":
		return m, m.moveTab(-1)
	}
	switch m.activeTab {
	case tabSearch:
		return m.updateSearch(msg)
	case tabBudget:
		return m.updateBudget(msg)
	case tabAdvice:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m, m.fetchAdvisor(true)
		case "left", "h":
			return m, m.moveTab(-1)
		case "right", "l":
			return m, m.moveTab(1)
		}
		return m, nil
	default:
		return m.updatePath(msg)
	}
}

func (m *Model) moveTab(delta int) tea.Cmd {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.searchInput.Blur()
	m.budgetInput.Blur()
	switch m.activeTab {
	case tabSearch:
		return m.searchInput.Focus()
	case tabBudget:
		return m.budgetInput.Focus()
	case tabAdvice:
		if !m.advisorLoaded {
			return m.fetchAdvisor(false)
		}
	}
	return nil
}

func (m *Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		return m, m.moveTab(-1)
	case "right", "l":
		return m, m.moveTab(1)
	case "up", "k":
		if m.pathIndex > 0 {
			m.pathIndex--
		}
	case "down", "j":
		if m.pathIndex < len(m.rows)-1 {
			m.pathIndex++
		}
	case "enter", " ":
		if m.pathIndex >= len(m.rows) {
			return m, nil
		}
		row := m.rows[m.pathIndex]
		if row.lesson < 0 {
			m.toggleLevel(row.level)
			return m, nil
		}
		m.openLesson(m.path[row.level].Lessons[row.lesson].Lesson)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.resultIndex > 0 {
			m.resultIndex--
		}
		return m, nil
	case "down":
		if m.resultIndex < len(m.searchList())-1 {
			m.resultIndex++
		}
		return m, nil
	case "ctrl+x":
		if m.deps.Live != nil {
			m.history = m.deps.Live.ClearHistory()
		}
		return m, nil
	case "ctrl+f":
		if suggestions := m.suggestions(); len(suggestions) > 0 {
			m.searchInput.SetValue(suggestions[0])
			m.searchInput.CursorEnd()
			m.querySearch(true)
		}
		return m, nil
	case "enter":
		list := m.searchList()
		if m.settledQuery == m.searchInput.Value() && m.resultIndex < len(list) {
			m.openLesson(list[m.resultIndex])
			return m, nil
		}
		m.querySearch(true)
		return m, nil
	}
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.querySearch(false)
	}
	return m, cmd
}

func (m *Model) querySearch(now bool) {
	if m.deps.Live == nil {
		return
	}
	query := m.searchInput.Value()
	if now {
		m.deps.Live.Flush(query)
		return
	}
	m.deps.Live.SetQuery(query)
}

func (m *Model) applySearch(u search.Update) {
	if u.Query != m.searchInput.Value() {
		m.deps.Logger.Debug("dropping stale search results", zap.String("query", u.Query))
		return
	}
	m.settledQuery = u.Query
	m.results = u.Results
	m.resultIndex = 0
	m.history = u.History
}

// recommended returns the first level's lessons, shown while the query is
// blank.
func (m *Model) recommended() []model.Lesson {
	if len(m.path) == 0 {
		return nil
	}
	level := m.path[0]
	out := make([]model.Lesson, 0, level.Total())
	for _, pl := range level.Lessons {
		out = append(out, pl.Lesson)
	}
	return out
}

func (m *Model) searchList() []model.Lesson {
	if strings.TrimSpace(m.settledQuery) == "" {
		return m.recommended()
	}
	return m.results
}

func (m *Model) suggestions() []string {
	return search.Suggest(m.searchInput.Value(), m.history, suggestionLimit)
}

func (m *Model) updateBudget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.budgetInput, cmd = m.budgetInput.Update(msg)
	return m, cmd
}

func (m *Model) budgetRules() ([]budget.Rule, error) {
	if strings.TrimSpace(m.budgetInput.Value()) == "" {
		return nil, nil
	}
	income, err := budget.ParseIncome(m.budgetInput.Value())
	if err != nil {
		return nil, err
	}
	return budget.Split(income), nil
}

func (m *Model) openLesson(lesson model.Lesson) {
	viewer, err := tui.NewModel(lesson, m.deps.Locale)
	if err != nil {
		m.errMsg = fmt.Sprintf("Cannot open %s: %v", lesson.Title.Resolve(m.deps.Locale), err)
		return
	}
	m.errMsg = ""
	viewer.SetSize(m.width, m.height)
	m.viewer = viewer
}

func (m *Model) completeLesson(done tui.CompletedMsg) {
	m.viewer = nil
	if m.deps.Tracker == nil {
		return
	}
	before := m.deps.Tracker.State().XP
	after := m.deps.Tracker.CompleteLesson(m.ctx, done.LessonID, done.Score, done.XPReward)
	gained := after.XP - before
	if gained > 0 {
		m.status = fmt.Sprintf("Lesson complete: %d%%  +%d XP", done.Score, gained)
	} else {
		m.status = fmt.Sprintf("Lesson reviewed: %d%%", done.Score)
	}
	m.refreshPath()
}

func (m *Model) applyReload(msg reloadedMsg) {
	if msg.err != nil {
		m.deps.Logger.Warn("failed to reload lessons", zap.Error(msg.err))
		m.errMsg = "Failed to reload lessons."
		return
	}
	m.setCollection(msg.collection)
	if m.deps.Live != nil {
		m.deps.Live.SetIndex(search.NewIndex(m.lessons, m.deps.Locale, search.WithThreshold(m.deps.Threshold)))
	}
	m.errMsg = ""
	m.status = fmt.Sprintf("Reloaded %d lessons", len(m.lessons))
}

func (m *Model) waitForSearch() tea.Cmd {
	if m.deps.Live == nil {
		return nil
	}
	updates := m.deps.Live.Updates()
	return func() tea.Msg {
		return searchMsg(<-updates)
	}
}

func (m *Model) waitForReload() tea.Cmd {
	if m.deps.Watcher == nil || m.deps.Reload == nil {
		return nil
	}
	changes := m.deps.Watcher.Changes()
	reload := m.deps.Reload
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		collection, err := reload()
		return reloadedMsg{collection: collection, err: err}
	}
}

func (m *Model) fetchAdvisor(refresh bool) tea.Cmd {
	cache := m.deps.Advisors
	if cache == nil {
		m.advisorLoaded = true
		m.advisorErr = advisor.ErrNoAdvisors
		return nil
	}
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, advisorTimeout)
		defer cancel()
		var (
			a   model.Advisor
			err error
		)
		if refresh {
			a, err = cache.Refresh(ctx)
		} else {
			a, err = cache.Current(ctx)
		}
		return advisorMsg{advisor: a, err: err}
	}
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	for _, input := range []*textinput.Model{&m.searchInput, &m.budgetInput} {
		promptWidth := lipgloss.Width(input.Prompt)
		input.Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.status != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func isNoAdvisors(err error) bool {
	return errors.Is(err, advisor.ErrNoAdvisors) || errors.Is(err, lessons.ErrNotConfigured)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
