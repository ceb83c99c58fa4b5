package homeui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/finlearn/internal/budget"
	"github.com/verte-zerg/finlearn/internal/lessons"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.viewer != nil {
		return m.viewer.View()
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	m.viewport.SetContent(m.renderBody())
	body := fitLines(m.viewport.View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := "XP 0  Streak 1"
	if m.deps.Tracker != nil {
		state := m.deps.Tracker.State()
		summary = fmt.Sprintf("XP %d  Streak %d  Lessons %d/%d  Source %s",
			state.XP, state.Streak, len(state.CompletedLessons), len(m.lessons), m.source)
	}
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabSearch:
		return m.renderSearch()
	case tabBudget:
		return m.renderBudget()
	case tabAdvice:
		return m.renderAdvice()
	default:
		return m.renderPath()
	}
}

func (m *Model) renderPath() string {
	if len(m.path) == 0 {
		return "No lessons found."
	}
	var b strings.Builder
	for i, row := range m.rows {
		level := m.path[row.level]
		style := mutedStyle
		var line string
		if row.lesson < 0 {
			if i > 0 {
				b.WriteString("\n")
			}
			marker := "▸"
			if m.expanded(level) {
				marker = "▾"
			}
			style = levelStyle
			line = fmt.Sprintf("%s %s  [%d/%d]", marker, level.Title, level.Completed, level.Total())
		} else {
			pl := level.Lessons[row.lesson]
			line = fmt.Sprintf("%s %s  +%d XP%s", statusMark(pl.Status == lessons.StatusCompleted),
				pl.Lesson.Title.Resolve(m.deps.Locale), pl.Lesson.XPReward, bestLabel(pl.BestScore, pl.HasScore))
		}
		if i == m.pathIndex {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(style.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderSearch() string {
	lines := []string{m.searchInput.View()}
	if suggestions := m.suggestions(); len(suggestions) > 0 {
		lines = append(lines, mutedStyle.Render("Recent: "+strings.Join(suggestions, " · ")))
	}
	lines = append(lines, "")
	list := m.searchList()
	switch {
	case strings.TrimSpace(m.settledQuery) == "":
		if len(list) == 0 {
			return strings.Join(append(lines, mutedStyle.Render("Type to search lessons.")), "\n")
		}
		lines = append(lines, mutedStyle.Render("Type to search lessons, or start with:"), levelStyle.Render(m.path[0].Title))
	case len(list) == 0:
		return strings.Join(append(lines, fmt.Sprintf("No lessons match %q.", m.settledQuery)), "\n")
	}
	state := m.progressState()
	for i, lesson := range list {
		best, hasBest := state.QuizScores[lesson.ID]
		line := fmt.Sprintf("%s %s%s  %s", statusMark(state.IsCompleted(lesson.ID)),
			lesson.Title.Resolve(m.deps.Locale), bestLabel(best, hasBest),
			mutedStyle.Render(lesson.Description.Resolve(m.deps.Locale)))
		if i == m.resultIndex {
			lines = append(lines, selectedStyle.Render("> ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func statusMark(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func bestLabel(score int, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("  best %d%%", score)
}

func (m *Model) renderBudget() string {
	lines := []string{m.budgetInput.View(), ""}
	rules, err := m.budgetRules()
	switch {
	case err != nil:
		lines = append(lines, errorStyle.Render(err.Error()))
	case len(rules) == 0:
		lines = append(lines, mutedStyle.Render("Enter your monthly after-tax income to see the 50/30/20 split."))
	default:
		for _, rule := range rules {
			lines = append(lines, fmt.Sprintf("%-14s %s", rule.Label, budget.FormatAmount(rule.Amount, m.deps.Locale)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAdvice() string {
	switch {
	case !m.advisorLoaded:
		return mutedStyle.Render("Loading advisor...")
	case m.advisorErr != nil && isNoAdvisors(m.advisorErr):
		return mutedStyle.Render("No advisors available right now.")
	case m.advisorErr != nil:
		return errorStyle.Render("Failed to load advisor: " + m.advisorErr.Error())
	}
	a := m.advisor
	lines := []string{selectedStyle.Render(a.Name)}
	if a.Title != "" {
		lines = append(lines, mutedStyle.Render(a.Title))
	}
	if a.Bio != "" {
		lines = append(lines, "", a.Bio)
	}
	for _, contact := range [][2]string{{"Email", a.Email}, {"Phone", a.Phone}, {"Web", a.Website}, {"Photo", a.PhotoURL}} {
		if contact[1] != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", contact[0], contact[1]))
		}
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelp() string {
	help := "Tabs: tab/shift+tab  Select: up/down  Open/expand: enter  Quit: q"
	switch m.activeTab {
	case tabSearch:
		help = "Tabs: tab/shift+tab  Results: up/down  Open: enter  Recent: ctrl+f  Clear history: ctrl+x"
	case tabBudget:
		help = "Tabs: tab/shift+tab  Quit: ctrl+c"
	case tabAdvice:
		help = "Tabs: tab/shift+tab  Another advisor: r  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	switch {
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	case m.status != "":
		return m.renderHelp() + "\n" + statusStyle.Render(m.status)
	}
	return m.renderHelp()
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
