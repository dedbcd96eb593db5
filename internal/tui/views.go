package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/session"
)

const progressWidth = 30

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.theme.Faint.Render("Loading gradebook...")
	}
	if m.state == StateHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.renderHeader(),
		m.theme.RoundedBox.Render(m.renderGroup()),
	}
	if legend := renderLegend(m.view.State.Scale); legend != "" {
		sections = append(sections, m.theme.Faint.Render(legend))
	}
	if summaries := m.evaluator.Summaries(); len(summaries) > 0 {
		sections = append(sections, m.renderRules(summaries))
	}
	if m.state == StateRuleEntry {
		sections = append(sections, m.input.View())
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if m.config.ShowHelp {
		sections = append(sections, m.help.ShortHelpView(m.keymap.ShortHelp()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	v := m.view
	title := m.theme.Title.Render("Grading " + v.State.FileID)
	group := m.theme.Subtitle.Render(fmt.Sprintf("Group %d of %d", v.State.Cursor+1, v.GroupCount))

	mode := m.theme.Faint.Render("one by one")
	if m.groupFill {
		mode = m.theme.Armed.Render("group fill")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", group, "  ", mode),
		m.renderProgress(v.Graded, v.Total),
	)
}

func (m Model) renderProgress(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * progressWidth / total
	}
	bar := m.theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		m.theme.ProgressEmpty.Render(strings.Repeat("░", progressWidth-filled))
	return fmt.Sprintf("%s %d/%d graded", bar, done, total)
}

func (m Model) renderGroup() string {
	lines := make([]string, 0, len(m.view.Entries))
	for i, e := range m.view.Entries {
		marker := "  "
		name := m.theme.Normal.Render(e.Name)
		if i == m.focus && !m.groupFill {
			marker = m.theme.Selected.Render("▸ ")
			name = m.theme.Selected.Render(e.Name)
		}

		detail := m.theme.Faint.Render(fmt.Sprintf("#%d %s tier %d",
			e.ItemID, strings.Join(e.Categories, "/"), e.Tier))

		lines = append(lines, fmt.Sprintf("%s%-16s %s  %s", marker, name, m.renderGrade(e), detail))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGrade(e session.Entry) string {
	if !e.Graded() {
		return m.theme.Ungraded.Render("ungraded")
	}
	text := strconv.Itoa(e.Grade)
	if e.Label != "" && e.Label != text {
		text += " " + e.Label
	}
	return m.theme.Graded.Render(text)
}

func (m Model) renderRules(summaries []string) string {
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Pending rules"))
	for i, s := range summaries {
		fmt.Fprintf(&b, "\n %d. %s", i+1, s)
	}
	return b.String()
}

func (m Model) renderStatus() string {
	if text := m.errorText(); text != "" {
		return m.theme.StatusError.Render("✗ " + text)
	}
	if m.notice != "" {
		return m.theme.StatusSuccess.Render("✓ " + m.notice)
	}
	return ""
}

func (m Model) renderHelp() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Keys"),
		m.help.FullHelpView(m.keymap.FullHelp()),
		"",
		m.theme.Faint.Render("1-9 grade, 0 is 10. Any key returns."),
	)
}

// renderLegend lists label meanings for scales whose labels are not numbers.
func renderLegend(scale model.GradeScale) string {
	if scale.IsNumeric() {
		return ""
	}
	parts := make([]string, 0, scale.Max())
	for g := 1; g <= scale.Max(); g++ {
		parts = append(parts, fmt.Sprintf("%d = %s", g, scale.Label(g)))
	}
	return strings.Join(parts, "  ")
}
