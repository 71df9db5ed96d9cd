package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateAddHabit:
		return docStyle.Render(m.form.View())
	case StateConfirmArchive:
		return m.viewConfirm("Archive this habit? Its entries are kept.")
	case StateConfirmDelete:
		return m.viewConfirm(dangerStyle.Render("Permanently delete this habit and all its entries?"))
	}

	return m.viewList()
}

func (m Model) viewList() string {
	var lines []string

	if len(m.rows) == 0 {
		lines = append(lines, dimStyle.Render("No habits yet. Press 'a' to add one."))
	}

	now := time.Now()
	for i, r := range m.rows {
		if r.firstInGrp {
			lines = append(lines, groupHeaderStyle.Render(r.group))
		}

		label := fmt.Sprintf("%s %s  %d/%d", groupMark(r), r.habit.DisplayTitle(), r.activeCount, r.habit.GoalCount)
		if r.habit.GoalLabel != "" {
			label += " " + r.habit.GoalLabel
		}
		if r.habit.CompletedStreak > 0 {
			label += fmt.Sprintf("  (streak %d)", r.habit.CompletedStreak)
		}
		label += "  " + dimStyle.Render(timeLeft(r.habit.IntervalEndAt, now))

		style := itemStyle
		switch {
		case i == m.cursor:
			style = selectedStyle
		case groupMark(r) == "[x]":
			style = completedStyle
		}
		lines = append(lines, style.Render(label))
	}

	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render("Error: "+m.errMsg))
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
		"",
		m.help.View(m.keys),
	))
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			question,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func timeLeft(end, now time.Time) string {
	left := end.Sub(now)
	if left <= 0 {
		return "ended"
	}
	switch {
	case left >= 48*time.Hour:
		return fmt.Sprintf("%dd left", int(left.Hours()/24))
	case left >= time.Hour:
		return fmt.Sprintf("%dh left", int(left.Hours()))
	default:
		return fmt.Sprintf("%dm left", int(left.Minutes()))
	}
}
