package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/fruitful/internal/models"
	"github.com/julianstephens/fruitful/internal/tracker"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmArchive, StateConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Log):
		if r, ok := m.selected(); ok {
			if _, err := m.tracker.LogCompletion(r.habit.ID); err != nil {
				m.errMsg = err.Error()
			} else {
				m.reload()
			}
		}

	case key.Matches(keyMsg, m.keys.Snooze):
		if r, ok := m.selected(); ok {
			if err := m.tracker.Snooze(r.habit.ID); err != nil {
				m.errMsg = err.Error()
			} else {
				m.reload()
			}
		}

	case key.Matches(keyMsg, m.keys.Add):
		m.habitForm = &HabitFormModel{
			Interval: "day",
			Goal:     "1",
			Priority: "normal",
		}
		m.form = newHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case key.Matches(keyMsg, m.keys.Archive):
		if r, ok := m.selected(); ok {
			m.targetID = r.habit.ID
			m.state = StateConfirmArchive
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if r, ok := m.selected(); ok {
			m.targetID = r.habit.ID
			m.state = StateConfirmDelete
		}
	}

	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateList
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		goal, err := strconv.Atoi(m.habitForm.Goal)
		if err != nil {
			goal = 1
		}
		_, err = m.tracker.CreateHabit(tracker.HabitParams{
			Title:     m.habitForm.Title,
			Interval:  models.HabitInterval(m.habitForm.Interval),
			GoalCount: goal,
			GoalLabel: m.habitForm.GoalLabel,
			Priority:  models.Priority(m.habitForm.Priority),
		})
		if err != nil {
			m.errMsg = err.Error()
			m.form.State = huh.StateNormal
		} else {
			m.reload()
			m.state = StateList
		}
	case huh.StateAborted:
		m.state = StateList
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		var err error
		if m.state == StateConfirmArchive {
			err = m.tracker.ArchiveHabit(m.targetID)
		} else {
			err = m.tracker.DeleteHabit(m.targetID)
		}
		if err != nil {
			m.errMsg = err.Error()
		}
		m.reload()
		m.state = StateList
	case "n", "N", "q", "esc":
		m.state = StateList
	}

	return m, nil
}
