package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/fruitful/internal/engine"
	"github.com/julianstephens/fruitful/internal/models"
	"github.com/julianstephens/fruitful/internal/tracker"
)

type SessionState int

const (
	StateList SessionState = iota
	StateAddHabit
	StateConfirmArchive
	StateConfirmDelete
)

type HabitFormModel struct {
	Title     string
	Interval  string
	Goal      string
	GoalLabel string
	Priority  string
}

// row is one selectable line of the grouped dashboard.
type row struct {
	habit       models.Habit
	group       string
	activeCount int
	firstInGrp  bool
}

type Model struct {
	tracker   *tracker.Tracker
	state     SessionState
	keys      KeyMap
	help      help.Model
	rows      []row
	cursor    int
	form      *huh.Form
	habitForm *HabitFormModel
	targetID  string
	errMsg    string
	quitting  bool
	width     int
	height    int
}

func NewModel(tr *tracker.Tracker) Model {
	m := Model{
		tracker: tr,
		state:   StateList,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.reload()
	return m
}

// reload rebuilds the grouped rows from the store.
func (m *Model) reload() {
	m.rows = nil

	groups, err := m.tracker.Grouped()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""

	for _, group := range groups {
		for i, habit := range group.Habits {
			count, err := m.tracker.ActiveCount(habit.ID)
			if err != nil {
				m.errMsg = err.Error()
				count = 0
			}
			m.rows = append(m.rows, row{
				habit:       habit,
				group:       group.Label,
				activeCount: count,
				firstInGrp:  i == 0,
			})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (row, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title),
			huh.NewSelect[string]().
				Title("Interval").
				Options(
					huh.NewOption("Daily", "day"),
					huh.NewOption("Weekly", "week"),
					huh.NewOption("Monthly", "month"),
					huh.NewOption("Yearly", "year"),
				).
				Value(&f.Interval),
			huh.NewInput().
				Title("Goal count").
				Value(&f.Goal),
			huh.NewInput().
				Title("Goal label (optional)").
				Value(&f.GoalLabel),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", "low"),
					huh.NewOption("Normal", "normal"),
					huh.NewOption("High", "high"),
				).
				Value(&f.Priority),
		),
	)
}

// groupMark renders the dashboard checkbox for a habit row.
func groupMark(r row) string {
	if engine.IsCompleted(r.habit) {
		return "[x]"
	}
	return "[ ]"
}
