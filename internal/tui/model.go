// Package tui is the full-screen grading front end. It drives a
// session.Controller from key presses and redraws from the views the
// controller returns.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/rules"
	"github.com/Veraticus/gradebook/internal/session"
	"github.com/Veraticus/gradebook/internal/tui/themes"
)

// State represents which input the TUI is reading.
type State int

const (
	StateGrading State = iota
	StateRuleEntry
	StateHelp
)

// Model holds the main TUI state. Controller calls happen synchronously
// inside Update, so a keypress never observes a half-applied grade.
type Model struct {
	ctx        context.Context
	lastError  error
	controller *session.Controller
	evaluator  *rules.Evaluator
	theme      themes.Theme
	notice     string
	keymap     KeyMap
	help       help.Model
	input      textinput.Model
	view       session.View
	config     Config
	state      State
	focus      int
	width      int
	height     int
	groupFill  bool
	ready      bool
	quitting   bool
}

// New builds the model. Nothing is rendered until Init advances to the
// first group.
func New(ctx context.Context, controller *session.Controller, evaluator *rules.Evaluator, opts ...Option) (Model, error) {
	if controller == nil {
		return Model{}, fmt.Errorf("controller is required")
	}
	if evaluator == nil {
		evaluator = rules.NewEvaluator(controller.State().Scale, 0)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.Prompt = "rule> "
	input.Placeholder = "tier=1 and Fire -> 4 @1"
	input.CharLimit = 120

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:        ctx,
		controller: controller,
		evaluator:  evaluator,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       h,
		input:      input,
		config:     cfg,
		width:      cfg.Width,
		height:     cfg.Height,
	}, nil
}

// Init moves onto the first group.
func (m Model) Init() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		view, err := controller.Advance(ctx)
		return viewMsg{view: view, err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		m.show(msg.view, msg.err)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.state {
		case StateRuleEntry:
			return m.updateRuleEntry(msg)
		case StateHelp:
			m.state = StateGrading
			return m, nil
		default:
			return m.updateGrading(msg)
		}
	}

	return m, nil
}

func (m Model) updateGrading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.lastError = nil

	if grade, ok := digitGrade(msg); ok {
		m.grade(grade)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		if err := m.controller.Save(m.ctx); err != nil {
			m.lastError = err
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Next):
		m.show(m.controller.Advance(m.ctx))

	case key.Matches(msg, m.keymap.Prev):
		m.show(m.controller.Retreat(m.ctx))

	case key.Matches(msg, m.keymap.Up):
		if m.focus > 0 {
			m.focus--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.focus < len(m.view.Entries)-1 {
			m.focus++
		}

	case key.Matches(msg, m.keymap.ToggleFill):
		m.groupFill = !m.groupFill

	case key.Matches(msg, m.keymap.DisableFill):
		m.groupFill = false
		if n := len(m.view.Entries); n > 0 {
			m.focus = (m.focus + 1) % n
		}

	case key.Matches(msg, m.keymap.Save):
		if err := m.controller.Save(m.ctx); err != nil {
			m.lastError = err
		} else {
			m.notice = "Saved " + m.controller.State().FileID
		}

	case key.Matches(msg, m.keymap.AddRule):
		m.state = StateRuleEntry
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keymap.RemoveRule):
		if n := m.evaluator.Len(); n > 0 {
			_ = m.evaluator.Remove(n - 1)
			m.notice = fmt.Sprintf("Dropped rule %d", n)
		}

	case key.Matches(msg, m.keymap.ApplyRules):
		assigned, err := m.controller.ApplyRules(m.ctx, m.evaluator, nil)
		if err != nil {
			m.lastError = err
		} else {
			m.notice = fmt.Sprintf("Autofilled %d items", len(assigned))
		}
		m.refresh()

	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
	}

	return m, nil
}

func (m Model) updateRuleEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.state = StateGrading
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.Confirm):
		rule, err := rules.ParseRule(m.input.Value(), m.controller.State().Scale)
		if err == nil {
			err = m.evaluator.Add(rule)
		}
		if err != nil {
			m.lastError = err
			return m, nil
		}
		m.lastError = nil
		m.notice = "Added " + rule.Summary(m.controller.State().Scale)
		m.state = StateGrading
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// grade applies a digit key: the whole group while group fill is armed,
// otherwise the focused item.
func (m *Model) grade(value int) {
	if !m.ready || len(m.view.Entries) == 0 {
		return
	}

	if m.groupFill {
		m.groupFill = false
		m.show(m.controller.AutoFillCursorGroup(m.ctx, value))
		return
	}

	entry := m.view.Entries[m.focus]
	if _, err := m.controller.SetGrade(m.ctx, entry.ItemID, value); err != nil {
		m.lastError = err
		return
	}
	if m.focus < len(m.view.Entries)-1 {
		m.focus++
	}
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	view, err := m.controller.Refresh(m.ctx)
	m.show(view, err)
}

// show adopts a view. A failed save still moves the cursor, so the view is
// kept whenever it carries a group.
func (m *Model) show(view session.View, err error) {
	if err != nil {
		slog.Debug("tui action failed", "error", err)
		m.lastError = err
	}
	if len(view.Entries) == 0 {
		return
	}

	m.view = view
	m.ready = true
	if view.Navigated {
		m.groupFill = true
		m.focus = firstUngraded(view.Entries)
	}
	if m.focus >= len(view.Entries) {
		m.focus = len(view.Entries) - 1
	}
}

// Err returns the last error the user has not dismissed.
func (m Model) Err() error {
	return m.lastError
}

// CurrentView returns the last view received from the controller.
func (m Model) CurrentView() session.View {
	return m.view
}

// GroupFill reports whether the next digit fills the whole group.
func (m Model) GroupFill() bool {
	return m.groupFill
}

func (m Model) errorText() string {
	if m.lastError == nil {
		return ""
	}
	return common.UserMessage(m.lastError)
}

// digitGrade maps 1..9 to themselves and 0 to 10.
func digitGrade(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	if r == '0' {
		return 10, true
	}
	return int(r - '0'), true
}

func firstUngraded(entries []session.Entry) int {
	for i, e := range entries {
		if !e.Graded() {
			return i
		}
	}
	return 0
}
