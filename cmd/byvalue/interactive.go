package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/byvalue/engine"
	"github.com/wippyai/byvalue/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD166"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	engine   *engine.Engine
	info     layout.Info
	result   engine.Result
	inputs   []textinput.Model
	focusIdx int
	capacity uint32
}

type loadedMsg struct {
	err    error
	engine *engine.Engine
}

type callResultMsg struct {
	err    error
	result engine.Result
}

func newInteractiveModel(opts options) *interactiveModel {
	info := layout.ByValue()
	values := valuesFromRecord(info, opts.record)

	inputs := make([]textinput.Model, len(info.Slots))
	for i, s := range info.Slots {
		ti := textinput.New()
		ti.Placeholder = s.Kind.String()
		ti.Prompt = fmt.Sprintf("%-*s ", slotWidth(info), s.Path+":")
		ti.Width = 32
		ti.SetValue(values[i])
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}

	return &interactiveModel{
		info:     info,
		inputs:   inputs,
		capacity: uint32(opts.capacity),
	}
}

func slotWidth(info layout.Info) int {
	w := 0
	for _, s := range info.Slots {
		if len(s.Path)+1 > w {
			w = len(s.Path) + 1
		}
	}
	return w
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadEngine
}

func (m *interactiveModel) loadEngine() tea.Msg {
	e, err := engine.New(context.Background(), &engine.Config{OutputCapacity: m.capacity})
	return loadedMsg{engine: e, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.engine != nil {
				m.engine.Close(context.Background())
			}
			return m, tea.Quit

		case "tab", "down":
			m.moveFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil

		case "enter":
			return m, m.renderCmd()
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.engine = msg.engine
		return m, m.renderCmd()

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *interactiveModel) moveFocus(delta int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = (m.focusIdx + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focusIdx].Focus()
}

// renderCmd snapshots the form on the Update goroutine; the returned command
// runs on bubbletea's command goroutine and must not touch the model.
func (m *interactiveModel) renderCmd() tea.Cmd {
	e := m.engine
	info := m.info
	values := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		values[i] = strings.TrimSpace(input.Value())
	}

	return func() tea.Msg {
		if e == nil {
			return callResultMsg{err: fmt.Errorf("engine not loaded")}
		}
		bv, err := recordFromValues(info, values)
		if err != nil {
			return callResultMsg{err: err}
		}
		res, err := e.Call(context.Background(), bv)
		return callResultMsg{result: res, err: err}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("byvalue"))
	b.WriteString(fmt.Sprintf(" record %d bytes, align %d\n\n", m.info.Size, m.info.Align))

	for i, input := range m.inputs {
		s := m.info.Slots[i]
		b.WriteString(input.View())
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(fmt.Sprintf("%s @%d", s.Kind, s.Offset)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.engine == nil:
		b.WriteString("Loading engine...")
	default:
		b.WriteString(resultStyle.Render(m.result.Text))
		if m.result.Truncated {
			b.WriteString("\n")
			b.WriteString(warnStyle.Render(fmt.Sprintf("truncated at %d bytes", m.engine.Capacity())))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab/↑/↓ move • enter render • esc quit"))

	return b.String()
}

func runInteractive(opts options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
