package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/disasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// header and footer lines around the viewport
const chromeHeight = 4

type viewerKeys struct {
	up     key.Binding
	down   key.Binding
	top    key.Binding
	bottom key.Binding
	follow key.Binding
	quit   key.Binding
}

func defaultViewerKeys() viewerKeys {
	return viewerKeys{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		follow: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "follow target")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k viewerKeys) help() string {
	parts := make([]string, 0, 6)
	for _, b := range []key.Binding{k.up, k.down, k.top, k.bottom, k.follow, k.quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

type viewerModel struct {
	prog     *bytecode.Program
	filename string
	status   string
	keys     viewerKeys
	vp       viewport.Model
	cursor   int
	ready    bool
}

func newViewerModel(prog *bytecode.Program, filename string) *viewerModel {
	return &viewerModel{
		prog:     prog,
		filename: filename,
		keys:     defaultViewerKeys(),
	}
}

func (m *viewerModel) Init() tea.Cmd {
	return nil
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}

	case tea.KeyMsg:
		m.status = ""
		last := len(m.prog.Instructions) - 1
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.down):
			if m.cursor < last {
				m.cursor++
			}
		case key.Matches(msg, m.keys.top):
			m.cursor = 0
		case key.Matches(msg, m.keys.bottom):
			m.cursor = max(last, 0)
		case key.Matches(msg, m.keys.follow):
			m.follow()
		}
	}

	m.render()
	return m, nil
}

// follow moves the cursor to the label targeted by a Call or Jump.
func (m *viewerModel) follow() {
	if m.cursor >= len(m.prog.Instructions) {
		return
	}
	label, ok := m.prog.Instructions[m.cursor].Target()
	if !ok {
		m.status = "not a call or jump"
		return
	}
	idx, ok := m.prog.Labels[label]
	if !ok {
		m.status = fmt.Sprintf("unknown label `%d`", label)
		return
	}
	m.cursor = idx
}

func (m *viewerModel) render() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for i := range m.prog.Instructions {
		instr := &m.prog.Instructions[i]
		offset := 0
		if i < len(m.prog.Offsets) {
			offset = m.prog.Offsets[i]
		}
		prefix := fmt.Sprintf("0x%05x  ", offset)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + prefix + disasm.Format(instr, disasm.Options{})))
		} else {
			b.WriteString("  " + prefix + disasm.Format(instr, disasm.Options{Color: true}))
		}
		b.WriteByte('\n')
	}
	m.vp.SetContent(b.String())

	switch {
	case m.cursor < m.vp.YOffset:
		m.vp.SetYOffset(m.cursor)
	case m.cursor >= m.vp.YOffset+m.vp.Height:
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m *viewerModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("stacked"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %d instructions, %d labels\n\n", len(m.prog.Instructions), len(m.prog.Labels)))
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(helpStyle.Render(m.keys.help()))
	}
	return b.String()
}

func runInteractive(prog *bytecode.Program, filename string) error {
	p := tea.NewProgram(newViewerModel(prog, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
