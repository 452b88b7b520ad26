package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/booksum/internal/book"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Interactive runs a terminal multi-select list.
type Interactive struct {
	In  io.Reader
	Out io.Writer
}

func (s *Interactive) options() []tea.ProgramOption {
	var opts []tea.ProgramOption
	if s.In != nil {
		opts = append(opts, tea.WithInput(s.In))
	}
	if s.Out != nil {
		opts = append(opts, tea.WithOutput(s.Out))
	}
	return opts
}

// SelectChapters shows every chapter with the preselected ones checked.
// Cancelling returns an empty selection.
func (s *Interactive) SelectChapters(all []book.ChapterInfo, preselected []int) ([]int, error) {
	final, err := tea.NewProgram(newSelectModel(all, preselected), s.options()...).Run()
	if err != nil {
		return nil, fmt.Errorf("chapter selection: %w", err)
	}
	m, ok := final.(selectModel)
	if !ok || m.cancelled {
		return []int{}, nil
	}
	return m.chosen(), nil
}

// Confirm asks a yes/no question; enter accepts the default of yes.
func (s *Interactive) Confirm(message string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{message: message, answer: true}, s.options()...).Run()
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok || m.cancelled {
		return false, nil
	}
	return m.answer, nil
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.ToggleAll, k.Confirm, k.Cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
	Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:    key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
}

type selectModel struct {
	chapters  []book.ChapterInfo
	checked   []bool
	cursor    int
	offset    int
	height    int
	keys      keyMap
	help      help.Model
	done      bool
	cancelled bool
}

func newSelectModel(all []book.ChapterInfo, preselected []int) selectModel {
	pre := make(map[int]bool, len(preselected))
	for _, idx := range preselected {
		pre[idx] = true
	}
	checked := make([]bool, len(all))
	for i, c := range all {
		checked[i] = pre[c.Index]
	}
	return selectModel{
		chapters: all,
		checked:  checked,
		height:   24,
		keys:     defaultKeys,
		help:     help.New(),
	}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			m.done = true
			return m, tea.Quit

		// Movement stops at either end of the list.
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.chapters)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Toggle):
			if len(m.checked) > 0 {
				m.checked[m.cursor] = !m.checked[m.cursor]
			}

		case key.Matches(msg, m.keys.ToggleAll):
			all := m.allChecked()
			for i := range m.checked {
				m.checked[i] = !all
			}
		}
		m.scroll()
		return m, nil

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	}
	return m, nil
}

// visibleRows is the list height left after the title and help lines.
func (m selectModel) visibleRows() int {
	if rows := m.height - 4; rows > 0 {
		return rows
	}
	return 1
}

func (m *selectModel) scroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m selectModel) allChecked() bool {
	for _, c := range m.checked {
		if !c {
			return false
		}
	}
	return len(m.checked) > 0
}

func (m selectModel) chosen() []int {
	out := make([]int, 0, len(m.chapters))
	for i, c := range m.chapters {
		if m.checked[i] {
			out = append(out, c.Index)
		}
	}
	return out
}

func (m selectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var sb strings.Builder
	count := len(m.chosen())
	sb.WriteString(titleStyle.Render("Select chapters to summarize"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d of %d selected", count, len(m.chapters))))
	sb.WriteString("\n\n")

	end := min(m.offset+m.visibleRows(), len(m.chapters))
	for i := m.offset; i < end; i++ {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if m.checked[i] {
			box = checkedStyle.Render("[x]")
		}
		sb.WriteString(pointer + box + " " + chapterLabel(m.chapters[i]) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// chapterLabel renders "NN. Title (W words)".
func chapterLabel(c book.ChapterInfo) string {
	return fmt.Sprintf("%02d. %s (%d words)", c.Index, c.Title, c.WordCount)
}

type confirmModel struct {
	message   string
	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.answer, m.done = true, true
		return m, tea.Quit
	case "n", "N":
		m.answer, m.done = false, true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "left", "right", "tab":
		m.answer = !m.answer
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	choice := "(Y/n)"
	if !m.answer {
		choice = "(y/N)"
	}
	return titleStyle.Render("? ") + m.message + " " + dimStyle.Render(choice) + "\n"
}
