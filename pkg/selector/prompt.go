package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"golang.org/x/term"
)

const defaultTitle = "Select files to combine"

// keyMap holds the key bindings of the multi-select prompt
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "toggle")),
		ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.ToggleAll, k.Confirm, k.Cancel}
}

type promptStyles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	checked  lipgloss.Style
	label    lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
}

func newPromptStyles(noColor bool) promptStyles {
	if noColor {
		plain := lipgloss.NewStyle()
		return promptStyles{title: plain, cursor: plain, checked: plain, label: plain, selected: plain, help: plain}
	}
	return promptStyles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		checked:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		label:    lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Bold(true),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// promptModel is the Bubble Tea model behind TeaChooser
type promptModel struct {
	title   string
	labels  []string
	checked []bool
	cursor  int
	offset  int
	rows    int

	keys   keyMap
	styles promptStyles

	confirmed bool
	cancelled bool
}

func newPromptModel(title string, labels []string, noColor bool) promptModel {
	return promptModel{
		title:   title,
		labels:  labels,
		checked: lo.Map(labels, func(string, int) bool { return true }),
		rows:    len(labels),
		keys:    defaultKeyMap(),
		styles:  newPromptStyles(noColor),
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, blank line, help line
		m.rows = max(msg.Height-3, 1)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.labels)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = max(len(m.labels)-1, 0)
		case key.Matches(msg, m.keys.Toggle):
			if len(m.checked) > 0 {
				m.checked[m.cursor] = !m.checked[m.cursor]
			}
		case key.Matches(msg, m.keys.ToggleAll):
			all := lo.EveryBy(m.checked, func(c bool) bool { return c })
			for i := range m.checked {
				m.checked[i] = !all
			}
		}
		m.scroll()
	}

	return m, nil
}

// scroll keeps the cursor inside the visible window
func (m *promptModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
}

func (m promptModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(fmt.Sprintf("%s (%d/%d)", m.title, m.count(), len(m.labels))))
	b.WriteString("\n")

	end := min(m.offset+m.rows, len(m.labels))
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.cursor.Render("> ")
		}

		box := "[ ]"
		if m.checked[i] {
			box = m.styles.checked.Render("[x]")
		}

		label := m.styles.label.Render(m.labels[i])
		if i == m.cursor {
			label = m.styles.selected.Render(m.labels[i])
		}

		b.WriteString(cursor + box + " " + label + "\n")
	}

	helpItems := lo.Map(m.keys.help(), func(k key.Binding, _ int) string {
		return k.Help().Key + " " + k.Help().Desc
	})
	b.WriteString("\n" + m.styles.help.Render(strings.Join(helpItems, " • ")))

	return b.String()
}

func (m promptModel) count() int {
	return lo.Count(m.checked, true)
}

// chosen returns the checked indices in ascending order
func (m promptModel) chosen() []int {
	indices := make([]int, 0, len(m.checked))
	for i, c := range m.checked {
		if c {
			indices = append(indices, i)
		}
	}
	return indices
}

// quitOnEOF stops the program once a scripted input runs dry
type quitOnEOF struct {
	r    io.Reader
	quit func()
}

func (q *quitOnEOF) Read(p []byte) (int, error) {
	n, err := q.r.Read(p)
	if errors.Is(err, io.EOF) && q.quit != nil {
		q.quit()
	}
	return n, err
}

// TeaChooser is a terminal multi-select prompt built on Bubble Tea
type TeaChooser struct {
	// Title is shown above the list
	Title string

	// Input defaults to os.Stdin
	Input io.Reader

	// Output defaults to os.Stderr so stdout stays clean
	Output io.Writer

	// NoColor renders without styling
	NoColor bool
}

// Choose runs the prompt until the user confirms or cancels
func (c *TeaChooser) Choose(ctx context.Context, labels []string) ([]int, error) {
	if len(labels) == 0 {
		return []int{}, nil
	}

	title := c.Title
	if title == "" {
		title = defaultTitle
	}
	input := c.Input
	if input == nil {
		input = os.Stdin
	}
	output := c.Output
	if output == nil {
		output = os.Stderr
	}

	// a file must be a terminal; any other reader ends the prompt at EOF
	var eof *quitOnEOF
	if f, ok := input.(*os.File); ok {
		if !term.IsTerminal(int(f.Fd())) {
			return nil, ErrNotTerminal
		}
	} else {
		eof = &quitOnEOF{r: input}
		input = eof
	}

	program := tea.NewProgram(
		newPromptModel(title, labels, c.NoColor),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
	)
	if eof != nil {
		eof.quit = program.Quit
	}

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	model, ok := final.(promptModel)
	if !ok || model.cancelled || !model.confirmed {
		return nil, ErrCancelled
	}
	return model.chosen(), nil
}
