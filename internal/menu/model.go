package menu

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// item is one numbered menu entry. Entries without a run function are
// handled by the model itself.
type item struct {
	key   string
	label string
	run   func(*Controller, context.Context) string
}

var items = []item{
	{key: "1", label: "Enter your root path"},
	{key: "2", label: "Build graph", run: (*Controller).Build},
	{key: "3", label: "Find the directory that has the most sub-directories", run: (*Controller).MostSubdirectories},
	{key: "4", label: "Find a directory that has a sub-directory with at least 1 executable file", run: (*Controller).SubdirWithExecutable},
	{key: "5", label: "Count how many subdirectories the root directory has", run: (*Controller).CountRootDescendants},
	{key: "6", label: "Find a directory with exactly 3 empty subdirectories", run: (*Controller).ThreeEmptySubdirectories},
	{key: "7", label: "Find 2 files with the same name in a directory and its subdirectory", run: (*Controller).SameNameFiles},
	{key: "8", label: "Reset database", run: (*Controller).Reset},
}

// KeyMap defines key bindings outside the numbered entries.
type KeyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var Keys = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// statusMsg carries the outcome of a menu action back to the model.
type statusMsg struct {
	text string
	ok   bool
}

// Model is the bubbletea model for the menu.
type Model struct {
	ctx      context.Context
	ctrl     *Controller
	input    textinput.Model
	entering bool
	busy     bool
	status   statusMsg
}

// NewModel creates a menu model. Actions run with ctx.
func NewModel(ctx context.Context, ctrl *Controller) *Model {
	input := textinput.New()
	input.Placeholder = "/path/to/root"
	input.Prompt = "root> "
	return &Model{ctx: ctx, ctrl: ctrl, input: input}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = msg
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		if m.entering {
			return m.updateInput(msg)
		}
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m.choose(msg.String())
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Submit):
		text := m.ctrl.SetRoot(m.input.Value())
		m.status = statusMsg{text: text, ok: text != MsgRootEmpty}
		m.entering = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, Keys.Cancel):
		m.entering = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) choose(choice string) (tea.Model, tea.Cmd) {
	for _, it := range items {
		if it.key != choice {
			continue
		}
		if it.run == nil {
			m.entering = true
			m.input.SetValue(m.ctrl.Root())
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
		m.busy = true
		run := it.run
		return m, func() tea.Msg {
			text := run(m.ctrl, m.ctx)
			return statusMsg{text: text, ok: !isFailure(text)}
		}
	}
	m.status = statusMsg{text: MsgUnknownChoice}
	return m, nil
}

func isFailure(text string) bool {
	return text == MsgBuildFailed || text == MsgConnectionFailed
}

// View renders the menu.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Welcome to the Workspace Graph program"))
	b.WriteString("\n")
	if root := m.ctrl.Root(); root != "" {
		b.WriteString(rootStyle.Render("root: " + root))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, it := range items {
		b.WriteString(fmt.Sprintf("%s %s\n", itemKeyStyle.Render(it.key+"."), itemStyle.Render(it.label)))
	}
	b.WriteString("\n")

	switch {
	case m.entering:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.busy:
		b.WriteString(busyStyle.Render("working..."))
		b.WriteString("\n")
	case m.status.text != "":
		style := statusErrStyle
		if m.status.ok {
			style = statusOKStyle
		}
		b.WriteString(style.Render(m.status.text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.entering {
		b.WriteString(fmt.Sprintf("%s %s  %s %s",
			helpKeyStyle.Render("enter"),
			helpDescStyle.Render("save"),
			helpKeyStyle.Render("esc"),
			helpDescStyle.Render("cancel"),
		))
	} else {
		b.WriteString(fmt.Sprintf("%s %s  %s %s",
			helpKeyStyle.Render("1-8"),
			helpDescStyle.Render("choose"),
			helpKeyStyle.Render("q"),
			helpDescStyle.Render("quit"),
		))
	}

	return appStyle.Render(b.String())
}

// Run starts the menu UI on the given terminal streams and blocks until the
// user quits or ctx is done.
func Run(ctx context.Context, ctrl *Controller, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(NewModel(ctx, ctrl),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}
