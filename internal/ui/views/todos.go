package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/ui/keys"
	"github.com/tgienger/ainotes/internal/ui/styles"
)

// TodoListView is a checklist with an input line for new items
type TodoListView struct {
	ctrl   *controller.Todos
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	todos   []models.Todo
	stats   controller.TodoStats
	cursor  int
	scrollY int
	loaded  bool

	// input is used both for new todos and for renaming
	input      textinput.Model
	typing     bool
	renamingID string

	confirm       confirm
	showHelpPopup bool
}

func NewTodoListView(ctrl *controller.Todos) *TodoListView {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200

	return &TodoListView{
		ctrl:   ctrl,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		input:  input,
	}
}

type todosLoadedMsg struct {
	todos []models.Todo
	stats controller.TodoStats
}

func (v *TodoListView) Init() tea.Cmd {
	return v.loadTodos
}

func (v *TodoListView) loadTodos() tea.Msg {
	if err := v.ctrl.Load(context.Background()); err != nil {
		return ErrorMsg{Err: err}
	}
	return v.snapshot()
}

func (v *TodoListView) snapshot() tea.Msg {
	return todosLoadedMsg{todos: v.ctrl.Items(), stats: v.ctrl.Stats()}
}

// run performs a mutation and reports the refreshed list
func (v *TodoListView) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return ErrorMsg{Err: err}
		}
		return v.snapshot()
	}
}

func (v *TodoListView) Capturing() bool {
	return v.typing || v.confirm.active || v.showHelpPopup
}

func (v *TodoListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.input.Width = styles.Clamp(styles.ContentWidth(v.width)-10, 20, 70)
		return v, nil

	case todosLoadedMsg:
		v.todos = msg.todos
		v.stats = msg.stats
		v.loaded = true
		if v.cursor >= len(v.todos) {
			v.cursor = max(0, len(v.todos)-1)
		}
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirm.active {
			if id, yes := v.confirm.answer(msg); yes {
				return v, v.run(func(ctx context.Context) error { return v.ctrl.Remove(ctx, id) })
			}
			return v, nil
		}
		if v.typing {
			return v.updateTyping(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *TodoListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.todos)-1 {
			v.cursor++
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.New):
		v.startTyping("", "")
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.current(); ok {
			v.startTyping(t.ID, t.Title)
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if t, ok := v.current(); ok {
			return v, v.run(func(ctx context.Context) error {
				_, err := v.ctrl.Toggle(ctx, t.ID)
				return err
			})
		}
	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.current(); ok {
			v.confirm.ask(t.ID, t.Title)
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return v, nil
}

func (v *TodoListView) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.stopTyping()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		title := strings.TrimSpace(v.input.Value())
		id := v.renamingID
		v.stopTyping()
		if title == "" {
			return v, nil
		}
		if id != "" {
			return v, v.run(func(ctx context.Context) error {
				_, err := v.ctrl.Rename(ctx, id, title)
				return err
			})
		}
		v.cursor = len(v.todos)
		return v, v.run(func(ctx context.Context) error {
			_, err := v.ctrl.Add(ctx, title)
			return err
		})
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *TodoListView) startTyping(id, value string) {
	v.typing = true
	v.renamingID = id
	v.input.SetValue(value)
	v.input.CursorEnd()
	v.input.Focus()
}

func (v *TodoListView) stopTyping() {
	v.typing = false
	v.renamingID = ""
	v.input.Reset()
	v.input.Blur()
}

func (v *TodoListView) current() (models.Todo, bool) {
	if v.cursor < 0 || v.cursor >= len(v.todos) {
		return models.Todo{}, false
	}
	return v.todos[v.cursor], true
}

func (v *TodoListView) visibleItems() int {
	return max(v.height-14, 1)
}

func (v *TodoListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TodoListView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return helpPopup(s, v.width, v.height,
			"n", "new todo",
			"e", "rename",
			"space", "toggle done",
			"d", "delete",
			"↑/↓", "move",
			"1-5", "switch view",
			"q", "quit",
		)
	}
	if v.confirm.active {
		return deleteConfirm(s, v.width, v.height, "Todo", v.confirm.name)
	}
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	inputStyle := s.Input
	if v.typing {
		inputStyle = s.InputFocused
	}
	label := "New todo"
	if v.renamingID != "" {
		label = "Rename"
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Todos"),
		s.TitleMuted.Render(fmt.Sprintf("%d done • %d pending • %d%%", v.stats.Completed, v.stats.Pending, v.stats.Percent)),
		"",
		s.TitleMuted.Render(label+":"),
		inputStyle.Render(v.input.View()),
	)

	var help string
	if v.typing {
		help = helpLine(s, "↵", "save", "esc", "cancel")
	} else {
		help = helpLine(s, "n", "new", "space", "toggle", "e", "rename", "d", "del", "?", "help")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", v.renderList(), help)
	return styles.CenterView(lipgloss.NewStyle().Padding(0, 1).Render(content), v.width, v.height)
}

func (v *TodoListView) renderList() string {
	s := v.styles
	if len(v.todos) == 0 {
		return s.TitleMuted.Render("No todos yet. Press 'n' to add one.")
	}

	width := max(styles.ContentWidth(v.width)-6, 20)
	end := min(v.scrollY+v.visibleItems(), len(v.todos))

	var rows []string
	for i := v.scrollY; i < end; i++ {
		t := v.todos[i]
		box := "[ ]"
		title := t.Title
		if t.Completed {
			box = "[x]"
			title = s.Done.Render(title)
		}
		line := box + " " + title

		style := s.ListItem
		if i == v.cursor && !v.typing {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
