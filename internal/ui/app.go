package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/db"
	"github.com/tgienger/ainotes/internal/storage"
	"github.com/tgienger/ainotes/internal/ui/keys"
	"github.com/tgienger/ainotes/internal/ui/styles"
	"github.com/tgienger/ainotes/internal/ui/views"
)

// KeyLastView stores the view shown when the app last switched pages
const KeyLastView = "ai-notes-last-view"

// View identifies a top level page
type View int

const (
	ViewDashboard View = iota
	ViewNotes
	ViewTodos
	ViewProjects
	ViewChat
	viewCount
)

var viewNames = [viewCount]string{"dashboard", "notes", "todos", "projects", "chat"}
var viewTitles = [viewCount]string{"Dashboard", "Notes", "Todos", "Projects", "Chat"}

func (v View) String() string {
	if v < 0 || v >= viewCount {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView maps a stored view name back to its View
func ParseView(s string) (View, bool) {
	for i, name := range viewNames {
		if name == s {
			return View(i), true
		}
	}
	return ViewDashboard, false
}

// header and footer lines around the page
const chromeHeight = 3

type App struct {
	store   db.Store
	pages   [viewCount]views.Page
	current View
	keys    keys.KeyMap
	styles  *styles.Styles
	log     log.FieldLogger

	width  int
	height int

	err    error
	status string
}

// NewApp builds the application on top of the controllers. store keeps the
// last active view.
func NewApp(store db.Store, c *controller.Controllers, logger log.FieldLogger) *App {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &App{
		store:   store,
		current: ViewDashboard,
		keys:    keys.DefaultKeyMap(),
		styles:  styles.NewStyles(),
		log:     logger.WithField("component", "ui"),
		pages: [viewCount]views.Page{
			ViewDashboard: views.NewDashboardView(c.Dashboard),
			ViewNotes:     views.NewNoteListView(c.Notes),
			ViewTodos:     views.NewTodoListView(c.Todos),
			ViewProjects:  views.NewProjectListView(c.Projects),
			ViewChat:      views.NewChatView(c.Chat),
		},
	}
}

// Current returns the active view
func (a *App) Current() View { return a.current }

func (a *App) Init() tea.Cmd {
	last, ok, err := a.store.Get(context.Background(), KeyLastView)
	if err != nil {
		a.log.WithError(err).Warn("read last view")
	}
	if ok {
		if v, known := ParseView(last); known {
			a.current = v
		}
	}

	cmds := make([]tea.Cmd, 0, viewCount)
	for _, p := range a.pages {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) switchTo(v View) tea.Cmd {
	if v == a.current {
		return nil
	}
	a.current = v
	a.status = ""
	return tea.Batch(a.pages[v].Init(), a.saveLastView(v))
}

func (a *App) saveLastView(v View) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Set(context.Background(), KeyLastView, v.String()); err != nil {
			a.log.WithError(err).Warn("save last view")
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-chromeHeight, 0)}
		return a, a.broadcast(inner)

	case views.ErrorMsg:
		a.err = msg.Err
		a.log.WithError(msg.Err).WithField("view", a.current.String()).Warn("action failed")
		return a, nil

	case views.StatusMsg:
		a.status = string(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.err != nil {
			a.err = nil
			return a, nil
		}
		a.status = ""

		page := a.pages[a.current]
		if !page.Capturing() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.Dashboard):
				return a, a.switchTo(ViewDashboard)
			case key.Matches(msg, a.keys.Notes):
				return a, a.switchTo(ViewNotes)
			case key.Matches(msg, a.keys.Todos):
				return a, a.switchTo(ViewTodos)
			case key.Matches(msg, a.keys.Projects):
				return a, a.switchTo(ViewProjects)
			case key.Matches(msg, a.keys.Chat):
				return a, a.switchTo(ViewChat)
			}
		}
		_, cmd := page.Update(msg)
		return a, cmd
	}

	// results of commands go to every page, each picks its own messages
	return a, a.broadcast(msg)
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, viewCount)
	for _, p := range a.pages {
		_, cmd := p.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) View() string {
	body := a.pages[a.current].View()
	if a.err != nil {
		body = a.renderError()
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), body, a.renderStatus())
}

func (a *App) renderTabs() string {
	s := a.styles
	tabs := make([]string, 0, viewCount)
	for i, title := range viewTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if View(i) == a.current {
			tabs = append(tabs, s.TabActive.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	rule := s.TitleMuted.Render(strings.Repeat("─", max(styles.ContentWidth(a.width), lipgloss.Width(bar))))
	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, bar, rule), a.width, 0)
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	return a.styles.Status.Render(a.status)
}

func (a *App) renderError() string {
	s := a.styles
	title := "Something went wrong"
	if errors.Is(a.err, storage.ErrCorrupt) {
		title = "Stored data could not be read"
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		lipgloss.NewStyle().Width(styles.Clamp(styles.ContentWidth(a.width)-10, 20, 60)).Align(lipgloss.Center).Render(a.err.Error()),
		"",
		s.TitleMuted.Render("Press any key to continue"),
	)
	return lipgloss.Place(styles.ContentWidth(a.width), max(a.height-chromeHeight, 0),
		lipgloss.Center, lipgloss.Center,
		s.Box.BorderForeground(styles.Current.Error).Render(content),
	)
}
