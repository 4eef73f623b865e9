package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/ui/styles"
)

// DashboardView shows note and todo counts
type DashboardView struct {
	ctrl   *controller.Dashboard
	styles *styles.Styles

	width  int
	height int

	stats  controller.Stats
	loaded bool
}

func NewDashboardView(ctrl *controller.Dashboard) *DashboardView {
	return &DashboardView{ctrl: ctrl, styles: styles.NewStyles()}
}

type statsLoadedMsg struct {
	stats controller.Stats
}

func (v *DashboardView) Init() tea.Cmd {
	return v.loadStats
}

func (v *DashboardView) loadStats() tea.Msg {
	stats, err := v.ctrl.Stats(context.Background())
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return statsLoadedMsg{stats: stats}
}

func (v *DashboardView) Capturing() bool { return false }

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case statsLoadedMsg:
		v.stats = msg.stats
		v.loaded = true
	case tea.KeyMsg:
		if msg.String() == "r" {
			return v, v.loadStats
		}
	}
	return v, nil
}

func (v *DashboardView) View() string {
	s := v.styles
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	st := v.stats
	card := func(label string, value any) string {
		return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render(label),
			s.StatValue.Render(fmt.Sprint(value)),
		))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Notes", st.Notes),
		card("Todos", st.Todos.Total),
		card("Completed", st.Todos.Completed),
		card("Pending", st.Todos.Pending),
	)

	barWidth := styles.Clamp(styles.ContentWidth(v.width)-20, 10, 50)
	rate := lipgloss.JoinVertical(lipgloss.Left,
		s.TitleMuted.Render("Completion rate"),
		styles.ProgressBar(st.Todos.Percent, barWidth)+" "+s.StatValue.Render(fmt.Sprintf("%d%%", st.Todos.Percent)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("AI Notes"),
		s.TitleMuted.Render(st.Date+" "+st.Weekday),
		"",
		cards,
		"",
		rate,
		"",
		helpLine(s, "2", "notes", "3", "todos", "4", "projects", "5", "chat", "r", "refresh", "q", "quit"),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}
