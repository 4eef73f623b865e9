package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ainotes/internal/ui/styles"
)

// Page is a top level view. Capturing reports whether keystrokes currently
// belong to a text field or prompt, in which case the app leaves them alone.
type Page interface {
	tea.Model
	Capturing() bool
}

// ErrorMsg asks the app to show an error modal
type ErrorMsg struct {
	Err error
}

// StatusMsg is a short notice shown in the footer
type StatusMsg string

func fail(err error) tea.Cmd {
	return func() tea.Msg { return ErrorMsg{Err: err} }
}

func status(format string, args ...any) tea.Cmd {
	return func() tea.Msg { return StatusMsg(fmt.Sprintf(format, args...)) }
}

// helpLine renders "key desc • key desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func helpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		lines = append(lines, s.HelpKey.Render(fmt.Sprintf("%-8s", pairs[i]))+pairs[i+1])
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))

	return lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		s.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
}

func deleteConfirm(s *styles.Styles, width, height int, what, name string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete "+what+"?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will be removed permanently.", name)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// confirm holds a pending y/n delete prompt
type confirm struct {
	active bool
	id     string
	name   string
}

func (c *confirm) ask(id, name string) {
	*c = confirm{active: true, id: id, name: name}
}

// answer resolves the prompt. It reports the target id when the user said yes.
func (c *confirm) answer(msg tea.KeyMsg) (id string, yes bool) {
	switch msg.String() {
	case "y", "Y":
		id := c.id
		*c = confirm{}
		return id, true
	case "n", "N", "esc":
		*c = confirm{}
	}
	return "", false
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// parseDate reads a local YYYY-MM-DD date. Empty input yields nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	t = t.UTC()
	return &t, nil
}

func truncateWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
