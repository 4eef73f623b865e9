package views

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/ui/keys"
	"github.com/tgienger/ainotes/internal/ui/styles"
)

const sidebarWidth = 24

// ChatView shows chat sessions, the selected transcript and an input box
type ChatView struct {
	ctrl   *controller.Chat
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int
	loaded bool

	sessions []models.ChatSession
	session  models.ChatSession

	transcript viewport.Model
	input      textarea.Model
	typing     bool

	// pending is the message being sent to pendingID, shown until the reply arrives
	pending   string
	pendingID string
	spinner spinner.Model

	confirm       confirm
	showHelpPopup bool
}

func NewChatView(ctrl *controller.Chat) *ChatView {
	input := textarea.New()
	input.Placeholder = "Ask anything... (enter to send, alt+enter for a new line)"
	input.CharLimit = 4000
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.SetWidth(60)
	input.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &ChatView{
		ctrl:       ctrl,
		styles:     styles.NewStyles(),
		keys:       keys.DefaultKeyMap(),
		transcript: viewport.New(60, 10),
		input:      input,
		spinner:    sp,
	}
}

type sessionsLoadedMsg struct {
	sessions []models.ChatSession
	selected models.ChatSession
}

// chatSentMsg ends a send to sessionID. On error the session is unchanged.
type chatSentMsg struct {
	sessionID string
	text      string
	sessions []models.ChatSession
	selected models.ChatSession
	err      error
}

func (v *ChatView) Init() tea.Cmd {
	return v.loadSessions
}

func (v *ChatView) loadSessions() tea.Msg {
	if err := v.ctrl.Load(context.Background()); err != nil {
		return ErrorMsg{Err: err}
	}
	return v.snapshot()
}

func (v *ChatView) snapshot() sessionsLoadedMsg {
	selected, _ := v.ctrl.Selected()
	return sessionsLoadedMsg{sessions: v.ctrl.Items(), selected: selected}
}

func (v *ChatView) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return ErrorMsg{Err: err}
		}
		return v.snapshot()
	}
}

func (v *ChatView) Capturing() bool {
	return v.typing || v.confirm.active || v.showHelpPopup
}

func (v *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.resize()
		return v, nil

	case sessionsLoadedMsg:
		v.loaded = true
		v.sessions = msg.sessions
		v.showSession(msg.selected)
		return v, nil

	case chatSentMsg:
		v.pending = ""
		v.pendingID = ""
		v.sessions = msg.sessions
		v.showSession(msg.selected)
		if msg.err != nil {
			// the draft of another session waits in the controller until it is shown again
			if msg.sessionID == "" || msg.sessionID == v.session.ID {
				draft := v.ctrl.Draft(msg.sessionID)
				if draft == "" {
					draft = msg.text
				}
				v.input.SetValue(draft)
				v.input.CursorEnd()
			}
			return v, fail(msg.err)
		}
		return v, nil

	case spinner.TickMsg:
		if v.pending == "" {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.refreshTranscript()
		return v, cmd

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
		if key.Matches(msg, v.keys.Model) {
			return v, v.cycleModel()
		}
		if v.typing {
			return v.updateTyping(msg)
		}
		return v.updateSessions(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *ChatView) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		return v, v.moveSelection(-1)
	case key.Matches(msg, v.keys.Down):
		return v, v.moveSelection(1)
	case key.Matches(msg, v.keys.New):
		return v, v.run(func(ctx context.Context) error {
			_, err := v.ctrl.Create(ctx)
			return err
		})
	case key.Matches(msg, v.keys.Delete):
		if v.session.ID != "" {
			v.confirm.ask(v.session.ID, v.session.Title)
		}
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Tab):
		v.typing = true
		return v, v.input.Focus()
	case msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return v, nil
}

func (v *ChatView) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Tab):
		v.typing = false
		v.input.Blur()
		return v, nil
	case msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	case key.Matches(msg, v.keys.Enter):
		return v, v.send()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *ChatView) send() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.pending != "" || v.ctrl.Busy() {
		return nil
	}
	id := v.session.ID
	v.pending = text
	v.pendingID = id
	v.input.Reset()
	v.refreshTranscript()

	send := func() tea.Msg {
		ctx := context.Background()
		sessionID := id
		if sessionID == "" {
			session, err := v.ctrl.Create(ctx)
			if err != nil {
				snap := v.snapshot()
				return chatSentMsg{text: text, sessions: snap.sessions, selected: snap.selected, err: err}
			}
			sessionID = session.ID
		}
		_, err := v.ctrl.SendTo(ctx, sessionID, text)
		snap := v.snapshot()
		return chatSentMsg{sessionID: sessionID, text: text, sessions: snap.sessions, selected: snap.selected, err: err}
	}
	return tea.Batch(send, v.spinner.Tick)
}

func (v *ChatView) moveSelection(delta int) tea.Cmd {
	if len(v.sessions) == 0 {
		return nil
	}
	i := slices.IndexFunc(v.sessions, func(s models.ChatSession) bool { return s.ID == v.session.ID })
	i = styles.Clamp(i+delta, 0, len(v.sessions)-1)
	if !v.ctrl.Select(v.sessions[i].ID) {
		return nil
	}
	v.showSession(v.sessions[i])
	return nil
}

func (v *ChatView) cycleModel() tea.Cmd {
	if v.session.ID == "" {
		return nil
	}
	current := v.ctrl.Model(v.session.ID)
	i := slices.IndexFunc(ai.Models, func(m ai.Model) bool { return m.ID == current })
	next := ai.Models[(i+1)%len(ai.Models)]
	if err := v.ctrl.SetModel(v.session.ID, next.ID); err != nil {
		return fail(err)
	}
	return status("Model: %s", next.Name)
}

func (v *ChatView) showSession(s models.ChatSession) {
	switched := s.ID != v.session.ID
	v.session = s
	if switched && !v.typing {
		v.input.SetValue(v.ctrl.Draft(s.ID))
	}
	v.refreshTranscript()
}

func (v *ChatView) resize() {
	mainWidth := max(styles.ContentWidth(v.width)-sidebarWidth-4, 20)
	v.input.SetWidth(mainWidth - 4)
	v.transcript.Width = mainWidth
	v.transcript.Height = max(v.height-14, 3)
	v.refreshTranscript()
}

func (v *ChatView) refreshTranscript() {
	s := v.styles
	width := max(v.transcript.Width-4, 10)

	var blocks []string
	pending := v.pending != "" && (v.pendingID == "" || v.pendingID == v.session.ID)
	if len(v.session.Messages) == 0 && !pending {
		blocks = append(blocks, s.TitleMuted.Render("Start the conversation below."))
	}
	for _, m := range v.session.Messages {
		blocks = append(blocks, v.renderMessage(m.Role, m.Content, width))
	}
	if pending {
		blocks = append(blocks,
			v.renderMessage(models.RoleUser, v.pending, width),
			s.TitleMuted.Render(v.spinner.View()+" Thinking..."),
		)
	}

	v.transcript.SetContent(strings.Join(blocks, "\n\n"))
	v.transcript.GotoBottom()
}

func (v *ChatView) renderMessage(role models.Role, content string, width int) string {
	s := v.styles
	if role == models.RoleUser {
		bubble := s.UserMessage.Width(min(lipgloss.Width(content)+2, width)).Render(content)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}
	return s.AssistantMessage.Width(width).Render(content)
}

func (v *ChatView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return helpPopup(s, v.width, v.height,
			"↵/tab", "write a message",
			"↵", "send (while typing)",
			"alt+↵", "new line",
			"esc", "back to sessions",
			"n", "new session",
			"d", "delete session",
			"↑/↓", "switch session",
			"ctrl+o", "switch model",
			"pgup/dn", "scroll transcript",
		)
	}
	if v.confirm.active {
		return deleteConfirm(s, v.width, v.height, "Chat", v.confirm.name)
	}
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.transcript.View(),
		v.renderInput(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, v.renderSidebar(), " ", main)
	return styles.CenterView(body, v.width, v.height)
}

func (v *ChatView) renderHeader() string {
	s := v.styles
	title := v.session.Title
	if title == "" {
		title = controller.NewSessionTitle
	}
	model := ai.DefaultModel
	if v.session.ID != "" {
		model = v.ctrl.Model(v.session.ID)
	}
	name := model
	if m, ok := ai.LookupModel(model); ok {
		name = m.Name
	}
	return s.Title.Render(truncateWidth(title, v.transcript.Width-20)) + "  " + s.TitleMuted.Render(name)
}

func (v *ChatView) renderSidebar() string {
	s := v.styles
	rows := []string{s.Title.Render("Chats"), ""}
	if len(v.sessions) == 0 {
		rows = append(rows, s.TitleMuted.Render("n: new chat"))
	}
	for _, sess := range v.sessions {
		style := s.ListItem.Padding(0, 1)
		if sess.ID == v.session.ID {
			style = s.ListSelected.Padding(0, 1)
		}
		rows = append(rows, style.Width(sidebarWidth-2).Render(truncateWidth(sess.Title, sidebarWidth-4)))
	}
	return s.Box.Width(sidebarWidth).Height(max(v.height-6, 5)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *ChatView) renderInput() string {
	s := v.styles
	style := s.Input
	if v.typing {
		style = s.InputFocused
	}

	var help string
	switch {
	case v.pending != "":
		help = s.Status.Render(v.spinner.View() + " Waiting for reply...")
	case v.typing:
		help = helpLine(s, "↵", "send", "alt+↵", "newline", "ctrl+o", "model", "esc", "sessions")
	default:
		help = helpLine(s, "↵", "type", "n", "new", "d", "del", "↑/↓", "switch", "?", "help")
	}
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(v.input.View()), help)
}
