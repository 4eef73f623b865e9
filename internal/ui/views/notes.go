package views

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/ui/keys"
	"github.com/tgienger/ainotes/internal/ui/styles"
)

// note editor fields in tab order
const (
	noteFieldTitle = iota
	noteFieldTags
	noteFieldContent
	noteFieldCount
)

// NoteListView lists notes and edits the selected one
type NoteListView struct {
	ctrl   *controller.Notes
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	notes   []models.Note
	cursor  int
	scrollY int
	loaded  bool

	search    textinput.Model
	searching bool

	editing   bool
	editTitle textinput.Model
	editTags  textinput.Model
	editBody  textarea.Model
	focusIdx  int

	// busy is set while an AI helper runs
	busy    bool
	spinner spinner.Model

	confirm       confirm
	showHelpPopup bool
}

func NewNoteListView(ctrl *controller.Notes) *NoteListView {
	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.CharLimit = 100

	title := textinput.New()
	title.Placeholder = "Title (defaults to the first line of content)"
	title.CharLimit = 200

	tags := textinput.New()
	tags.Placeholder = "tag1, tag2"
	tags.CharLimit = 300

	body := textarea.New()
	body.Placeholder = "Write something..."
	body.CharLimit = 0
	body.ShowLineNumbers = false
	body.SetWidth(60)
	body.SetHeight(10)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &NoteListView{
		ctrl:      ctrl,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		search:    search,
		editTitle: title,
		editTags:  tags,
		editBody:  body,
		spinner:   sp,
	}
}

type notesLoadedMsg struct {
	notes []models.Note
}

// noteSavedMsg carries the stored note after a save or an AI helper
type noteSavedMsg struct {
	note  models.Note
	notes []models.Note
	info  string
}

// noteAIFailedMsg ends a failed AI helper. The editor keeps its contents.
type noteAIFailedMsg struct {
	err error
}

func (v *NoteListView) Init() tea.Cmd {
	return v.loadNotes
}

func (v *NoteListView) loadNotes() tea.Msg {
	if err := v.ctrl.Load(context.Background()); err != nil {
		return ErrorMsg{Err: err}
	}
	return notesLoadedMsg{notes: v.ctrl.Search(v.search.Value())}
}

func (v *NoteListView) Capturing() bool {
	return v.editing || v.searching || v.confirm.active || v.showHelpPopup
}

func (v *NoteListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := styles.Clamp(styles.ContentWidth(v.width)-10, 20, 90)
		v.editTitle.Width = inputWidth
		v.editTags.Width = inputWidth
		v.search.Width = styles.Clamp(inputWidth, 10, 40)
		v.editBody.SetWidth(inputWidth)
		v.editBody.SetHeight(max(v.height-20, 4))
		return v, nil

	case notesLoadedMsg:
		v.notes = msg.notes
		v.loaded = true
		if v.cursor >= len(v.notes) {
			v.cursor = max(0, len(v.notes)-1)
		}
		v.ensureVisible()
		return v, nil

	case noteCreatedMsg:
		v.search.Reset()
		v.notes = msg.notes
		v.loaded = true
		v.cursor = max(0, slices.IndexFunc(v.notes, func(n models.Note) bool { return n.ID == msg.note.ID }))
		v.ensureVisible()
		v.startEditing(msg.note)
		return v, textinput.Blink

	case noteSavedMsg:
		v.busy = false
		v.notes = msg.notes
		v.setDraft(controller.DraftOf(msg.note))
		if msg.info != "" {
			return v, status("%s", msg.info)
		}
		return v, nil

	case noteAIFailedMsg:
		v.busy = false
		return v, fail(msg.err)

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirm.active {
			if id, yes := v.confirm.answer(msg); yes {
				return v, v.remove(id)
			}
			return v, nil
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.searching {
			return v.updateSearching(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *NoteListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.notes)-1 {
			v.cursor++
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.search.Focus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Back):
		if v.search.Value() != "" {
			v.search.Reset()
			return v, v.loadNotes
		}
	case key.Matches(msg, v.keys.New):
		return v, v.create
	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Edit):
		if n, ok := v.current(); ok && v.ctrl.Select(n.ID) {
			v.startEditing(n)
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Delete):
		if n, ok := v.current(); ok {
			v.confirm.ask(n.ID, noteLabel(n))
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return v, nil
}

func (v *NoteListView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.search.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.cursor = 0
	v.scrollY = 0
	return v, tea.Batch(cmd, v.filter)
}

func (v *NoteListView) filter() tea.Msg {
	return notesLoadedMsg{notes: v.ctrl.Search(v.search.Value())}
}

func (v *NoteListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.busy {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.stopEditing()
		return v, v.loadNotes
	case key.Matches(msg, v.keys.Save):
		return v, v.save
	case key.Matches(msg, v.keys.Polish):
		return v, v.startAI(v.ctrl.Polish, "Content polished")
	case key.Matches(msg, v.keys.Tags):
		return v, v.startAI(v.ctrl.GenerateTags, "Tags generated")
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % noteFieldCount
		v.updateFocus()
		return v, nil
	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + noteFieldCount - 1) % noteFieldCount
		v.updateFocus()
		return v, nil
	case key.Matches(msg, v.keys.Enter) && v.focusIdx != noteFieldContent:
		v.focusIdx++
		v.updateFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case noteFieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case noteFieldTags:
		v.editTags, cmd = v.editTags.Update(msg)
	case noteFieldContent:
		v.editBody, cmd = v.editBody.Update(msg)
	}
	return v, cmd
}

func (v *NoteListView) draft() controller.NoteDraft {
	return controller.NoteDraft{
		Title:   v.editTitle.Value(),
		Content: v.editBody.Value(),
		Tags:    v.editTags.Value(),
	}
}

func (v *NoteListView) setDraft(d controller.NoteDraft) {
	v.editTitle.SetValue(d.Title)
	v.editTags.SetValue(d.Tags)
	v.editBody.SetValue(d.Content)
}

func (v *NoteListView) create() tea.Msg {
	note, err := v.ctrl.Create(context.Background())
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return noteCreatedMsg{note: note, notes: v.ctrl.Items()}
}

type noteCreatedMsg struct {
	note  models.Note
	notes []models.Note
}

func (v *NoteListView) save() tea.Msg {
	note, err := v.ctrl.Save(context.Background(), v.draft())
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return noteSavedMsg{note: note, notes: v.ctrl.Search(v.search.Value()), info: "Saved"}
}

func (v *NoteListView) startAI(fn func(context.Context, controller.NoteDraft) (models.Note, error), info string) tea.Cmd {
	draft := v.draft()
	if strings.TrimSpace(draft.Content) == "" {
		return fail(controller.ErrEmptyContent)
	}
	v.busy = true
	run := func() tea.Msg {
		note, err := fn(context.Background(), draft)
		if err != nil {
			return noteAIFailedMsg{err: err}
		}
		return noteSavedMsg{note: note, notes: v.ctrl.Search(v.search.Value()), info: info}
	}
	return tea.Batch(run, v.spinner.Tick)
}

func (v *NoteListView) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if err := v.ctrl.Remove(context.Background(), id); err != nil {
			return ErrorMsg{Err: err}
		}
		return notesLoadedMsg{notes: v.ctrl.Search(v.search.Value())}
	}
}

func (v *NoteListView) startEditing(n models.Note) {
	v.editing = true
	v.focusIdx = noteFieldContent
	if n.Title == "" {
		v.focusIdx = noteFieldTitle
	}
	v.setDraft(controller.DraftOf(n))
	v.updateFocus()
}

func (v *NoteListView) stopEditing() {
	v.editing = false
	v.editTitle.Blur()
	v.editTags.Blur()
	v.editBody.Blur()
}

func (v *NoteListView) updateFocus() {
	v.editTitle.Blur()
	v.editTags.Blur()
	v.editBody.Blur()
	switch v.focusIdx {
	case noteFieldTitle:
		v.editTitle.Focus()
	case noteFieldTags:
		v.editTags.Focus()
	case noteFieldContent:
		v.editBody.Focus()
	}
}

func (v *NoteListView) current() (models.Note, bool) {
	if v.cursor < 0 || v.cursor >= len(v.notes) {
		return models.Note{}, false
	}
	return v.notes[v.cursor], true
}

func noteLabel(n models.Note) string {
	if n.Title != "" {
		return n.Title
	}
	return "Untitled"
}

// Each note takes 2 lines plus spacing
func (v *NoteListView) visibleItems() int {
	return max((v.height-12)/3, 1)
}

func (v *NoteListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *NoteListView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return helpPopup(s, v.width, v.height,
			"n", "new note",
			"↵/e", "open note",
			"d", "delete note",
			"/", "search",
			"ctrl+s", "save (editor)",
			"ctrl+p", "polish with AI",
			"ctrl+t", "suggest tags",
			"tab", "next field",
			"esc", "back",
		)
	}
	if v.confirm.active {
		return deleteConfirm(s, v.width, v.height, "Note", v.confirm.name)
	}
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}
	if v.editing {
		return v.renderEditor()
	}

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Notes"),
		searchStyle.Render(v.search.View()),
		"",
		v.renderList(),
		helpLine(s, "↵", "open", "n", "new", "d", "del", "/", "search", "?", "help"),
	)
	return styles.CenterView(lipgloss.NewStyle().Padding(0, 1).Render(content), v.width, v.height)
}

func (v *NoteListView) renderList() string {
	s := v.styles
	if len(v.notes) == 0 {
		if v.search.Value() != "" {
			return s.TitleMuted.Render("No matching notes.")
		}
		return s.TitleMuted.Render("No notes yet. Press 'n' to write one.")
	}

	width := max(styles.ContentWidth(v.width)-6, 20)
	end := min(v.scrollY+v.visibleItems(), len(v.notes))

	var rows []string
	for i := v.scrollY; i < end; i++ {
		n := v.notes[i]
		selected := i == v.cursor && !v.searching

		style := s.ListItem
		if selected {
			style = s.ListSelected
		}
		preview := strings.Join(strings.Fields(n.Content), " ")
		meta := n.UpdatedAt.In(time.Local).Format("2006-01-02 15:04")
		if len(n.Tags) > 0 {
			meta += "  #" + strings.Join(n.Tags, " #")
		}

		rows = append(rows,
			style.Width(width).Render(truncateWidth(noteLabel(n), width-4)),
			style.Width(width).Foreground(styles.Current.ForegroundDim).Render(truncateWidth(meta+"  "+preview, width-4)),
			"",
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *NoteListView) renderEditor() string {
	s := v.styles

	fieldStyles := [noteFieldCount]lipgloss.Style{s.Input, s.Input, s.Input}
	fieldStyles[v.focusIdx] = s.InputFocused

	var footer string
	if v.busy {
		footer = s.Status.Render(v.spinner.View() + " Waiting for AI...")
	} else {
		footer = helpLine(s, "ctrl+s", "save", "ctrl+p", "polish", "ctrl+t", "tags", "tab", "next", "esc", "back")
	}

	var tagLine string
	if n, ok := v.ctrl.Selected(); ok && len(n.Tags) > 0 {
		for _, t := range n.Tags {
			tagLine += s.Tag.Render("#" + t)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Edit Note"),
		"",
		"Title:",
		fieldStyles[noteFieldTitle].Render(v.editTitle.View()),
		"Tags:",
		fieldStyles[noteFieldTags].Render(v.editTags.View()),
		tagLine,
		"Content:",
		fieldStyles[noteFieldContent].Render(v.editBody.View()),
		footer,
	)
	return styles.CenterView(lipgloss.NewStyle().Padding(0, 1).Render(content), v.width, v.height)
}
