package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/ui/keys"
	"github.com/tgienger/ainotes/internal/ui/styles"
)

type projectItem struct {
	project models.Project
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	titleStyle := d.styles.ListItem.Width(width)
	metaStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if index == m.Index() {
		titleStyle = d.styles.ListSelected.Width(width)
		metaStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	badge := styles.ProjectStatusStyle(p.project.Status).Render("● " + p.project.Status.Label())
	title := titleStyle.Render(truncateWidth(p.Title(), width-16) + "  " + badge)

	progress := controller.Progress(p.project)
	meta := fmt.Sprintf("%s %3d%%  %d/%d tasks  %s",
		styles.ProgressBar(progress, 10), progress,
		p.project.CompletedTasks(), len(p.project.Tasks), dateRange(p.project))

	fmt.Fprintf(w, "%s\n%s", title, metaStyle.Render(meta))
}

func dateRange(p models.Project) string {
	if p.EndDate == nil {
		return formatDate(p.StartDate) + " →"
	}
	return formatDate(p.StartDate) + " → " + formatOptionalDate(p.EndDate)
}

// project view modes
type projectMode int

const (
	modeProjectList projectMode = iota
	modeProjectDetail
	modeProjectForm
	modeTaskForm
)

// project form fields
const (
	pfName = iota
	pfDesc
	pfStart
	pfEnd
	pfCount
)

// task form fields
const (
	tfTitle = iota
	tfDesc
	tfAssignee
	tfDue
	tfCount
)

// ProjectListView lists projects and manages the tasks of the selected one
type ProjectListView struct {
	ctrl     *controller.Projects
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int
	loaded bool
	mode   projectMode

	// detail
	project    models.Project
	taskCursor int

	// new task title line
	addingTask bool
	taskInput  textinput.Model

	// project form
	projName  textinput.Model
	projDesc  textarea.Model
	projStart textinput.Model
	projEnd   textinput.Model

	// task form
	editTaskID   string
	taskTitle    textinput.Model
	taskDesc     textarea.Model
	taskAssignee textinput.Model
	taskDue      textinput.Model

	focusIdx int

	confirm       confirm
	confirmTask   bool
	showHelpPopup bool
}

func NewProjectListView(ctrl *controller.Projects) *ProjectListView {
	s := styles.NewStyles()

	delegate := &projectDelegate{styles: s, width: 80}
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	newInput := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	newArea := func(placeholder string) textarea.Model {
		ta := textarea.New()
		ta.Placeholder = placeholder
		ta.CharLimit = 2000
		ta.ShowLineNumbers = false
		ta.SetWidth(50)
		ta.SetHeight(3)
		return ta
	}

	return &ProjectListView{
		ctrl:         ctrl,
		list:         l,
		delegate:     delegate,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		taskInput:    newInput("New task title", 200),
		projName:     newInput("Project name", 100),
		projDesc:     newArea("Description"),
		projStart:    newInput("YYYY-MM-DD", 10),
		projEnd:      newInput("YYYY-MM-DD (optional)", 10),
		taskTitle:    newInput("Task title", 200),
		taskDesc:     newArea("Description"),
		taskAssignee: newInput("Assignee (optional)", 100),
		taskDue:      newInput("YYYY-MM-DD (optional)", 10),
	}
}

type projectsLoadedMsg struct {
	projects []models.Project
}

// projectChangedMsg reports the selected project after a mutation
type projectChangedMsg struct {
	project  models.Project
	projects []models.Project
	open     bool
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	if err := v.ctrl.Load(context.Background()); err != nil {
		return ErrorMsg{Err: err}
	}
	return projectsLoadedMsg{projects: v.ctrl.Items()}
}

// mutate runs fn against the selected project and reports the result
func (v *ProjectListView) mutate(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return ErrorMsg{Err: err}
		}
		p, _ := v.ctrl.Selected()
		return projectChangedMsg{project: p, projects: v.ctrl.Items()}
	}
}

func (v *ProjectListView) Capturing() bool {
	return v.mode == modeProjectForm || v.mode == modeTaskForm || v.addingTask ||
		v.confirm.active || v.showHelpPopup || v.list.SettingFilter()
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		inputWidth := styles.Clamp(contentWidth-10, 20, 60)
		v.projDesc.SetWidth(inputWidth)
		v.taskDesc.SetWidth(inputWidth)
		return v, nil

	case projectsLoadedMsg:
		v.setItems(msg.projects)
		v.loaded = true
		if v.mode == modeProjectDetail {
			p, ok := v.ctrl.Selected()
			if !ok {
				v.mode = modeProjectList
			}
			v.project = p
		}
		return v, nil

	case projectChangedMsg:
		v.setItems(msg.projects)
		v.project = msg.project
		if msg.open || v.mode != modeProjectList {
			v.mode = modeProjectDetail
		}
		if msg.project.ID == "" {
			v.mode = modeProjectList
		}
		if v.taskCursor >= len(v.project.Tasks) {
			v.taskCursor = max(0, len(v.project.Tasks)-1)
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirm.active {
			return v.updateConfirm(msg)
		}
		switch v.mode {
		case modeProjectForm:
			return v.updateProjectForm(msg)
		case modeTaskForm:
			return v.updateTaskForm(msg)
		case modeProjectDetail:
			if v.addingTask {
				return v.updateAddingTask(msg)
			}
			return v.updateDetail(msg)
		}
		return v.updateList(msg)
	}

	if v.mode == modeProjectList {
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *ProjectListView) setItems(projects []models.Project) {
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p}
	}
	v.list.SetItems(items)
}

func (v *ProjectListView) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.list.SettingFilter() {
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keys.New):
		return v, func() tea.Msg {
			p, err := v.ctrl.Create(context.Background())
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return projectChangedMsg{project: p, projects: v.ctrl.Items(), open: true}
		}
	case key.Matches(msg, v.keys.Enter):
		if item, ok := v.list.SelectedItem().(projectItem); ok && v.ctrl.Select(item.project.ID) {
			v.project = item.project
			v.taskCursor = 0
			v.mode = modeProjectDetail
		}
		return v, nil
	case key.Matches(msg, v.keys.Status):
		if item, ok := v.list.SelectedItem().(projectItem); ok && v.ctrl.Select(item.project.ID) {
			next := item.project.Status.Next()
			return v, v.mutate(func(ctx context.Context) error {
				_, err := v.ctrl.SetStatus(ctx, next)
				return err
			})
		}
	case key.Matches(msg, v.keys.Delete):
		if item, ok := v.list.SelectedItem().(projectItem); ok {
			v.confirm.ask(item.project.ID, item.project.Name)
			v.confirmTask = false
		}
		return v, nil
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, hasTask := v.currentTask()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeProjectList
		v.ctrl.Deselect()
		return v, v.loadProjects
	case key.Matches(msg, v.keys.Up):
		if v.taskCursor > 0 {
			v.taskCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.taskCursor < len(v.project.Tasks)-1 {
			v.taskCursor++
		}
	case key.Matches(msg, v.keys.New):
		v.addingTask = true
		v.taskInput.Reset()
		v.taskInput.Focus()
		return v, textinput.Blink
	case msg.String() == "E":
		v.startProjectForm()
		return v, textinput.Blink
	case msg.String() == "S":
		next := v.project.Status.Next()
		return v, v.mutate(func(ctx context.Context) error {
			_, err := v.ctrl.SetStatus(ctx, next)
			return err
		})
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}

	if !hasTask {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Toggle):
		return v, v.mutate(func(ctx context.Context) error {
			_, err := v.ctrl.ToggleTaskDone(ctx, task.ID)
			return err
		})
	case key.Matches(msg, v.keys.Status):
		return v, v.mutate(func(ctx context.Context) error {
			_, err := v.ctrl.CycleTaskStatus(ctx, task.ID)
			return err
		})
	case key.Matches(msg, v.keys.Priority):
		return v, v.mutate(func(ctx context.Context) error {
			_, err := v.ctrl.CycleTaskPriority(ctx, task.ID)
			return err
		})
	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		v.startTaskForm(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirm.ask(task.ID, task.Title)
		v.confirmTask = true
	}
	return v, nil
}

func (v *ProjectListView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, yes := v.confirm.answer(msg)
	if !yes {
		return v, nil
	}
	if v.confirmTask {
		return v, v.mutate(func(ctx context.Context) error { return v.ctrl.DeleteTask(ctx, id) })
	}
	return v, func() tea.Msg {
		if err := v.ctrl.Remove(context.Background(), id); err != nil {
			return ErrorMsg{Err: err}
		}
		return projectsLoadedMsg{projects: v.ctrl.Items()}
	}
}

func (v *ProjectListView) updateAddingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.addingTask = false
		v.taskInput.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		title := strings.TrimSpace(v.taskInput.Value())
		v.addingTask = false
		v.taskInput.Blur()
		if title == "" {
			return v, nil
		}
		v.taskCursor = len(v.project.Tasks)
		return v, v.mutate(func(ctx context.Context) error {
			_, err := v.ctrl.AddTask(ctx, title)
			return err
		})
	}
	var cmd tea.Cmd
	v.taskInput, cmd = v.taskInput.Update(msg)
	return v, cmd
}

func (v *ProjectListView) startProjectForm() {
	v.mode = modeProjectForm
	v.focusIdx = pfName
	v.projName.SetValue(v.project.Name)
	v.projDesc.SetValue(v.project.Description)
	v.projStart.SetValue(formatDate(v.project.StartDate))
	v.projEnd.SetValue(formatOptionalDate(v.project.EndDate))
	v.updateProjectFocus()
}

func (v *ProjectListView) updateProjectForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeProjectDetail
		return v, nil
	case key.Matches(msg, v.keys.Save):
		return v, v.saveProject()
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % pfCount
		v.updateProjectFocus()
		return v, nil
	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + pfCount - 1) % pfCount
		v.updateProjectFocus()
		return v, nil
	case key.Matches(msg, v.keys.Enter) && v.focusIdx != pfDesc:
		if v.focusIdx == pfEnd {
			return v, v.saveProject()
		}
		v.focusIdx++
		v.updateProjectFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case pfName:
		v.projName, cmd = v.projName.Update(msg)
	case pfDesc:
		v.projDesc, cmd = v.projDesc.Update(msg)
	case pfStart:
		v.projStart, cmd = v.projStart.Update(msg)
	case pfEnd:
		v.projEnd, cmd = v.projEnd.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) updateProjectFocus() {
	v.projName.Blur()
	v.projDesc.Blur()
	v.projStart.Blur()
	v.projEnd.Blur()
	switch v.focusIdx {
	case pfName:
		v.projName.Focus()
	case pfDesc:
		v.projDesc.Focus()
	case pfStart:
		v.projStart.Focus()
	case pfEnd:
		v.projEnd.Focus()
	}
}

func (v *ProjectListView) saveProject() tea.Cmd {
	name := v.projName.Value()
	desc := v.projDesc.Value()
	start, err := parseDate(v.projStart.Value())
	if err != nil {
		return fail(err)
	}
	end, err := parseDate(v.projEnd.Value())
	if err != nil {
		return fail(err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return fail(fmt.Errorf("end date is before start date"))
	}

	v.mode = modeProjectDetail
	return v.mutate(func(ctx context.Context) error {
		if _, err := v.ctrl.Rename(ctx, name); err != nil {
			return err
		}
		if _, err := v.ctrl.Describe(ctx, desc); err != nil {
			return err
		}
		if start != nil {
			if _, err := v.ctrl.SetStartDate(ctx, *start); err != nil {
				return err
			}
		}
		_, err := v.ctrl.SetEndDate(ctx, end)
		return err
	})
}

func (v *ProjectListView) startTaskForm(task models.ProjectTask) {
	v.mode = modeTaskForm
	v.focusIdx = tfTitle
	v.editTaskID = task.ID
	v.taskTitle.SetValue(task.Title)
	v.taskDesc.SetValue(task.Description)
	v.taskAssignee.SetValue(task.Assignee)
	v.taskDue.SetValue(formatOptionalDate(task.DueDate))
	v.updateTaskFocus()
}

func (v *ProjectListView) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = modeProjectDetail
		return v, nil
	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % tfCount
		v.updateTaskFocus()
		return v, nil
	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + tfCount - 1) % tfCount
		v.updateTaskFocus()
		return v, nil
	case key.Matches(msg, v.keys.Enter) && v.focusIdx != tfDesc:
		if v.focusIdx == tfDue {
			return v, v.saveTask()
		}
		v.focusIdx++
		v.updateTaskFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case tfTitle:
		v.taskTitle, cmd = v.taskTitle.Update(msg)
	case tfDesc:
		v.taskDesc, cmd = v.taskDesc.Update(msg)
	case tfAssignee:
		v.taskAssignee, cmd = v.taskAssignee.Update(msg)
	case tfDue:
		v.taskDue, cmd = v.taskDue.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) updateTaskFocus() {
	v.taskTitle.Blur()
	v.taskDesc.Blur()
	v.taskAssignee.Blur()
	v.taskDue.Blur()
	switch v.focusIdx {
	case tfTitle:
		v.taskTitle.Focus()
	case tfDesc:
		v.taskDesc.Focus()
	case tfAssignee:
		v.taskAssignee.Focus()
	case tfDue:
		v.taskDue.Focus()
	}
}

func (v *ProjectListView) saveTask() tea.Cmd {
	due, err := parseDate(v.taskDue.Value())
	if err != nil {
		return fail(err)
	}
	id := v.editTaskID
	details := controller.TaskDetails{
		Title:       v.taskTitle.Value(),
		Description: strings.TrimSpace(v.taskDesc.Value()),
		Assignee:    v.taskAssignee.Value(),
		DueDate:     due,
	}
	v.mode = modeProjectDetail
	return v.mutate(func(ctx context.Context) error {
		_, err := v.ctrl.UpdateTask(ctx, id, details)
		return err
	})
}

func (v *ProjectListView) currentTask() (models.ProjectTask, bool) {
	if v.taskCursor < 0 || v.taskCursor >= len(v.project.Tasks) {
		return models.ProjectTask{}, false
	}
	return v.project.Tasks[v.taskCursor], true
}

// View renders the view
func (v *ProjectListView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirm.active {
		what := "Project"
		if v.confirmTask {
			what = "Task"
		}
		return deleteConfirm(s, v.width, v.height, what, v.confirm.name)
	}
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	switch v.mode {
	case modeProjectForm:
		return v.renderProjectForm()
	case modeTaskForm:
		return v.renderTaskForm()
	case modeProjectDetail:
		return v.renderDetail()
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}
	content := v.list.View() + "\n" + helpLine(s, "↵", "open", "n", "new", "s", "status", "d", "del", "/", "filter", "?", "help")
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)
	centered := lipgloss.Place(styles.ContentWidth(v.width), v.height-4,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderDetail() string {
	s := v.styles
	p := v.project
	width := max(styles.ContentWidth(v.width)-6, 20)
	progress := controller.Progress(p)

	desc := p.Description
	if desc == "" {
		desc = s.TitleMuted.Render("No description")
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(p.Name)+"  "+styles.ProjectStatusStyle(p.Status).Render("● "+p.Status.Label()),
		s.TitleMuted.Render(dateRange(p)),
		lipgloss.NewStyle().Width(width).Render(desc),
		"",
		styles.ProgressBar(progress, styles.Clamp(width-20, 10, 40))+fmt.Sprintf(" %d%%  %d/%d", progress, p.CompletedTasks(), len(p.Tasks)),
	)

	var rows []string
	for i, t := range p.Tasks {
		rows = append(rows, v.renderTask(t, i == v.taskCursor && !v.addingTask, width))
	}
	tasks := s.TitleMuted.Render("No tasks. Press 'n' to add one.")
	if len(rows) > 0 {
		tasks = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	parts := []string{header, "", s.Title.Render("Tasks"), tasks}
	if v.addingTask {
		parts = append(parts, "", s.InputFocused.Render(v.taskInput.View()))
		parts = append(parts, helpLine(s, "↵", "add", "esc", "cancel"))
	} else {
		parts = append(parts, helpLine(s, "n", "task", "space", "done", "s", "status", "p", "priority", "e", "edit", "d", "del", "E", "project", "esc", "back"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return styles.CenterView(lipgloss.NewStyle().Padding(0, 1).Render(content), v.width, v.height)
}

func (v *ProjectListView) renderTask(t models.ProjectTask, selected bool, width int) string {
	s := v.styles

	box := "[ ]"
	title := t.Title
	if t.Status == models.TaskCompleted {
		box = "[x]"
		title = s.Done.Render(title)
	}

	var meta []string
	meta = append(meta, styles.TaskStatusStyle(t.Status).Render(t.Status.Label()))
	meta = append(meta, styles.PriorityStyle(t.Priority).Render(t.Priority.Label()))
	if t.Assignee != "" {
		meta = append(meta, "@"+t.Assignee)
	}
	if t.DueDate != nil {
		meta = append(meta, "due "+formatOptionalDate(t.DueDate))
	}

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	return style.Width(width).Render(box + " " + title + "  " + strings.Join(meta, " · "))
}

func (v *ProjectListView) renderProjectForm() string {
	s := v.styles
	fieldStyles := [pfCount]lipgloss.Style{s.Input, s.Input, s.Input, s.Input}
	fieldStyles[v.focusIdx] = s.InputFocused
	inputWidth := styles.Clamp(styles.ContentWidth(v.width)-10, 20, 60)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Edit Project"),
		"",
		"Name:",
		fieldStyles[pfName].Width(inputWidth).Render(v.projName.View()),
		"Description:",
		fieldStyles[pfDesc].Render(v.projDesc.View()),
		"Start date:",
		fieldStyles[pfStart].Width(inputWidth).Render(v.projStart.View()),
		"End date:",
		fieldStyles[pfEnd].Width(inputWidth).Render(v.projEnd.View()),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)
	return v.placeForm(form)
}

func (v *ProjectListView) renderTaskForm() string {
	s := v.styles
	fieldStyles := [tfCount]lipgloss.Style{s.Input, s.Input, s.Input, s.Input}
	fieldStyles[v.focusIdx] = s.InputFocused
	inputWidth := styles.Clamp(styles.ContentWidth(v.width)-10, 20, 60)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Edit Task"),
		"",
		"Title:",
		fieldStyles[tfTitle].Width(inputWidth).Render(v.taskTitle.View()),
		"Description:",
		fieldStyles[tfDesc].Render(v.taskDesc.View()),
		"Assignee:",
		fieldStyles[tfAssignee].Width(inputWidth).Render(v.taskAssignee.View()),
		"Due date:",
		fieldStyles[tfDue].Width(inputWidth).Render(v.taskDue.View()),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)
	return v.placeForm(form)
}

func (v *ProjectListView) placeForm(form string) string {
	centered := lipgloss.Place(styles.ContentWidth(v.width), v.height-4,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelpPopup() string {
	return helpPopup(v.styles, v.width, v.height,
		"↵", "open project / edit task",
		"n", "new project / new task",
		"s", "cycle project / task status",
		"p", "cycle task priority",
		"space", "toggle task done",
		"e", "edit task",
		"E", "edit project",
		"S", "cycle project status (detail)",
		"d", "delete",
		"/", "filter projects",
		"esc", "back",
	)
}
