package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/models"
)

func TestProjectViewTasks(t *testing.T) {
	c := newControllers(t, nil)
	v := NewProjectListView(c.Projects)
	feed(v, v.Init()())
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, v.View(), "No Projects")

	feed(v, runes("n"))
	require.Equal(t, modeProjectDetail, v.mode)
	assert.Equal(t, controller.NewProjectName, v.project.Name)
	assert.Equal(t, models.ProjectPlanning, v.project.Status)

	feed(v, runes("n"))
	require.True(t, v.Capturing())
	v.Update(runes("Write docs"))
	feed(v, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.Capturing())
	require.Len(t, v.project.Tasks, 1)
	task := v.project.Tasks[0]
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, models.TaskTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	feed(v, runes("p"))
	assert.Equal(t, models.PriorityHigh, v.project.Tasks[0].Priority)

	feed(v, runes("x"))
	assert.Equal(t, models.TaskCompleted, v.project.Tasks[0].Status)
	assert.Contains(t, v.View(), "100%")

	feed(v, runes("S"))
	assert.Equal(t, models.ProjectInProgress, v.project.Status)

	feed(v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeProjectList, v.mode)
	require.Len(t, v.list.Items(), 1)
	stored := c.Projects.Items()[0]
	assert.Equal(t, 100, controller.Progress(stored))
}

func TestProjectViewEditTaskForm(t *testing.T) {
	c := newControllers(t, nil)
	v := NewProjectListView(c.Projects)
	feed(v, v.Init()())
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	feed(v, runes("n"))
	feed(v, runes("n"))
	v.Update(runes("Draft"))
	feed(v, tea.KeyMsg{Type: tea.KeyEnter})

	feed(v, runes("e"))
	require.Equal(t, modeTaskForm, v.mode)
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(runes("sam"))
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(runes("2024-13-01"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.IsType(t, ErrorMsg{}, cmd())
	assert.Equal(t, modeTaskForm, v.mode)

	for i := 0; i < 10; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	v.Update(runes("2024-06-30"))
	feed(v, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, modeProjectDetail, v.mode)

	task := v.project.Tasks[0]
	assert.Equal(t, "Draft", task.Title)
	assert.Equal(t, "sam", task.Assignee)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-06-30", formatOptionalDate(task.DueDate))
}
