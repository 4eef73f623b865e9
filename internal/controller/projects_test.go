package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/models"
)

func newProject(t *testing.T, f *fixture) models.Project {
	t.Helper()
	p, err := f.c.Projects.Create(context.Background())
	require.NoError(t, err)
	return p
}

func TestProjectCreateDefaults(t *testing.T) {
	f := newFixture(t, "")
	p := newProject(t, f)

	assert.Equal(t, NewProjectName, p.Name)
	assert.Equal(t, models.ProjectPlanning, p.Status)
	assert.Equal(t, p.CreatedAt, p.StartDate)
	assert.Nil(t, p.EndDate)
	assert.Empty(t, p.Tasks)

	selected, ok := f.c.Projects.Selected()
	require.True(t, ok)
	assert.Equal(t, p.ID, selected.ID)
}

func TestProjectEditsRequireSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	_, err := f.c.Projects.Rename(ctx, "x")
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = f.c.Projects.AddTask(ctx, "x")
	assert.ErrorIs(t, err, ErrNoSelection)

	newProject(t, f)
	f.c.Projects.Deselect()
	_, err = f.c.Projects.Describe(ctx, "x")
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestProjectFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	projects := f.c.Projects
	p := newProject(t, f)

	renamed, err := projects.Rename(ctx, " Launch ")
	require.NoError(t, err)
	assert.Equal(t, "Launch", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(p.UpdatedAt))

	_, err = projects.Rename(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	described, err := projects.Describe(ctx, "ship v1")
	require.NoError(t, err)
	assert.Equal(t, "ship v1", described.Description)

	_, err = projects.SetStatus(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidValue)
	active, err := projects.SetStatus(ctx, models.ProjectInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectInProgress, active.Status)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)
	_, err = projects.SetStartDate(ctx, start)
	require.NoError(t, err)
	dated, err := projects.SetEndDate(ctx, &end)
	require.NoError(t, err)
	assert.Equal(t, start, dated.StartDate)
	require.NotNil(t, dated.EndDate)
	assert.Equal(t, end, *dated.EndDate)

	cleared, err := projects.SetEndDate(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.EndDate)

	stored, ok, err := f.store.Projects.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cleared, stored)
}

func TestProjectTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	projects := f.c.Projects
	newProject(t, f)

	_, err := projects.AddTask(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	task, err := projects.AddTask(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, models.TaskTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Empty(t, task.Description)

	other, err := projects.AddTask(ctx, "review")
	require.NoError(t, err)

	cycled, err := projects.CycleTaskStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, cycled.Status)
	assert.True(t, cycled.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, task.CreatedAt, cycled.CreatedAt)

	done, err := projects.ToggleTaskDone(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, done.Status)
	undone, err := projects.ToggleTaskDone(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskTodo, undone.Status)

	_, err = projects.SetTaskStatus(ctx, task.ID, "blocked")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = projects.SetTaskStatus(ctx, task.ID, models.TaskCompleted)
	require.NoError(t, err)

	high, err := projects.CycleTaskPriority(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, high.Priority)
	low, err := projects.SetTaskPriority(ctx, other.ID, models.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, low.Priority)
	_, err = projects.SetTaskPriority(ctx, other.ID, "urgent")
	assert.ErrorIs(t, err, ErrInvalidValue)

	due := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	detailed, err := projects.UpdateTask(ctx, other.ID, TaskDetails{Description: "second pass", Assignee: " kim ", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "review", detailed.Title)
	assert.Equal(t, "second pass", detailed.Description)
	assert.Equal(t, "kim", detailed.Assignee)
	assert.Equal(t, &due, detailed.DueDate)

	_, err = projects.CycleTaskStatus(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	selected, ok := projects.Selected()
	require.True(t, ok)
	require.Len(t, selected.Tasks, 2)
	assert.Equal(t, 1, selected.CompletedTasks())
	assert.Equal(t, 50, Progress(selected))

	require.NoError(t, projects.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, projects.DeleteTask(ctx, task.ID), ErrNotFound)
	selected, _ = projects.Selected()
	require.Len(t, selected.Tasks, 1)
	assert.Equal(t, other.ID, selected.Tasks[0].ID)
	assert.Equal(t, 0, selected.CompletedTasks())
	assert.Equal(t, 0, Progress(selected))
}

func TestProjectRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	p := newProject(t, f)
	_, err := f.c.Projects.AddTask(ctx, "draft")
	require.NoError(t, err)

	require.NoError(t, f.c.Projects.Remove(ctx, p.ID))
	assert.Empty(t, f.c.Projects.Items())
	_, ok := f.c.Projects.Selected()
	assert.False(t, ok)

	all, err := f.store.Projects.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(models.Project{}))
	p := models.Project{Tasks: []models.ProjectTask{
		{Status: models.TaskCompleted}, {Status: models.TaskTodo}, {Status: models.TaskInProgress},
	}}
	assert.Equal(t, 33, Progress(p))
	p.Tasks[1].Status = models.TaskCompleted
	assert.Equal(t, 67, Progress(p))
}
