package controller

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

// NewProjectName is the name given to freshly created projects
const NewProjectName = "新项目"

// TaskDetails are the editable fields of a task besides status and priority
type TaskDetails struct {
	Title       string
	Description string
	Assignee    string
	DueDate     *time.Time
}

// Progress returns the rounded percentage of completed tasks, 0 without tasks
func Progress(p models.Project) int {
	if len(p.Tasks) == 0 {
		return 0
	}
	return int(math.Round(float64(p.CompletedTasks()) / float64(len(p.Tasks)) * 100))
}

// Projects manages projects and the tasks embedded in them. Edits apply to
// the selected project.
type Projects struct {
	base
	repo *storage.Collection[models.Project]

	mu       sync.RWMutex
	items    []models.Project
	selected string
}

func NewProjects(d Deps) *Projects {
	return &Projects{base: newBase(d, "projects"), repo: d.Store.Projects}
}

// Load refreshes the project list. The selection is cleared when its project is gone.
func (c *Projects) Load(ctx context.Context) error {
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		c.log.WithError(err).Error("load projects")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	if !slices.ContainsFunc(items, func(p models.Project) bool { return p.ID == c.selected }) {
		c.selected = ""
	}
	return nil
}

func (c *Projects) Items() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Projects) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.ContainsFunc(c.items, func(p models.Project) bool { return p.ID == id }) {
		return false
	}
	c.selected = id
	return true
}

// Deselect clears the selection
func (c *Projects) Deselect() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()
}

func (c *Projects) Selected() (models.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.items {
		if p.ID == c.selected {
			return p, true
		}
	}
	return models.Project{}, false
}

// Create stores a project in planning state starting now and selects it
func (c *Projects) Create(ctx context.Context) (models.Project, error) {
	now := c.now()
	project := models.Project{
		ID:        c.newID(),
		Name:      NewProjectName,
		Status:    models.ProjectPlanning,
		StartDate: now,
		Tasks:     []models.ProjectTask{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.repo.Save(ctx, project); err != nil {
		return models.Project{}, err
	}
	if err := c.Load(ctx); err != nil {
		return models.Project{}, err
	}
	c.Select(project.ID)
	return project, nil
}

// Remove deletes the project with id and its tasks
func (c *Projects) Remove(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *Projects) Rename(ctx context.Context, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, ErrEmptyTitle
	}
	return c.update(ctx, func(p *models.Project) error {
		p.Name = name
		return nil
	})
}

func (c *Projects) Describe(ctx context.Context, description string) (models.Project, error) {
	return c.update(ctx, func(p *models.Project) error {
		p.Description = description
		return nil
	})
}

func (c *Projects) SetStatus(ctx context.Context, status models.ProjectStatus) (models.Project, error) {
	if !status.Valid() {
		return models.Project{}, ErrInvalidValue
	}
	return c.update(ctx, func(p *models.Project) error {
		p.Status = status
		return nil
	})
}

func (c *Projects) SetStartDate(ctx context.Context, start time.Time) (models.Project, error) {
	return c.update(ctx, func(p *models.Project) error {
		p.StartDate = start
		return nil
	})
}

// SetEndDate sets or, with nil, clears the end date
func (c *Projects) SetEndDate(ctx context.Context, end *time.Time) (models.Project, error) {
	return c.update(ctx, func(p *models.Project) error {
		p.EndDate = end
		return nil
	})
}

// AddTask appends a todo task of medium priority
func (c *Projects) AddTask(ctx context.Context, title string) (models.ProjectTask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.ProjectTask{}, ErrEmptyTitle
	}
	now := c.now()
	task := models.ProjectTask{
		ID:        c.newID(),
		Title:     title,
		Status:    models.TaskTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := c.update(ctx, func(p *models.Project) error {
		p.Tasks = append(p.Tasks, task)
		return nil
	})
	if err != nil {
		return models.ProjectTask{}, err
	}
	return task, nil
}

func (c *Projects) SetTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) (models.ProjectTask, error) {
	if !status.Valid() {
		return models.ProjectTask{}, ErrInvalidValue
	}
	return c.updateTask(ctx, taskID, func(t *models.ProjectTask) {
		t.Status = status
	})
}

// CycleTaskStatus moves a task to its next status
func (c *Projects) CycleTaskStatus(ctx context.Context, taskID string) (models.ProjectTask, error) {
	return c.updateTask(ctx, taskID, func(t *models.ProjectTask) {
		t.Status = t.Status.Next()
	})
}

// ToggleTaskDone marks a task completed, or back to todo when it already is
func (c *Projects) ToggleTaskDone(ctx context.Context, taskID string) (models.ProjectTask, error) {
	return c.updateTask(ctx, taskID, func(t *models.ProjectTask) {
		if t.Status == models.TaskCompleted {
			t.Status = models.TaskTodo
		} else {
			t.Status = models.TaskCompleted
		}
	})
}

func (c *Projects) SetTaskPriority(ctx context.Context, taskID string, priority models.Priority) (models.ProjectTask, error) {
	if !priority.Valid() {
		return models.ProjectTask{}, ErrInvalidValue
	}
	return c.updateTask(ctx, taskID, func(t *models.ProjectTask) {
		t.Priority = priority
	})
}

func (c *Projects) CycleTaskPriority(ctx context.Context, taskID string) (models.ProjectTask, error) {
	return c.updateTask(ctx, taskID, func(t *models.ProjectTask) {
		t.Priority = t.Priority.Next()
	})
}

// UpdateTask replaces the task's details. An empty title keeps the current one.
func (c *Projects) UpdateTask(ctx context.Context, taskID string, d TaskDetails) (models.ProjectTask, error) {
	return c.updateTask(ctx, taskID, func(t *models.ProjectTask) {
		if title := strings.TrimSpace(d.Title); title != "" {
			t.Title = title
		}
		t.Description = d.Description
		t.Assignee = strings.TrimSpace(d.Assignee)
		t.DueDate = d.DueDate
	})
}

func (c *Projects) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.update(ctx, func(p *models.Project) error {
		i := slices.IndexFunc(p.Tasks, func(t models.ProjectTask) bool { return t.ID == taskID })
		if i < 0 {
			return ErrNotFound
		}
		p.Tasks = slices.Delete(p.Tasks, i, i+1)
		return nil
	})
	return err
}

func (c *Projects) update(ctx context.Context, fn func(*models.Project) error) (models.Project, error) {
	project, ok := c.Selected()
	if !ok {
		return models.Project{}, ErrNoSelection
	}
	project.Tasks = slices.Clone(project.Tasks)
	if err := fn(&project); err != nil {
		return models.Project{}, err
	}
	project.UpdatedAt = c.now()
	if err := c.repo.Save(ctx, project); err != nil {
		return models.Project{}, err
	}
	return project, c.Load(ctx)
}

func (c *Projects) updateTask(ctx context.Context, taskID string, fn func(*models.ProjectTask)) (models.ProjectTask, error) {
	var updated models.ProjectTask
	_, err := c.update(ctx, func(p *models.Project) error {
		i := slices.IndexFunc(p.Tasks, func(t models.ProjectTask) bool { return t.ID == taskID })
		if i < 0 {
			return ErrNotFound
		}
		fn(&p.Tasks[i])
		p.Tasks[i].UpdatedAt = c.now()
		updated = p.Tasks[i]
		return nil
	})
	if err != nil {
		return models.ProjectTask{}, err
	}
	return updated, nil
}
