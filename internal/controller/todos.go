package controller

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

// TodoStats summarizes completion
type TodoStats struct {
	Total     int
	Completed int
	Pending   int
	Percent   int
}

func statsOf(todos []models.Todo) TodoStats {
	s := TodoStats{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// Todos manages the todo list
type Todos struct {
	base
	repo *storage.Collection[models.Todo]

	mu    sync.RWMutex
	items []models.Todo
}

func NewTodos(d Deps) *Todos {
	return &Todos{base: newBase(d, "todos"), repo: d.Store.Todos}
}

// Load refreshes the list from storage
func (c *Todos) Load(ctx context.Context) error {
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		c.log.WithError(err).Error("load todos")
		return err
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Items returns the loaded todos in storage order
func (c *Todos) Items() []models.Todo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Todos) Stats() TodoStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return statsOf(c.items)
}

// Add creates an open todo with the trimmed title
func (c *Todos) Add(ctx context.Context, title string) (models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Todo{}, ErrEmptyTitle
	}

	now := c.now()
	todo := models.Todo{
		ID:        c.newID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.repo.Save(ctx, todo); err != nil {
		return models.Todo{}, err
	}
	return todo, c.Load(ctx)
}

// Toggle flips completion of the todo with id
func (c *Todos) Toggle(ctx context.Context, id string) (models.Todo, error) {
	return c.update(ctx, id, func(t *models.Todo) error {
		t.Completed = !t.Completed
		return nil
	})
}

// Rename changes the title of the todo with id
func (c *Todos) Rename(ctx context.Context, id, title string) (models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Todo{}, ErrEmptyTitle
	}
	return c.update(ctx, id, func(t *models.Todo) error {
		t.Title = title
		return nil
	})
}

// Remove deletes the todo with id
func (c *Todos) Remove(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *Todos) find(id string) (models.Todo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.items {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}

func (c *Todos) update(ctx context.Context, id string, fn func(*models.Todo) error) (models.Todo, error) {
	todo, ok := c.find(id)
	if !ok {
		return models.Todo{}, ErrNotFound
	}
	if err := fn(&todo); err != nil {
		return models.Todo{}, err
	}
	todo.UpdatedAt = c.now()
	if err := c.repo.Save(ctx, todo); err != nil {
		return models.Todo{}, err
	}
	return todo, c.Load(ctx)
}
