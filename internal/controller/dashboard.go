package controller

import (
	"context"
	"time"

	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

// Stats is the dashboard summary
type Stats struct {
	Notes   int
	Todos   TodoStats
	Date    string
	Weekday string
}

// Dashboard reads counts across collections
type Dashboard struct {
	base
	notes *storage.Collection[models.Note]
	todos *storage.Collection[models.Todo]
}

func NewDashboard(d Deps) *Dashboard {
	return &Dashboard{base: newBase(d, "dashboard"), notes: d.Store.Notes, todos: d.Store.Todos}
}

var shortWeekdays = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

func (c *Dashboard) Stats(ctx context.Context) (Stats, error) {
	notes, err := c.notes.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	todos, err := c.todos.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := c.now().In(time.Local)
	return Stats{
		Notes:   len(notes),
		Todos:   statsOf(todos),
		Date:    now.Format("2006/1/2"),
		Weekday: shortWeekdays[now.Weekday()],
	}, nil
}
