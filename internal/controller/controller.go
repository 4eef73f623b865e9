// Package controller holds the per-page logic between the collections and
// the views: load a collection, apply one user action, persist, reload.
package controller

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

var (
	ErrEmptyTitle    = errors.New("title is empty")
	ErrEmptyContent  = errors.New("content is empty")
	ErrEmptyMessage  = errors.New("message is empty")
	ErrMissingAPIKey = errors.New("API密钥未配置，请联系管理员")
	ErrNoSelection   = errors.New("nothing selected")
	ErrNotFound      = errors.New("not found")
	ErrBusy          = errors.New("a request is already in flight")
	ErrInvalidValue  = errors.New("invalid value")
)

// Assistant produces text with a language model
type Assistant interface {
	Complete(ctx context.Context, messages []models.ChatMessage, apiKey, model string) (string, error)
	Polish(ctx context.Context, text, apiKey, model string) (string, error)
	SuggestTags(ctx context.Context, text, apiKey, model string) ([]string, error)
}

// KeySource supplies the API key for the assistant
type KeySource interface {
	Key(ctx context.Context) (string, error)
}

// Deps are the collaborators shared by all controllers. Now, NewID and
// Logger default to models.Now, models.NewID and the standard logger.
type Deps struct {
	Store  *storage.Store
	AI     Assistant
	Keys   KeySource
	Now    func() time.Time
	NewID  func() string
	Logger log.FieldLogger
}

// Controllers bundles one controller per page
type Controllers struct {
	Dashboard *Dashboard
	Notes     *Notes
	Todos     *Todos
	Projects  *Projects
	Chat      *Chat
}

func New(d Deps) *Controllers {
	return &Controllers{
		Dashboard: NewDashboard(d),
		Notes:     NewNotes(d),
		Todos:     NewTodos(d),
		Projects:  NewProjects(d),
		Chat:      NewChat(d),
	}
}

type base struct {
	now   func() time.Time
	newID func() string
	log   log.FieldLogger
}

func newBase(d Deps, page string) base {
	b := base{now: d.Now, newID: d.NewID, log: d.Logger}
	if b.now == nil {
		b.now = models.Now
	}
	if b.newID == nil {
		b.newID = models.NewID
	}
	if b.log == nil {
		b.log = log.StandardLogger()
	}
	b.log = b.log.WithField("page", page)
	return b
}

// truncate returns the first n runes of s followed by "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
