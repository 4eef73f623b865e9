package storage

import (
	"github.com/tgienger/ainotes/internal/db"
	"github.com/tgienger/ainotes/internal/models"
)

// Store keys. They match the browser local storage keys of the web version so
// exported data can be loaded as is.
const (
	KeyNotes        = "ai-notes-notes"
	KeyTodos        = "ai-notes-todos"
	KeyChatSessions = "ai-notes-chat-sessions"
	KeyProjects     = "ai-notes-projects"
)

// Store groups the four collections
type Store struct {
	Notes    *Collection[models.Note]
	Todos    *Collection[models.Todo]
	Sessions *Collection[models.ChatSession]
	Projects *Collection[models.Project]
}

// New builds the collections on top of a key-value store
func New(kv db.Store) *Store {
	return &Store{
		Notes:    NewCollection(kv, KeyNotes, func(n models.Note) string { return n.ID }),
		Todos:    NewCollection(kv, KeyTodos, func(t models.Todo) string { return t.ID }),
		Sessions: NewCollection(kv, KeyChatSessions, func(s models.ChatSession) string { return s.ID }),
		Projects: NewCollection(kv, KeyProjects, func(p models.Project) string { return p.ID }),
	}
}
