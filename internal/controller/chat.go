package controller

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

// NewSessionTitle is the title of a session without messages
const NewSessionTitle = "新对话"

// SessionTitle derives a session title from its first user message
func SessionTitle(firstMessage string) string {
	return truncate(strings.TrimSpace(firstMessage), 20)
}

// Chat manages chat sessions and sends messages to the assistant
type Chat struct {
	base
	repo *storage.Collection[models.ChatSession]
	ai   Assistant
	keys KeySource

	// one request at a time
	busy atomic.Bool

	mu       sync.RWMutex
	items    []models.ChatSession
	selected string
	models   map[string]string
	drafts   map[string]string
}

func NewChat(d Deps) *Chat {
	return &Chat{
		base:   newBase(d, "chat"),
		repo:   d.Store.Sessions,
		ai:     d.AI,
		keys:   d.Keys,
		models: make(map[string]string),
		drafts: make(map[string]string),
	}
}

// Load refreshes the session list, selecting the first session when needed
func (c *Chat) Load(ctx context.Context) error {
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		c.log.WithError(err).Error("load sessions")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	if !slices.ContainsFunc(items, func(s models.ChatSession) bool { return s.ID == c.selected }) {
		c.selected = ""
		if len(items) > 0 {
			c.selected = items[0].ID
		}
	}
	return nil
}

func (c *Chat) Items() []models.ChatSession {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Chat) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.ContainsFunc(c.items, func(s models.ChatSession) bool { return s.ID == id }) {
		return false
	}
	c.selected = id
	return true
}

func (c *Chat) Selected() (models.ChatSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.items {
		if s.ID == c.selected {
			return s, true
		}
	}
	return models.ChatSession{}, false
}

// Create stores an empty session and selects it
func (c *Chat) Create(ctx context.Context) (models.ChatSession, error) {
	session := models.ChatSession{
		ID:        c.newID(),
		Title:     NewSessionTitle,
		CreatedAt: c.now(),
		Messages:  []models.ChatMessage{},
	}
	if err := c.repo.Save(ctx, session); err != nil {
		return models.ChatSession{}, err
	}
	if err := c.Load(ctx); err != nil {
		return models.ChatSession{}, err
	}
	c.Select(session.ID)
	return session, nil
}

// Remove deletes the session with id
func (c *Chat) Remove(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.models, id)
	delete(c.drafts, id)
	c.mu.Unlock()
	return c.Load(ctx)
}

// Model returns the model chosen for a session
func (c *Chat) Model(sessionID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.models[sessionID]; ok {
		return m
	}
	return ai.Models[0].ID
}

// SetModel chooses the model used for a session's next messages
func (c *Chat) SetModel(sessionID, modelID string) error {
	if _, ok := ai.LookupModel(modelID); !ok {
		return ErrInvalidValue
	}
	c.mu.Lock()
	c.models[sessionID] = modelID
	c.mu.Unlock()
	return nil
}

// Draft returns input kept from a failed send
func (c *Chat) Draft(sessionID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.drafts[sessionID]
}

// Busy reports whether a message is being sent
func (c *Chat) Busy() bool {
	return c.busy.Load()
}

// Send appends input to the selected session. See SendTo.
func (c *Chat) Send(ctx context.Context, input string) (models.ChatSession, error) {
	c.mu.RLock()
	id := c.selected
	c.mu.RUnlock()
	return c.SendTo(ctx, id, input)
}

// SendTo appends input to the session with id, asks the assistant and stores
// both messages. The first message also becomes the session title. When the
// request fails the session is left as it was and input is kept as its draft.
// The selection is not changed.
func (c *Chat) SendTo(ctx context.Context, id, input string) (models.ChatSession, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.ChatSession{}, ErrEmptyMessage
	}
	if id == "" {
		return models.ChatSession{}, ErrNoSelection
	}
	session, ok := c.find(id)
	if !ok {
		return models.ChatSession{}, ErrNotFound
	}
	if !c.busy.CompareAndSwap(false, true) {
		return models.ChatSession{}, ErrBusy
	}
	defer c.busy.Store(false)

	reply, messages, err := c.ask(ctx, session, input)
	if err != nil {
		c.log.WithError(err).WithField("session", session.ID).Warn("send failed")
		c.mu.Lock()
		c.drafts[session.ID] = input
		c.mu.Unlock()
		return session, err
	}

	if len(session.Messages) == 0 {
		session.Title = SessionTitle(input)
	}
	session.Messages = append(messages, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	if err := c.repo.Save(ctx, session); err != nil {
		return models.ChatSession{}, err
	}

	c.mu.Lock()
	delete(c.drafts, session.ID)
	c.mu.Unlock()
	return session, c.Load(ctx)
}

func (c *Chat) ask(ctx context.Context, session models.ChatSession, input string) (string, []models.ChatMessage, error) {
	key, err := c.keys.Key(ctx)
	if err != nil {
		return "", nil, err
	}
	messages := append(slices.Clone(session.Messages), models.ChatMessage{Role: models.RoleUser, Content: input})
	reply, err := c.ai.Complete(ctx, messages, key, c.Model(session.ID))
	if err != nil {
		return "", nil, err
	}
	return reply, messages, nil
}

func (c *Chat) find(id string) (models.ChatSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.items {
		if s.ID == id {
			return s, true
		}
	}
	return models.ChatSession{}, false
}
