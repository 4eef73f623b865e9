package controller

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

// NoteDraft is the editor state of a note. Tags is comma separated.
type NoteDraft struct {
	Title   string
	Content string
	Tags    string
}

// DraftOf returns the editor state for a stored note
func DraftOf(n models.Note) NoteDraft {
	return NoteDraft{Title: n.Title, Content: n.Content, Tags: strings.Join(n.Tags, ", ")}
}

// Notes manages the note list, the selected note and its AI helpers
type Notes struct {
	base
	repo *storage.Collection[models.Note]
	ai   Assistant
	keys KeySource

	mu       sync.RWMutex
	items    []models.Note
	selected string
}

func NewNotes(d Deps) *Notes {
	return &Notes{base: newBase(d, "notes"), repo: d.Store.Notes, ai: d.AI, keys: d.Keys}
}

// Load refreshes the list. The first note is selected when the selection is
// empty or points at a note that no longer exists.
func (c *Notes) Load(ctx context.Context) error {
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		c.log.WithError(err).Error("load notes")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	if !slices.ContainsFunc(items, func(n models.Note) bool { return n.ID == c.selected }) {
		c.selected = ""
		if len(items) > 0 {
			c.selected = items[0].ID
		}
	}
	return nil
}

func (c *Notes) Items() []models.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Search returns notes whose title or content contains term, ignoring case
func (c *Notes) Search(term string) []models.Note {
	term = strings.ToLower(strings.TrimSpace(term))
	items := c.Items()
	if term == "" {
		return items
	}
	var out []models.Note
	for _, n := range items {
		if strings.Contains(strings.ToLower(n.Title), term) || strings.Contains(strings.ToLower(n.Content), term) {
			out = append(out, n)
		}
	}
	return out
}

// Select makes the note with id current. It reports whether the note exists.
func (c *Notes) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.ContainsFunc(c.items, func(n models.Note) bool { return n.ID == id }) {
		return false
	}
	c.selected = id
	return true
}

func (c *Notes) Selected() (models.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.items {
		if n.ID == c.selected {
			return n, true
		}
	}
	return models.Note{}, false
}

// Create stores an empty note and selects it
func (c *Notes) Create(ctx context.Context) (models.Note, error) {
	now := c.now()
	note := models.Note{
		ID:        c.newID(),
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.repo.Save(ctx, note); err != nil {
		return models.Note{}, err
	}
	if err := c.Load(ctx); err != nil {
		return models.Note{}, err
	}
	c.Select(note.ID)
	return note, nil
}

// Save writes the draft into the selected note. An empty title falls back to
// the start of the content.
func (c *Notes) Save(ctx context.Context, draft NoteDraft) (models.Note, error) {
	note, ok := c.Selected()
	if !ok {
		return models.Note{}, ErrNoSelection
	}
	c.apply(&note, draft)
	return c.persist(ctx, note)
}

// Polish replaces the draft content with the assistant's rewrite and saves
// the note. Nothing is saved when the request fails.
func (c *Notes) Polish(ctx context.Context, draft NoteDraft) (models.Note, error) {
	note, key, err := c.prepareAI(ctx, draft)
	if err != nil {
		return models.Note{}, err
	}

	polished, err := c.ai.Polish(ctx, draft.Content, key, "")
	if err != nil {
		c.log.WithError(err).WithField("note", note.ID).Warn("polish failed")
		return models.Note{}, err
	}

	draft.Content = polished
	c.apply(&note, draft)
	return c.persist(ctx, note)
}

// GenerateTags merges suggested tags into the draft tags and saves the note.
// Nothing is saved when the request fails.
func (c *Notes) GenerateTags(ctx context.Context, draft NoteDraft) (models.Note, error) {
	note, key, err := c.prepareAI(ctx, draft)
	if err != nil {
		return models.Note{}, err
	}

	suggested, err := c.ai.SuggestTags(ctx, draft.Content, key, "")
	if err != nil {
		c.log.WithError(err).WithField("note", note.ID).Warn("tag generation failed")
		return models.Note{}, err
	}

	c.apply(&note, draft)
	note.Tags = MergeTags(note.Tags, suggested)
	return c.persist(ctx, note)
}

// Remove deletes the note with id
func (c *Notes) Remove(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *Notes) prepareAI(ctx context.Context, draft NoteDraft) (models.Note, string, error) {
	note, ok := c.Selected()
	if !ok {
		return models.Note{}, "", ErrNoSelection
	}
	if strings.TrimSpace(draft.Content) == "" {
		return models.Note{}, "", ErrEmptyContent
	}
	key, err := c.keys.Key(ctx)
	if err != nil {
		return models.Note{}, "", err
	}
	if key == "" {
		return models.Note{}, "", ErrMissingAPIKey
	}
	return note, key, nil
}

func (c *Notes) apply(note *models.Note, draft NoteDraft) {
	content := strings.TrimSpace(draft.Content)
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = truncate(content, 20)
	}
	note.Title = title
	note.Content = content
	note.Tags = ai.ParseTags(draft.Tags)
}

func (c *Notes) persist(ctx context.Context, note models.Note) (models.Note, error) {
	note.UpdatedAt = c.now()
	if err := c.repo.Save(ctx, note); err != nil {
		return models.Note{}, err
	}
	return note, c.Load(ctx)
}

// MergeTags returns the union of both lists in first-seen order
func MergeTags(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, list := range [][]string{existing, extra} {
		for _, t := range list {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
