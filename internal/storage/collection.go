package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/tgienger/ainotes/internal/db"
)

// ErrCorrupt is returned when a stored collection cannot be decoded
var ErrCorrupt = errors.New("corrupt collection")

// DecodeError describes a collection whose stored value is not valid JSON
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return "decode " + e.Key + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrCorrupt }

// Collection persists a list of entities as one JSON array under a single key.
// Every write loads the whole list, changes it and writes it back.
type Collection[T any] struct {
	store db.Store
	key   string
	id    func(T) string
	mu    sync.Mutex
}

// NewCollection creates a collection stored at key. id extracts an entity's identifier.
func NewCollection[T any](store db.Store, key string, id func(T) string) *Collection[T] {
	return &Collection[T]{store: store, key: key, id: id}
}

// Key returns the store key holding the collection
func (c *Collection[T]) Key() string { return c.key }

// GetAll returns every entity in storage order. An absent key is an empty collection.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.load(ctx)
}

// Get returns the first entity with the given id
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if c.id(item) == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Save replaces the first entity with the same id in place, or appends it
func (c *Collection[T]) Save(ctx context.Context, entity T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	id := c.id(entity)
	replaced := false
	for i := range items {
		if c.id(items[i]) == id {
			items[i] = entity
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, entity)
	}

	return c.write(ctx, items)
}

// Delete removes every entity with the given id. A missing id leaves storage untouched.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0:0]
	for _, item := range items {
		if c.id(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	return c.write(ctx, kept)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if !found || data == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, &DecodeError{Key: c.key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) write(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "encode %s", c.key)
	}
	return c.store.Set(ctx, c.key, string(data))
}
