package controller

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/db"
	"github.com/tgienger/ainotes/internal/models"
	"github.com/tgienger/ainotes/internal/storage"
)

type fakeAssistant struct {
	mu       sync.Mutex
	reply    string
	tags     []string
	err      error
	calls    int
	messages []models.ChatMessage
	model    string
	// block, when set, holds Complete until closed
	block chan struct{}
}

func (f *fakeAssistant) Complete(ctx context.Context, messages []models.ChatMessage, apiKey, model string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	f.model = model
	return f.reply, f.err
}

func (f *fakeAssistant) Polish(ctx context.Context, text, apiKey, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

func (f *fakeAssistant) SuggestTags(ctx context.Context, text, apiKey, model string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tags, f.err
}

type fakeKeys string

func (k fakeKeys) Key(context.Context) (string, error) { return string(k), nil }

// clock advances one second per reading
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store *storage.Store
	ai    *fakeAssistant
	hook  *test.Hook
	c     *Controllers
}

func newFixture(t *testing.T, key string) *fixture {
	t.Helper()
	kv, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	clk := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	var n int
	f := &fixture{store: storage.New(kv), ai: &fakeAssistant{}, hook: hook}
	f.c = New(Deps{
		Store:  f.store,
		AI:     f.ai,
		Keys:   fakeKeys(key),
		Now:    clk.Now,
		NewID:  func() string { n++; return fmt.Sprintf("id-%d", n) },
		Logger: logger,
	})
	return f
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short...", truncate("short", 20))
	assert.Equal(t, "Hello there, how are...", truncate("Hello there, how are you", 20))
	assert.Equal(t, "一二三...", truncate("一二三四五", 3))
}
