package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/models"
)

type chatFixture struct {
	ai   *assistant
	view *ChatView
	a, b models.ChatSession
}

// newChatFixture shows session a with session b below it
func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	ctx := context.Background()
	fake := &assistant{release: make(chan struct{})}
	c := newControllers(t, fake)

	a, err := c.Chat.Create(ctx)
	require.NoError(t, err)
	b, err := c.Chat.Create(ctx)
	require.NoError(t, err)
	require.True(t, c.Chat.Select(a.ID))

	v := NewChatView(c.Chat)
	feed(v, v.Init()())
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.Equal(t, a.ID, v.session.ID)
	return &chatFixture{ai: fake, view: v, a: a, b: b}
}

// startSend types text into the shown session and starts sending it. The
// returned channel yields the message the send ends with.
func (f *chatFixture) startSend(t *testing.T, text string) <-chan tea.Msg {
	t.Helper()
	v := f.view
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.typing)
	v.Update(runes(text))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	out := make(chan tea.Msg, 1)
	go func() { out <- batch[0]() }()
	require.Eventually(t, v.ctrl.Busy, time.Second, 5*time.Millisecond)
	return out
}

func TestChatViewFailedSendKeepsInputWithItsSession(t *testing.T) {
	f := newChatFixture(t)
	v := f.view
	f.ai.err = &ai.RequestFailedError{StatusCode: 500}

	done := f.startSend(t, "question for A")
	assert.Empty(t, v.input.Value())

	// move to session b while the request is in flight
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, f.b.ID, v.session.ID)
	assert.NotContains(t, v.transcript.View(), "question for A")

	close(f.ai.release)
	_, cmd := v.Update(<-done)
	require.NotNil(t, cmd)
	assert.IsType(t, ErrorMsg{}, cmd())

	assert.Equal(t, f.b.ID, v.session.ID)
	assert.Empty(t, v.input.Value())
	assert.Equal(t, "question for A", v.ctrl.Draft(f.a.ID))
	assert.Empty(t, v.ctrl.Draft(f.b.ID))

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, f.a.ID, v.session.ID)
	assert.Equal(t, "question for A", v.input.Value())
}

func TestChatViewSendGoesToOriginatingSession(t *testing.T) {
	f := newChatFixture(t)
	v := f.view
	f.ai.reply = "answer for A"

	done := f.startSend(t, "question for A")
	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, f.b.ID, v.session.ID)

	close(f.ai.release)
	_, cmd := v.Update(<-done)
	assert.Nil(t, cmd)

	assert.Equal(t, f.b.ID, v.session.ID)
	assert.Empty(t, v.session.Messages)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, f.a.ID, v.session.ID)
	require.Len(t, v.session.Messages, 2)
	assert.Equal(t, "question for A", v.session.Messages[0].Content)
	assert.Equal(t, "answer for A", v.session.Messages[1].Content)
	assert.Equal(t, "question for A...", v.session.Title)
}

func TestChatViewFailedSendRestoresShownSession(t *testing.T) {
	f := newChatFixture(t)
	v := f.view
	f.ai.err = ai.ErrServiceUnavailable

	done := f.startSend(t, "still here?")
	close(f.ai.release)
	_, cmd := v.Update(<-done)
	require.NotNil(t, cmd)

	assert.Equal(t, f.a.ID, v.session.ID)
	assert.Equal(t, "still here?", v.input.Value())
	assert.Empty(t, v.session.Messages)
}

func TestChatViewCycleModel(t *testing.T) {
	f := newChatFixture(t)
	v := f.view

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg("Model: "+ai.Models[1].Name), cmd())
	assert.Equal(t, ai.Models[1].ID, v.ctrl.Model(f.a.ID))
	assert.Equal(t, ai.DefaultModel, v.ctrl.Model(f.b.ID))
}
