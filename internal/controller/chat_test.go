package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/models"
)

func TestChatTitleFromFirstMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-test")
	f.ai.reply = "I'm fine"
	chat := f.c.Chat

	session, err := chat.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, NewSessionTitle, session.Title)
	assert.Empty(t, session.Messages)

	sent, err := chat.Send(ctx, "Hello there, how are you")
	require.NoError(t, err)
	assert.Equal(t, "Hello there, how are...", sent.Title)
	assert.Equal(t, []models.ChatMessage{
		{Role: models.RoleUser, Content: "Hello there, how are you"},
		{Role: models.RoleAssistant, Content: "I'm fine"},
	}, sent.Messages)

	stored, ok, err := f.store.Sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sent, stored)

	// later messages keep the title
	_, err = chat.Send(ctx, "What day is it?")
	require.NoError(t, err)
	selected, ok := chat.Selected()
	require.True(t, ok)
	assert.Equal(t, "Hello there, how are...", selected.Title)
	assert.Len(t, selected.Messages, 4)
	assert.Len(t, f.ai.messages, 3)
}

func TestChatRequestFailureLeavesSessionUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-bad")
	f.ai.err = &ai.RequestFailedError{StatusCode: 401}
	chat := f.c.Chat

	session, err := chat.Create(ctx)
	require.NoError(t, err)

	_, err = chat.Send(ctx, "Hello there, how are you")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrRequestFailed)
	assert.NotErrorIs(t, err, ai.ErrServiceUnavailable)
	assert.Equal(t, "API调用失败: 401", err.Error())

	stored, ok, err := f.store.Sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewSessionTitle, stored.Title)
	assert.Empty(t, stored.Messages)
	assert.Equal(t, "Hello there, how are you", chat.Draft(session.ID))
	assert.False(t, chat.Busy())

	f.ai.err = nil
	f.ai.reply = "ok"
	_, err = chat.Send(ctx, chat.Draft(session.ID))
	require.NoError(t, err)
	assert.Empty(t, chat.Draft(session.ID))
}

func TestChatSendPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-test")
	chat := f.c.Chat

	_, err := chat.Send(ctx, "hi")
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = chat.Create(ctx)
	require.NoError(t, err)
	_, err = chat.Send(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, f.ai.calls)
}

func TestChatRejectsConcurrentSend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-test")
	f.ai.reply = "done"
	f.ai.block = make(chan struct{})
	chat := f.c.Chat

	_, err := chat.Create(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := chat.Send(ctx, "first")
		done <- err
	}()
	require.Eventually(t, chat.Busy, time.Second, 5*time.Millisecond)

	_, err = chat.Send(ctx, "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(f.ai.block)
	require.NoError(t, <-done)
	assert.False(t, chat.Busy())
	assert.Equal(t, 1, f.ai.calls)
}

func TestChatModelSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-test")
	f.ai.reply = "hey"
	chat := f.c.Chat

	session, err := chat.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultModel, chat.Model(session.ID))

	assert.ErrorIs(t, chat.SetModel(session.ID, "unknown/model"), ErrInvalidValue)
	require.NoError(t, chat.SetModel(session.ID, "openai/gpt-4o-mini"))

	_, err = chat.Send(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", f.ai.model)
}

func TestChatRemoveSelectsNext(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-test")
	chat := f.c.Chat

	first, err := chat.Create(ctx)
	require.NoError(t, err)
	second, err := chat.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, chat.SetModel(second.ID, "openai/gpt-3.5-turbo"))

	require.NoError(t, chat.Remove(ctx, second.ID))
	selected, ok := chat.Selected()
	require.True(t, ok)
	assert.Equal(t, first.ID, selected.ID)
	assert.Equal(t, ai.DefaultModel, chat.Model(second.ID))
	assert.Len(t, chat.Items(), 1)
}

func TestSessionTitle(t *testing.T) {
	assert.Equal(t, "hi...", SessionTitle("  hi  "))
	assert.Equal(t, "今天天气怎么样？我想出去走走，顺便买点东...", SessionTitle("今天天气怎么样？我想出去走走，顺便买点东西吧"))
}

func TestChatSendToTargetsSessionNotSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "sk-test")
	f.ai.reply = "pong"
	chat := f.c.Chat

	first, err := chat.Create(ctx)
	require.NoError(t, err)
	second, err := chat.Create(ctx)
	require.NoError(t, err)
	require.True(t, chat.Select(second.ID))

	sent, err := chat.SendTo(ctx, first.ID, "ping")
	require.NoError(t, err)
	assert.Equal(t, first.ID, sent.ID)
	assert.Len(t, sent.Messages, 2)

	selected, ok := chat.Selected()
	require.True(t, ok)
	assert.Equal(t, second.ID, selected.ID)
	assert.Empty(t, selected.Messages)

	_, err = chat.SendTo(ctx, "gone", "ping")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChatSendCanceledKeepsDraft(t *testing.T) {
	f := newFixture(t, "sk-test")
	f.ai.err = context.Canceled
	chat := f.c.Chat

	session, err := chat.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = chat.Send(ctx, "are you there?")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "are you there?", chat.Draft(session.ID))
	assert.False(t, chat.Busy())

	stored, ok, err := f.store.Sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewSessionTitle, stored.Title)
	assert.Empty(t, stored.Messages)
}
