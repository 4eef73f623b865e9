package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/config"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/db"
	"github.com/tgienger/ainotes/internal/storage"
	"github.com/tgienger/ainotes/internal/ui/views"
)

func newTestApp(t *testing.T) (*App, db.Store, *test.Hook) {
	t.Helper()
	kv, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	logger, hook := test.NewNullLogger()
	ctrls := controller.New(controller.Deps{
		Store:  storage.New(kv),
		Keys:   config.NewKeyStore(kv, ""),
		Logger: logger,
	})
	return NewApp(kv, ctrls, logger), kv, hook
}

// drain runs cmd and the commands of any batch it returns, feeding the
// resulting messages back into the app once
func drain(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(a, c)
		}
		return
	}
	if msg != nil {
		a.Update(msg)
	}
}

func press(a *App, s string) tea.Cmd {
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestParseView(t *testing.T) {
	for v := ViewDashboard; v < viewCount; v++ {
		got, ok := ParseView(v.String())
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
	got, ok := ParseView("calendar")
	assert.False(t, ok)
	assert.Equal(t, ViewDashboard, got)
	assert.Equal(t, "View(9)", View(9).String())
}

func TestInitRestoresLastView(t *testing.T) {
	a, kv, _ := newTestApp(t)
	require.NoError(t, kv.Set(context.Background(), KeyLastView, "projects"))

	drain(a, a.Init())
	assert.Equal(t, ViewProjects, a.Current())
}

func TestInitIgnoresUnknownLastView(t *testing.T) {
	a, kv, _ := newTestApp(t)
	require.NoError(t, kv.Set(context.Background(), KeyLastView, "calendar"))

	drain(a, a.Init())
	assert.Equal(t, ViewDashboard, a.Current())
}

func TestNumberKeysSwitchViews(t *testing.T) {
	a, kv, _ := newTestApp(t)
	drain(a, a.Init())

	drain(a, press(a, "3"))
	assert.Equal(t, ViewTodos, a.Current())

	last, ok, err := kv.Get(context.Background(), KeyLastView)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "todos", last)

	drain(a, press(a, "5"))
	assert.Equal(t, ViewChat, a.Current())
	assert.Nil(t, press(a, "5"))
}

func TestTypingKeepsNumberKeys(t *testing.T) {
	a, _, _ := newTestApp(t)
	drain(a, a.Init())
	drain(a, press(a, "3"))

	// 'n' opens the todo input, after which digits are text
	press(a, "n")
	press(a, "2")
	assert.Equal(t, ViewTodos, a.Current())

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(a, cmd)
	drain(a, press(a, "2"))
	assert.Equal(t, ViewNotes, a.Current())
}

func TestErrorModal(t *testing.T) {
	a, _, hook := newTestApp(t)
	drain(a, a.Init())
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	a.Update(views.ErrorMsg{Err: errors.New("API调用失败: 500")})
	assert.Contains(t, a.View(), "API调用失败: 500")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "action failed", hook.LastEntry().Message)

	// the first key only dismisses the modal
	press(a, "3")
	assert.Equal(t, ViewDashboard, a.Current())
	assert.NotContains(t, a.View(), "API调用失败")
}

func TestCorruptDataTitle(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a.Update(views.ErrorMsg{Err: &storage.DecodeError{Key: storage.KeyNotes, Err: errors.New("bad json")}})
	assert.Contains(t, a.View(), "Stored data could not be read")
}

func TestQuit(t *testing.T) {
	a, _, _ := newTestApp(t)
	cmd := press(a, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStatusFooter(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.Update(views.StatusMsg("Model: DeepSeek Chat"))
	assert.Contains(t, a.View(), "Model: DeepSeek Chat")

	press(a, "r")
	assert.NotContains(t, a.View(), "Model: DeepSeek Chat")
}
