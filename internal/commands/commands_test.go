package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/ainotes/internal/config"
)

// env points the runtime at a fresh data directory and returns the path of
// a config file that does not exist.
func env(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AINOTES_DATA_DIR", dir)
	t.Setenv("AINOTES_LOG_FILE", filepath.Join(dir, "test.log"))
	t.Setenv("AINOTES_STORAGE_BACKEND", "")
	t.Setenv("AINOTES_AI_API_KEY", "")
	t.Setenv("AINOTES_AI_BASE_URL", "")
	t.Setenv("DEBUG", "")
	return filepath.Join(dir, "missing.yaml")
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func completionServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-or-v1-testkey-0000" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"no auth"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "gen-1",
			"object":  "chat.completion",
			"created": 1714550000,
			"model":   "deepseek/deepseek-chat",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersion(t *testing.T) {
	cfg := env(t)
	out, err := run(t, cfg, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}

func TestKeyCommands(t *testing.T) {
	cfg := env(t)

	out, err := run(t, cfg, "key", "show")
	require.NoError(t, err)
	assert.Equal(t, "No API key configured\n", out)

	out, err = run(t, cfg, "key", "set", "sk-or-v1-testkey-0000")
	require.NoError(t, err)
	assert.Equal(t, "API key saved: sk-or-v1*********0000\n", out)

	out, err = run(t, cfg, "key", "show")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-v1*********0000\n", out)

	out, err = run(t, cfg, "key", "clear")
	require.NoError(t, err)
	assert.Equal(t, "API key cleared\n", out)

	out, err = run(t, cfg, "key", "show")
	require.NoError(t, err)
	assert.Equal(t, "No API key configured\n", out)
}

func TestKeyFallsBackToConfig(t *testing.T) {
	cfg := env(t)
	t.Setenv("AINOTES_AI_API_KEY", "sk-from-environment")

	out, err := run(t, cfg, "key", "show")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-*******ment\n", out)
}

func TestKeySetRequiresArgument(t *testing.T) {
	cfg := env(t)
	_, err := run(t, cfg, "key", "set")
	assert.Error(t, err)

	_, err = run(t, cfg, "key", "set", "  ")
	assert.EqualError(t, err, "key must not be empty")
}

func TestAsk(t *testing.T) {
	cfg := env(t)
	srv := completionServer(t, "Paris")
	t.Setenv("AINOTES_AI_BASE_URL", srv.URL)

	_, err := run(t, cfg, "ask", "capital", "of", "France?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API调用失败: 401")

	_, err = run(t, cfg, "key", "set", "sk-or-v1-testkey-0000")
	require.NoError(t, err)

	out, err := run(t, cfg, "ask", "capital", "of", "France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris\n", out)

	_, err = run(t, cfg, "ask", "--model", "nope/unknown", "hi")
	assert.EqualError(t, err, `unknown model "nope/unknown"`)
}

func TestAskSaveStoresSession(t *testing.T) {
	cfg := env(t)
	srv := completionServer(t, "Paris")
	t.Setenv("AINOTES_AI_BASE_URL", srv.URL)
	t.Setenv("AINOTES_AI_API_KEY", "sk-or-v1-testkey-0000")

	out, err := run(t, cfg, "ask", "--save", "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris\n", out)

	ctx := context.Background()
	rt, err := openRuntime(ctx, cfg)
	require.NoError(t, err)
	defer rt.Close()

	sessions, err := rt.Store.Sessions.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "What is the capital ...", sessions[0].Title)
	require.Len(t, sessions[0].Messages, 2)
	assert.Equal(t, "Paris", sessions[0].Messages[1].Content)
}

func TestStats(t *testing.T) {
	cfg := env(t)
	ctx := context.Background()

	rt, err := openRuntime(ctx, cfg)
	require.NoError(t, err)
	c := rt.Controllers
	_, err = c.Notes.Create(ctx)
	require.NoError(t, err)
	for _, title := range []string{"one", "two", "three"} {
		_, err := c.Todos.Add(ctx, title)
		require.NoError(t, err)
	}
	first := c.Todos.Items()[0]
	_, err = c.Todos.Toggle(ctx, first.ID)
	require.NoError(t, err)
	_, err = c.Projects.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, rt.Close())

	out, err := run(t, cfg, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes:     1\n")
	assert.Contains(t, out, "Todos:     3 (1 done, 2 pending)\n")
	assert.Contains(t, out, "Completed: 33%\n")
	assert.Contains(t, out, "Projects:  1\n")
}

func TestRedisBackend(t *testing.T) {
	cfg := env(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	t.Setenv("AINOTES_STORAGE_BACKEND", config.BackendRedis)
	t.Setenv("AINOTES_REDIS_ADDR", mr.Addr())

	_, err = run(t, cfg, "key", "set", "sk-or-v1-testkey-0000")
	require.NoError(t, err)

	keys := mr.Keys()
	assert.Contains(t, keys, config.KeyAPIKey)
}

func TestUnknownBackend(t *testing.T) {
	cfg := env(t)
	t.Setenv("AINOTES_STORAGE_BACKEND", "mongo")

	_, err := run(t, cfg, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
