package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/rustmaps/config"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cli-key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/maps/limits":
			_, _ = w.Write([]byte(`{"data":{"monthly":{"current":1,"allowed":10}}}`))
		case "/maps/abc":
			assert.Equal(t, "staging=true", r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
		case "/maps/4500/1337":
			_, _ = w.Write([]byte(`{"data":{"seed":1337,"size":4500}}`))
		case "/maps/3000/7":
			_, _ = w.Write([]byte(`{"data":{"seed":7,"size":3000}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Map not found"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag variables outlive a single execution.
	whereExpr, preset, concurrency = "", "", 0
	staging, debug = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	server := newAPIServer(t)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("RUSTMAPS_API_KEY", "cli-key")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
api:
  key: cli-key
  base_url: `+server.URL+`
filter:
  presets:
    large: "size >= 4000"
logging:
  level: error
`), 0o600))

	t.Run("limits", func(t *testing.T) {
		out, err := runCLI(t, "limits", "--config", cfgPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"monthly":{"current":1,"allowed":10}}`, out)
	})

	t.Run("map with staging", func(t *testing.T) {
		out, err := runCLI(t, "map", "abc", "--staging", "--config", cfgPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"abc"}`, out)
	})

	t.Run("seed", func(t *testing.T) {
		out, err := runCLI(t, "seed", "1337", "4500", "--config", cfgPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"seed":1337,"size":4500}`, out)
	})

	t.Run("seed not found", func(t *testing.T) {
		out, err := runCLI(t, "seed", "1", "1000", "--config", cfgPath)
		require.NoError(t, err)
		assert.Equal(t, "No map found.\n", out)
	})

	t.Run("seed rejects non numeric", func(t *testing.T) {
		_, err := runCLI(t, "seed", "abc", "4500", "--config", cfgPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid seed")
	})

	t.Run("batch with preset", func(t *testing.T) {
		out, err := runCLI(t, "batch", "4500:1337", "3000:7", "1000:1", "--preset", "large", "--config", cfgPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"4500:1337":{"seed":1337,"size":4500}}`, out)
	})

	t.Run("batch without filter", func(t *testing.T) {
		out, err := runCLI(t, "batch", "4500:1337", "3000:7", "--config", cfgPath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"4500:1337":{"seed":1337,"size":4500},"3000:7":{"seed":7,"size":3000}}`, out)
	})

	t.Run("batch unknown preset", func(t *testing.T) {
		_, err := runCLI(t, "batch", "4500:1337", "--preset", "nope", "--config", cfgPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "preset 'nope' not found")
	})

	t.Run("version skips config", func(t *testing.T) {
		SetVersion("1.2.3", "today")
		out, err := runCLI(t, "version", "--config", filepath.Join(dir, "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "rustmaps 1.2.3 (built today)\n", out)
	})
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer

	log := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
