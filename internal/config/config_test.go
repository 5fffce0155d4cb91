// ABOUTME: Tests for configuration management
// ABOUTME: Verifies defaults, save/load round trip and environment overrides

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{
		"NEWSDESK_EXPLORER_URL", "NEWSDESK_PROVIDER", "NEWSDESK_NEWS_API_URL",
		"NEWSDESK_NEWS_API_KEY", "NEWSDESK_RSS_SEARCH_URL", "NEWSDESK_TOKEN",
		"NEWSDESK_LOG_LEVEL", "NEWSDESK_PAGE_SIZE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return tmpDir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultExplorerURL, cfg.GetExplorerURL())
	assert.Equal(t, "newsapi", cfg.GetProvider())
	assert.Equal(t, DefaultNewsAPIURL, cfg.GetNewsAPIURL())
	assert.Equal(t, DefaultRSSSearchURL, cfg.GetRSSSearchURL())
	assert.Equal(t, 3, cfg.GetPageSize())
	assert.Equal(t, "warn", cfg.GetLogLevel())
	assert.Empty(t, cfg.Token)
}

func TestSaveLoad(t *testing.T) {
	tmpDir := isolate(t)

	cfg := &Config{
		ExplorerURL: "https://api.example.com",
		Provider:    "rss",
		NewsAPIKey:  "key123",
		PageSize:    5,
		Token:       "tok",
	}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(tmpDir, "newsdesk", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DefaultFilePerms), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/", loaded.GetExplorerURL())
	assert.Equal(t, "rss", loaded.GetProvider())
	assert.Equal(t, "key123", loaded.NewsAPIKey)
	assert.Equal(t, 5, loaded.GetPageSize())
	assert.Equal(t, "tok", loaded.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("NEWSDESK_TOKEN", "from-env")
	t.Setenv("NEWSDESK_PAGE_SIZE", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, 7, cfg.GetPageSize())
}

func TestLoad_DotEnv(t *testing.T) {
	tmpDir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("NEWSDESK_NEWS_API_KEY=dotenv-key\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("NEWSDESK_NEWS_API_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.NewsAPIKey)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, "newsdesk", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "x"), ExpandPath("~/x"))
	assert.Equal(t, "/abs", ExpandPath("/abs"))
}
