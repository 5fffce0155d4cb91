// ABOUTME: Configuration management for endpoints, credentials and session token
// ABOUTME: Loads JSON from the XDG config dir, then applies .env and NEWSDESK_* overrides

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores newsdesk configuration.
type Config struct {
	// ExplorerURL is the base URL of the saved-articles API.
	ExplorerURL string `json:"explorer_url,omitempty"`

	// Provider selects the search provider: "newsapi" (default) or "rss".
	Provider string `json:"provider,omitempty"`

	// NewsAPIURL and NewsAPIKey configure the "newsapi" provider.
	NewsAPIURL string `json:"news_api_url,omitempty"`
	NewsAPIKey string `json:"news_api_key,omitempty"`

	// RSSSearchURL is the search endpoint of the "rss" provider.
	RSSSearchURL string `json:"rss_search_url,omitempty"`

	// PageSize is how many search results each reveal adds.
	PageSize int `json:"page_size,omitempty"`

	// Token is the session token issued by the explorer API on sign-in.
	Token string `json:"token,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

// GetExplorerURL returns the explorer base URL, always ending in a slash.
func (c *Config) GetExplorerURL() string {
	u := c.ExplorerURL
	if u == "" {
		u = DefaultExplorerURL
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// GetProvider returns the configured search provider, defaulting to "newsapi".
func (c *Config) GetProvider() string {
	if c.Provider == "" {
		return DefaultProvider
	}
	return c.Provider
}

// GetNewsAPIURL returns the NewsAPI endpoint.
func (c *Config) GetNewsAPIURL() string {
	if c.NewsAPIURL == "" {
		return DefaultNewsAPIURL
	}
	return c.NewsAPIURL
}

// GetRSSSearchURL returns the RSS search endpoint.
func (c *Config) GetRSSSearchURL() string {
	if c.RSSSearchURL == "" {
		return DefaultRSSSearchURL
	}
	return c.RSSSearchURL
}

// GetPageSize returns the reveal page size, defaulting to DefaultPageSize.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// GetLogLevel returns the log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "newsdesk", "config.json")
}

// Load reads config from disk and applies environment overrides.
// A missing file yields the defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

// applyEnv overrides fields from NEWSDESK_* environment variables.
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"NEWSDESK_EXPLORER_URL":   &c.ExplorerURL,
		"NEWSDESK_PROVIDER":       &c.Provider,
		"NEWSDESK_NEWS_API_URL":   &c.NewsAPIURL,
		"NEWSDESK_NEWS_API_KEY":   &c.NewsAPIKey,
		"NEWSDESK_RSS_SEARCH_URL": &c.RSSSearchURL,
		"NEWSDESK_TOKEN":          &c.Token,
		"NEWSDESK_LOG_LEVEL":      &c.LogLevel,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("NEWSDESK_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(GetConfigPath(), data)
}

// atomicWrite writes data to a temp file next to path and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirPerms); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(DefaultFilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
