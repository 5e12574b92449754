// Package config loads runtime settings for the ShareStory client.
package config

import "time"

// Config holds runtime settings for the ShareStory client.
//
// Fields:
//   - APIBaseURL: base URL of the remote story API, including the version
//     prefix (e.g. https://story-api.dicoding.dev/v1).
//   - DatabasePath: path of the local SQLite story store.
//   - RequestTimeout: per-request timeout of the HTTP client.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://story-api.dicoding.dev/v1"
	c.DatabasePath = "stories.db"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
