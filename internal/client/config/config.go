// Package config holds runtime settings for the snipai CLI.
package config

import "time"

// Config holds runtime settings for the CLI client.
//
// AutosaveDelay is the trailing debounce for the editor autosave;
// SearchDebounce is the (shorter) debounce for list searches.
type Config struct {
	DocStoreEndpoint string
	AIEndpoint       string
	DatabaseID       string
	CollectionID     string
	DataDir          string
	AutosaveDelay    time.Duration
	SearchDebounce   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DocStoreEndpoint = "https://api.snipai.dev/v1"
	c.AIEndpoint = "https://api.groq.com"
	c.DatabaseID = "snipai"
	c.CollectionID = "snippets"
	c.DataDir = "."
	c.AutosaveDelay = 2 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
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
