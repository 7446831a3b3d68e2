// Package config handles configuration for the offline gateway daemon,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the gateway.
//
// Fields:
//   - ListenAddr: bind address for the local HTTP front.
//   - ShellOrigin: the upstream origin the application shell is served from.
//   - DocStoreEndpoint / AIEndpoint: the live-data origins, never cached.
//   - DataDir: directory for the cache database.
//   - AutoActivate: activate a fresh generation immediately instead of
//     waiting for the skip-waiting message.
type Config struct {
	ListenAddr       string
	ShellOrigin      string
	DocStoreEndpoint string
	AIEndpoint       string
	DataDir          string
	AutoActivate     bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8787"
	c.ShellOrigin = "https://app.snipai.dev"
	c.DocStoreEndpoint = "https://api.snipai.dev/v1"
	c.AIEndpoint = "https://api.groq.com"
	c.DataDir = "."
	c.AutoActivate = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
