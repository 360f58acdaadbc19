package config

import "time"

// Config holds runtime settings for the gym CLI.
//
// Fields:
//   - APIBaseURL: base URL of the gym REST API, including the version prefix.
//   - StoreDriver: credential store backend (sqlite, bolt or memory).
//   - StorePath: file of the credential store; "~/" is expanded.
//   - StoreKeyPath: key file sealing stored credentials; empty disables sealing.
//   - RequestTimeout: timeout of a single HTTP exchange and of a token refresh.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - ExpirySkew: access tokens expiring within the skew are refreshed before use.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string
	StoreDriver         string
	StorePath           string
	StoreKeyPath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	ExpirySkew          time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1.0"
	c.StoreDriver = "sqlite"
	c.StorePath = "~/.gymclient/session.db"
	c.StoreKeyPath = "~/.gymclient/session.key"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.ExpirySkew = 30 * time.Second
	c.LogLevel = "warn"
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
