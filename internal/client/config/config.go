package config

import "time"

// Config holds runtime settings for the ArtVault CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC AuthService.
//   - APIBaseURL: base URL of the REST API used for artworks.
//   - RequestTimeout: upper bound for a single server call.
type Config struct {
	ServerEndpointAddr string
	APIBaseURL         string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
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
