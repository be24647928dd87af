package config

import "time"

// Config holds runtime settings for the MediaKeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - RequestTimeout: per-request timeout for API calls (uploads excluded).
//   - ImageHostUploadURL: direct-upload endpoint of the image CDN.
//   - ImageHostAPIKey: public API key sent with each image upload.
//   - ImageHostUploadPreset: unsigned-upload preset name.
//
// Image bytes go straight from the CLI to the image host; only the upload
// signature comes from the backend, so the host settings live client-side.
type Config struct {
	ServerURL             string
	RequestTimeout        time.Duration
	ImageHostUploadURL    string
	ImageHostAPIKey       string
	ImageHostUploadPreset string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.ImageHostUploadURL = "https://api.cloudinary.com/v1_1/mediakeeper/image/upload"
	c.ImageHostAPIKey = ""
	c.ImageHostUploadPreset = "mediakeeper"
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
