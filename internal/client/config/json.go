package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkravets/mediakeeper/internal/flagx"
	"github.com/dkravets/mediakeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerURL             string         `json:"server_url"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	ImageHostUploadURL    string         `json:"image_host_upload_url"`
	ImageHostAPIKey       string         `json:"image_host_api_key"`
	ImageHostUploadPreset string         `json:"image_host_upload_preset"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.ImageHostUploadURL = jc.ImageHostUploadURL
	cfg.ImageHostAPIKey = jc.ImageHostAPIKey
	cfg.ImageHostUploadPreset = jc.ImageHostUploadPreset
}
