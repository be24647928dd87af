package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads values from json file", func(t *testing.T) {
		path := writeTempJSON(t, `{
			"server_url": "http://media.example:9090",
			"request_timeout": "5s",
			"image_host_upload_url": "https://img.example/upload",
			"image_host_api_key": "ikey",
			"image_host_upload_preset": "preset"
		}`)
		os.Args = []string{"cli", "-config", path}

		config := &Config{}
		config.LoadDefaults()
		parseJson(config)

		assert.Equal(t, "http://media.example:9090", config.ServerURL)
		assert.Equal(t, 5*time.Second, config.RequestTimeout)
		assert.Equal(t, "https://img.example/upload", config.ImageHostUploadURL)
		assert.Equal(t, "ikey", config.ImageHostAPIKey)
		assert.Equal(t, "preset", config.ImageHostUploadPreset)
	})

	t.Run("no config flag leaves defaults", func(t *testing.T) {
		os.Args = []string{"cli"}

		config := &Config{}
		config.LoadDefaults()
		parseJson(config)

		assert.Equal(t, "http://127.0.0.1:8080", config.ServerURL)
		assert.Equal(t, 30*time.Second, config.RequestTimeout)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := writeTempJSON(t, `{not json`)
		os.Args = []string{"cli", "-config", path}

		config := &Config{}
		config.LoadDefaults()
		assert.Panics(t, func() {
			parseJson(config)
		})
	})
}
