package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkravets/mediakeeper/internal/flagx"
	"github.com/dkravets/mediakeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ImageHostUploadURL           string         `json:"image_host_upload_url"`
	ImageHostAPIKey              string         `json:"image_host_api_key"`
	ImageHostAPISecret           string         `json:"image_host_api_secret"`
	ImageHostUploadPreset        string         `json:"image_host_upload_preset"`
	VideoHostBaseURL             string         `json:"video_host_base_url"`
	VideoHostTokenID             string         `json:"video_host_token_id"`
	VideoHostTokenSecret         string         `json:"video_host_token_secret"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is the -c or -config command-line
// flags. If neither is set, no JSON file is loaded and the Config is left
// untouched. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	config.ImageHostUploadURL = c.ImageHostUploadURL
	config.ImageHostAPIKey = c.ImageHostAPIKey
	config.ImageHostAPISecret = c.ImageHostAPISecret
	config.ImageHostUploadPreset = c.ImageHostUploadPreset
	config.VideoHostBaseURL = c.VideoHostBaseURL
	config.VideoHostTokenID = c.VideoHostTokenID
	config.VideoHostTokenSecret = c.VideoHostTokenSecret
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
