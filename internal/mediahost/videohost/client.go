// Package videohost talks to a Mux-compatible video transcoding host.
// The server issues direct upload URLs carrying a passthrough identifier,
// the client PUTs the raw file to that URL, and the host later reports the
// transcoded asset back through a webhook (see webhook.go).
package videohost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dkravets/mediakeeper/internal/common"
)

// Client calls the video host's REST API using basic-auth API tokens.
type Client struct {
	BaseURL     string
	TokenID     string
	TokenSecret string
	HTTPClient  *http.Client
}

// NewClient returns a Client with a generous HTTP timeout; video uploads
// can be large.
func NewClient(baseURL, tokenID, tokenSecret string) *Client {
	return &Client{
		BaseURL:     baseURL,
		TokenID:     tokenID,
		TokenSecret: tokenSecret,
		HTTPClient:  &http.Client{Timeout: 10 * time.Minute},
	}
}

type createUploadRequest struct {
	CorsOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

type newAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
	EncodingTier   string   `json:"encoding_tier"`
	Passthrough    string   `json:"passthrough"`
}

type createUploadResponse struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}

// CreateUploadURL asks the host for a one-shot direct upload URL. The
// passthrough identifier is attached to the resulting asset and echoed back
// in the asset-ready webhook, which is how uploads are correlated to rows.
func (c *Client) CreateUploadURL(ctx context.Context, passthrough string) (string, error) {

	reqBody := createUploadRequest{
		CorsOrigin: "*",
		NewAssetSettings: newAssetSettings{
			PlaybackPolicy: []string{"public"},
			EncodingTier:   "baseline",
			Passthrough:    passthrough,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/video/v1/uploads", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.TokenID, c.TokenSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error requesting upload url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", common.ErrorUploadFailed, resp.StatusCode)
	}

	var out createUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("error decoding upload url response: %w", err)
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("%w: empty upload url", common.ErrorUploadFailed)
	}

	return out.Data.URL, nil
}

// UploadFile PUTs the raw file bytes to a previously issued upload URL.
func (c *Client) UploadFile(ctx context.Context, uploadURL, contentType string, data []byte) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error uploading file: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", common.ErrorUploadFailed, resp.StatusCode)
	}

	return nil
}
