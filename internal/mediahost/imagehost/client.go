package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/dkravets/mediakeeper/internal/common"
)

// Signature is the signed upload grant issued by the server. The client
// includes both values verbatim in the multipart upload form.
type Signature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}

// UploadResult is the subset of the host's upload response the caller needs
// to persist an image row.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Bytes     int64  `json:"bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

// Client uploads image files to the CDN using signatures minted elsewhere.
type Client struct {
	UploadURL    string
	APIKey       string
	UploadPreset string
	HTTPClient   *http.Client
}

// NewClient returns a Client with a default HTTP timeout suitable for
// image-sized payloads.
func NewClient(uploadURL, apiKey, uploadPreset string) *Client {
	return &Client{
		UploadURL:    uploadURL,
		APIKey:       apiKey,
		UploadPreset: uploadPreset,
		HTTPClient:   &http.Client{Timeout: 2 * time.Minute},
	}
}

// Upload sends one file as a signed multipart POST and returns the hosted
// asset metadata. A non-2xx response yields ErrorUploadFailed.
func (c *Client) Upload(ctx context.Context, filename string, data []byte, sig *Signature) (*UploadResult, error) {

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("error building form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("error building form: %w", err)
	}

	fields := map[string]string{
		"api_key":       c.APIKey,
		"timestamp":     strconv.FormatInt(sig.Timestamp, 10),
		"signature":     sig.Signature,
		"upload_preset": c.UploadPreset,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("error building form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("error building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", common.ErrorUploadFailed, resp.StatusCode)
	}

	result := &UploadResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("error decoding upload response: %w", err)
	}

	return result, nil
}
