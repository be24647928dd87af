// Package api implements the HTTP client for the MediaKeeper backend.
// It keeps the token pair in memory and retries a request once after a
// transparent refresh when the access token has expired.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/mediahost/imagehost"
)

// Client talks JSON over HTTP to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Tokens returns the current token pair.
func (c *Client) Tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// SetTokens replaces the stored token pair, e.g. after loading a session.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

// doJSON performs one JSON round trip. A nil out skips decoding the body.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.mu.Lock()
		token := c.accessToken
		c.mu.Unlock()
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return common.ErrorNotFound
	case resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return common.ErrorForbidden
	default:
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}
}

// call performs an authenticated request, refreshing the token pair once if
// the access token has expired.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	err := c.doJSON(ctx, method, path, in, out, true)
	if errors.Is(err, common.ErrorUnauthorized) {
		c.mu.Lock()
		refresh := c.refreshToken
		c.mu.Unlock()
		if refresh == "" {
			return err
		}
		if rerr := c.Refresh(ctx); rerr != nil {
			return err
		}
		return c.doJSON(ctx, method, path, in, out, true)
	}
	return err
}

// --- auth ---

func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) error {
	in := map[string]string{
		"email": email, "password": password,
		"first_name": firstName, "last_name": lastName,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", in, nil, false)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	in := map[string]string{"email": email, "password": password}
	var out tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", in, &out, false); err != nil {
		return err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return nil
}

func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()

	in := map[string]string{"refresh_token": refresh}
	var out tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", in, &out, false); err != nil {
		return err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return nil
}

// --- spaces ---

func (c *Client) CreateSpace(ctx context.Context, name, description string) (*Space, error) {
	in := map[string]string{"name": name, "description": description}
	var out Space
	if err := c.call(ctx, http.MethodPost, "/api/spaces", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSpaces(ctx context.Context) ([]Space, error) {
	var out []Space
	if err := c.call(ctx, http.MethodGet, "/api/spaces", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- uploads ---

// ImageSignature obtains a one-time signed upload grant for the image host.
func (c *Client) ImageSignature(ctx context.Context) (*imagehost.Signature, error) {
	var out imagehost.Signature
	if err := c.call(ctx, http.MethodPost, "/api/uploads/image-signature", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VideoUploadURL obtains a direct upload URL bound to the correlation
// identifier.
func (c *Client) VideoUploadURL(ctx context.Context, identifier string) (string, error) {
	in := map[string]string{"identifier": identifier}
	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/uploads/video-url", in, &out); err != nil {
		return "", err
	}
	return out.UploadURL, nil
}

// --- media ---

// CreateImages persists a batch of uploaded images in one call. Row ids come
// back in input order.
func (c *Client) CreateImages(ctx context.Context, spaceID string, images []ImagePayload) ([]Image, error) {
	in := createImagesRequest{SpaceID: spaceID, Images: images}
	var out []Image
	if err := c.call(ctx, http.MethodPost, "/api/images", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateVideo inserts the processing-state row for an uploaded video.
func (c *Client) CreateVideo(ctx context.Context, spaceID, identifier string, bytes int64) (*Video, error) {
	in := createVideoRequest{SpaceID: spaceID, Identifier: identifier, Bytes: bytes}
	var out Video
	if err := c.call(ctx, http.MethodPost, "/api/videos", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListVideos(ctx context.Context, spaceID string) ([]Video, error) {
	var out []Video
	if err := c.call(ctx, http.MethodGet, "/api/videos?space_id="+spaceID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListImages(ctx context.Context, spaceID string) ([]Image, error) {
	var out []Image
	if err := c.call(ctx, http.MethodGet, "/api/images?space_id="+spaceID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- content ---

// CreateContent persists a content record together with the selected media
// ids as join rows.
func (c *Client) CreateContent(ctx context.Context, content *ContentPayload) (*Content, error) {
	var out Content
	if err := c.call(ctx, http.MethodPost, "/api/content", content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListContent(ctx context.Context, spaceID, contentType string) ([]Content, error) {
	path := "/api/content?space_id=" + spaceID
	if contentType != "" {
		path += "&type=" + contentType
	}
	var out []Content
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
