package videohost

// Webhook event types the server reacts to. Everything else is acknowledged
// and ignored.
const (
	EventAssetReady   = "video.asset.ready"
	EventAssetErrored = "video.asset.errored"
)

// PlaybackID is one playback handle of a transcoded asset.
type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// WebhookAsset is the asset payload carried by asset lifecycle events.
// Passthrough holds the correlation identifier supplied at upload time.
type WebhookAsset struct {
	ID          string       `json:"id" binding:"required"`
	Passthrough string       `json:"passthrough"`
	Duration    float64      `json:"duration"`
	AspectRatio string       `json:"aspect_ratio"`
	PlaybackIDs []PlaybackID `json:"playback_ids"`
}

// WebhookEvent is the envelope the video host POSTs to the webhook endpoint.
type WebhookEvent struct {
	Type string       `json:"type" binding:"required"`
	Data WebhookAsset `json:"data"`
}

// FirstPlaybackID returns the primary playback handle, or "" when the asset
// has none.
func (e *WebhookEvent) FirstPlaybackID() string {
	if len(e.Data.PlaybackIDs) == 0 {
		return ""
	}
	return e.Data.PlaybackIDs[0].ID
}
