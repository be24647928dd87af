package models

import "time"

// Video statuses. A row is inserted as "processing" and moves to "ready"
// exactly once, when the host's completion webhook arrives.
const (
	VideoStatusProcessing = "processing"
	VideoStatusReady      = "ready"
	VideoStatusFailed     = "failed"
)

// Video is a media row whose playable identifier is assigned asynchronously.
// Identifier is the client-generated correlation token passed to the video
// host as passthrough metadata and echoed back in the completion webhook.
type Video struct {
	ID          string
	SpaceID     string
	AssetID     string
	PlaybackID  string
	Identifier  string
	Status      string
	Bytes       int64
	Duration    float64
	AspectRatio string
	Alt         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
