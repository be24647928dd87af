package models

import "time"

// Image is a fully resolved media row: the upload to the image host is
// synchronous, so URL and dimensions are known at insert time.
type Image struct {
	ID        string
	SpaceID   string
	PublicID  string
	URL       string
	Bytes     int64
	Width     int
	Height    int
	Format    string
	Alt       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
