package models

import "time"

// Content types.
const (
	ContentTypeProject  = "project"
	ContentTypeBlogPost = "blogPost"
	ContentTypeRecipe   = "recipe"
)

// Content statuses.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusArchived  = "archived"
)

// Content is the polymorphic record representing a project, blog post, or
// recipe. Projects attach additional fields via the Project satellite row.
type Content struct {
	ID           string
	SpaceID      string
	Title        string
	Description  string
	ContentType  string
	Status       string
	Tags         []string
	CoverImageID string // empty when no image cover is set
	CoverVideoID string // empty when no video cover is set
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Attached media, loaded via the join tables.
	ImageIDs []string
	VideoIDs []string
}

// Project holds the project-specific satellite fields keyed by content id.
type Project struct {
	ContentID string
	Year      int
	Featured  bool
	Details   []byte // raw JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}
