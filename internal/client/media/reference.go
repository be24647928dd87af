// Package media implements the client side of media attachment: splitting a
// batch of local files by kind, uploading each subset, holding the selected
// references in an ordered store, and resolving pending video references as
// change notifications arrive.
package media

// Kind distinguishes the two media types handled by the upload flow.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Reference is one selected media item. An image reference is resolved at
// creation; a video reference starts pending and gains its Locator when the
// host finishes processing.
type Reference struct {
	// ClientID is the correlation token assigned at upload time. It matches
	// the completion notification back to this reference.
	ClientID string

	Kind Kind

	// Locator is the usable address of the media: a URL for images, a
	// playback identifier for videos. Empty while a video is processing.
	Locator string

	// PersistentID is the database row id, set once the reference has been
	// written to the backend.
	PersistentID string
}

// Resolved reports whether the reference is ready for display.
func (r Reference) Resolved() bool {
	return r.Locator != ""
}

// Equal compares two references by correlation token when both carry one,
// falling back to kind plus locator for references loaded from persisted
// attachments.
func (r Reference) Equal(other Reference) bool {
	if r.ClientID != "" && other.ClientID != "" {
		return r.ClientID == other.ClientID
	}
	return r.Kind == other.Kind && r.Locator == other.Locator
}
