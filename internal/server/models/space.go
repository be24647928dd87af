package models

import "time"

// Space is the tenant-scoping entity. All content, events, and media rows
// belong to exactly one space, and a space belongs to exactly one user.
type Space struct {
	ID          string
	UserID      string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
