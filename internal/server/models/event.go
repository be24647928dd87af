package models

import "time"

// Event types.
const (
	EventTypeExhibition = "exhibition"
	EventTypeScreening  = "screening"
	EventTypeWorkshop   = "workshop"
	EventTypeConference = "conference"
	EventTypeMeetup     = "meetup"
	EventTypeOther      = "other"
)

// Event statuses.
const (
	EventStatusDraft     = "draft"
	EventStatusScheduled = "scheduled"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCanceled  = "canceled"
)

type Event struct {
	ID           string
	SpaceID      string
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time // zero when open-ended
	Location     string
	Client       string
	Link         string
	Type         string
	Status       string
	Details      []byte // raw JSON
	CoverImageID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
