package models

import "time"

// Well-known tag keys. Keys outside this set are allowed and treated as
// free-form labels.
const (
	TagKeyDate     = "date"
	TagKeyTopic    = "topic"
	TagKeyCategory = "category"
	TagKeyPeople   = "people"
)

// Tag is a key/value label attached to exactly one note. Tags are created
// with their parent note (or appended later) and removed only when the
// note is deleted.
type Tag struct {
	ID     int64  `json:"-"`
	NoteID int64  `json:"-"`
	Key    string `json:"key" validate:"required"`
	Value  string `json:"value" validate:"required"`
}

// Note is a user-authored inspiration note with its classification tags in
// insertion order.
type Note struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
