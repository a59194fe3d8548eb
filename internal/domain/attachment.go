package domain

import "time"

// Attachment records a deliverable file uploaded for a task. Attachments are
// append-only: nothing is mutated after creation except IsFinal, which may be
// flipped to true exactly once.
type Attachment struct {
	ID         string
	TaskID     string
	FileURL    string
	FileName   string
	UploadedBy string
	IsFinal    bool
	CreatedAt  time.Time
}
