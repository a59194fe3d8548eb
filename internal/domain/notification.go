package domain

import "time"

// Notification is created for a recipient as a side effect of an accepted
// stage transition. Link is stored with the acting user's role-prefixed path
// and remapped per viewer at read time.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Link        string
	IsRead      bool
	CreatedAt   time.Time
}
