package domain

import "time"

// Comment is a discussion entry on a task, broadcast to open dashboards
// through the realtime change feed.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
