package domain

import "time"

// TaskEvent is an audit log entry for a lifecycle transition. It is written
// in the same transaction as the task update, so the trail never disagrees
// with the task row.
type TaskEvent struct {
	ID        string
	TaskID    string
	ActorID   *string // nil for system events
	Action    Action
	OldStage  Stage
	NewStage  Stage
	OldStatus TaskStatus
	NewStatus TaskStatus
	Note      string
	CreatedAt time.Time
}

// IsSystemEvent returns true if the event was created by the system.
func (e *TaskEvent) IsSystemEvent() bool {
	return e.ActorID == nil
}
