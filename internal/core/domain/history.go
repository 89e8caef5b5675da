package domain

import "time"

type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "CREATED"
	HistoryActionStatusChanged HistoryAction = "STATUS_CHANGED"
	HistoryActionAssigned      HistoryAction = "ASSIGNED"
	HistoryActionFieldUpdated  HistoryAction = "FIELD_UPDATED"
	HistoryActionDeleted       HistoryAction = "DELETED"
)

// HistoryEntry is an immutable audit record. Seq is assigned by the store on insert and
// breaks ties between entries sharing a timestamp.
type HistoryEntry struct {
	ID          string
	Seq         int64
	TaskID      string
	Action      HistoryAction
	Field       *string
	OldValue    *string
	NewValue    *string
	PerformedBy User
	PerformedAt time.Time
}

// TaskDetail is a task with its comments and audit trail.
type TaskDetail struct {
	Task     Task
	Comments []Comment
	History  []HistoryEntry
}
