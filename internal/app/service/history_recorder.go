package service

import (
	"strings"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/google/uuid"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
	FieldTags        = "tags"
	FieldStatus      = "status"
	FieldAssignee    = "assignee"
)

// HistoryRecorder builds audit entries. It never persists anything itself: entries are
// handed to the task repository together with the change they describe.
type HistoryRecorder struct {
	newID func() string
}

func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{newID: uuid.NewString}
}

func (r *HistoryRecorder) Created(task domain.Task, by domain.User, at time.Time) domain.HistoryEntry {
	return r.entry(task.ID, domain.HistoryActionCreated, "", nil, stringPtr(task.Title), by, at)
}

func (r *HistoryRecorder) StatusChanged(taskID string, from, to domain.TaskStatus, by domain.User, at time.Time) domain.HistoryEntry {
	return r.entry(taskID, domain.HistoryActionStatusChanged, FieldStatus, stringPtr(string(from)), stringPtr(string(to)), by, at)
}

func (r *HistoryRecorder) Assigned(taskID string, from, to *domain.User, by domain.User, at time.Time) domain.HistoryEntry {
	return r.entry(taskID, domain.HistoryActionAssigned, FieldAssignee, userIDPtr(from), userIDPtr(to), by, at)
}

func (r *HistoryRecorder) FieldUpdated(taskID, field string, oldValue, newValue *string, by domain.User, at time.Time) domain.HistoryEntry {
	return r.entry(taskID, domain.HistoryActionFieldUpdated, field, oldValue, newValue, by, at)
}

func (r *HistoryRecorder) Deleted(task domain.Task, by domain.User, at time.Time) domain.HistoryEntry {
	return r.entry(task.ID, domain.HistoryActionDeleted, "", stringPtr(task.Title), nil, by, at)
}

func (r *HistoryRecorder) entry(
	taskID string,
	action domain.HistoryAction,
	field string,
	oldValue, newValue *string,
	by domain.User,
	at time.Time,
) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		ID:          r.newID(),
		TaskID:      taskID,
		Action:      action,
		OldValue:    oldValue,
		NewValue:    newValue,
		PerformedBy: by,
		PerformedAt: at,
	}
	if field != "" {
		entry.Field = stringPtr(field)
	}
	return entry
}

func stringPtr(value string) *string {
	return &value
}

func userIDPtr(u *domain.User) *string {
	if u == nil {
		return nil
	}
	return stringPtr(u.ID)
}

func timeValue(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return stringPtr(t.UTC().Format(time.RFC3339))
}

func tagsValue(tags []string) *string {
	return stringPtr(strings.Join(tags, ","))
}

func sameStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
