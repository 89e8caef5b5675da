package domain

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TO_DO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// TaskStatuses lists the statuses in lifecycle order, which is also their sort order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusBlocked,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

func ParseTaskStatus(value string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(value)))
	return status, status.Valid()
}

func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// CanTransitionTo reports whether a task in status s may move to status to.
// Terminal statuses have no outbound transitions; every other status may move to
// any different status.
func (s TaskStatus) CanTransitionTo(to TaskStatus) bool {
	if !s.Valid() || !to.Valid() || s.IsTerminal() {
		return false
	}
	return s != to
}

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "LOW"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityCritical TaskPriority = "CRITICAL"
)

// TaskPriorities lists the priorities from lowest to highest.
var TaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

func ParseTaskPriority(value string) (TaskPriority, bool) {
	priority := TaskPriority(strings.ToUpper(strings.TrimSpace(value)))
	return priority, priority.Valid()
}

func (p TaskPriority) Valid() bool {
	for _, priority := range TaskPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxTagLength         = 50
)

type Task struct {
	ID          string
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	Assignee    *User
	CreatedBy   User
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64

	// Overdue is derived at read time and never persisted.
	Overdue bool
}

func (t Task) AssigneeID() string {
	if t.Assignee == nil {
		return ""
	}
	return t.Assignee.ID
}

func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status.IsTerminal() {
		return false
	}
	return t.DueDate.Before(now)
}

// WithOverdue returns a copy of the task with Overdue computed against now.
func (t Task) WithOverdue(now time.Time) Task {
	t.Overdue = t.IsOverdue(now)
	return t
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
	AssigneeID  *string
	Tags        []string
}

// UpdateTaskInput is a partial update. Nil pointers mean "not present". DescriptionSet
// and DueDateSet distinguish an explicit null (clear) from an omitted field.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Priority       *TaskPriority
	DueDate        *time.Time
	DueDateSet     bool
	Tags           []string
	TagsSet        bool
	Status         *TaskStatus
	AssigneeID     *string
}

func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && !in.DescriptionSet && in.Priority == nil && !in.DueDateSet &&
		!in.TagsSet && in.Status == nil && in.AssigneeID == nil
}

func NormalizeTitle(title string) (string, error) {
	value := strings.TrimSpace(title)
	if value == "" {
		return "", NewValidationError("title", ReasonRequired)
	}
	if utf8.RuneCountInString(value) > MaxTitleLength {
		return "", NewValidationError("title", ReasonTooLong)
	}
	return value, nil
}

func ValidateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return NewValidationError("description", ReasonTooLong)
	}
	return nil
}

// NormalizeTags trims, lower-cases, de-duplicates and sorts tags.
func NormalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := strings.ToLower(strings.TrimSpace(tag))
		if value == "" {
			return nil, NewValidationError("tags", ReasonRequired)
		}
		if utf8.RuneCountInString(value) > MaxTagLength {
			return nil, NewValidationError("tags", ReasonTooLong)
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		normalized = append(normalized, value)
	}
	sort.Strings(normalized)
	return normalized, nil
}

func SameTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StorageTime normalizes a timestamp to the microsecond UTC precision the database keeps.
func StorageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NextUpdatedAt returns a timestamp strictly after prev, using now when the clock has
// advanced and prev plus one microsecond otherwise.
func NextUpdatedAt(prev, now time.Time) time.Time {
	next := StorageTime(now)
	if !next.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return next
}
