package domain

import "time"

type SortKey string

const (
	SortByTitle     SortKey = "title"
	SortByStatus    SortKey = "status"
	SortByPriority  SortKey = "priority"
	SortByDueDate   SortKey = "dueDate"
	SortByCreatedAt SortKey = "createdAt"
	SortByUpdatedAt SortKey = "updatedAt"
)

var SortKeys = []SortKey{
	SortByTitle,
	SortByStatus,
	SortByPriority,
	SortByDueDate,
	SortByCreatedAt,
	SortByUpdatedAt,
}

func (k SortKey) Valid() bool {
	for _, key := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// TaskFilter is a conjunction of optional predicates. Tags match when a task carries
// any of them.
type TaskFilter struct {
	Status      *TaskStatus
	Priority    *TaskPriority
	AssigneeID  *string
	CreatedByID *string
	Tags        []string
	Overdue     *bool
	Search      string
}

type TaskSort struct {
	Key       SortKey
	Direction SortDirection
}

func DefaultTaskSort() TaskSort {
	return TaskSort{Key: SortByCreatedAt, Direction: SortDesc}
}

type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// PastEnd reports whether the page starts at or after the last of total rows. Callers
// check it before Offset, which would overflow for huge page indexes.
func (p PageRequest) PastEnd(total int64) bool {
	if p.Size <= 0 {
		return true
	}
	return int64(p.Page) >= (total+int64(p.Size)-1)/int64(p.Size)
}

type TaskQuery struct {
	Filter TaskFilter
	Sort   TaskSort
	Page   PageRequest

	// Set by the service, never by callers.
	VisibleTo *string
	Now       time.Time
}

// Validate enforces the strict listing contract for queries built outside the HTTP layer.
func (q TaskQuery) Validate(maxPageSize int) error {
	if q.Filter.Status != nil && !q.Filter.Status.Valid() {
		return NewValidationError("status", ReasonInvalid)
	}
	if q.Filter.Priority != nil && !q.Filter.Priority.Valid() {
		return NewValidationError("priority", ReasonInvalid)
	}
	if !q.Sort.Key.Valid() {
		return NewValidationError("sortBy", ReasonInvalid)
	}
	if !q.Sort.Direction.Valid() {
		return NewValidationError("sortOrder", ReasonInvalid)
	}
	if q.Page.Page < 0 {
		return NewValidationError("page", ReasonInvalid)
	}
	if q.Page.Size < 1 || q.Page.Size > maxPageSize {
		return NewValidationError("size", ReasonInvalid)
	}
	return nil
}

type Page[T any] struct {
	Content       []T
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPage builds a page envelope; TotalPages is ceil(total/size).
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
