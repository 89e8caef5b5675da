package domain

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	for _, from := range TaskStatuses {
		for _, to := range TaskStatuses {
			want := !from.IsTerminal() && from != to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, TaskStatusTodo.CanTransitionTo("DONE"))
	assert.False(t, TaskStatus("DONE").CanTransitionTo(TaskStatusTodo))
}

func TestParseTaskStatusAndPriority(t *testing.T) {
	status, ok := ParseTaskStatus(" in_progress ")
	require.True(t, ok)
	require.Equal(t, TaskStatusInProgress, status)

	_, ok = ParseTaskStatus("done")
	require.False(t, ok)

	priority, ok := ParseTaskPriority("critical")
	require.True(t, ok)
	require.Equal(t, TaskPriorityCritical, priority)

	_, ok = ParseTaskPriority("urgent")
	require.False(t, ok)
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		due    *time.Time
		status TaskStatus
		want   bool
	}{
		{name: "no due date", status: TaskStatusTodo},
		{name: "due in the future", due: &future, status: TaskStatusTodo},
		{name: "past due and open", due: &past, status: TaskStatusBlocked, want: true},
		{name: "past due but completed", due: &past, status: TaskStatusCompleted},
		{name: "past due but cancelled", due: &past, status: TaskStatusCancelled},
		{name: "due exactly now", due: &now, status: TaskStatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{DueDate: tt.due, Status: tt.status}
			assert.Equal(t, tt.want, task.IsOverdue(now))
			assert.Equal(t, tt.want, task.WithOverdue(now).Overdue)
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	title, err := NormalizeTitle("  Ship it  ")
	require.NoError(t, err)
	require.Equal(t, "Ship it", title)

	_, err = NormalizeTitle(strings.Repeat("é", MaxTitleLength))
	require.NoError(t, err)

	_, err = NormalizeTitle(strings.Repeat("a", MaxTitleLength+1))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, ReasonTooLong, validationErr.Reason)

	_, err = NormalizeTitle(" \t ")
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, ReasonRequired, validationErr.Reason)
}

func TestNormalizeTags(t *testing.T) {
	tags, err := NormalizeTags([]string{" Backend", "urgent", "backend", "API"})
	require.NoError(t, err)
	require.Equal(t, []string{"api", "backend", "urgent"}, tags)

	tags, err = NormalizeTags(nil)
	require.NoError(t, err)
	require.Empty(t, tags)
	require.NotNil(t, tags)

	_, err = NormalizeTags([]string{strings.Repeat("x", MaxTagLength+1)})
	require.Error(t, err)
}

func TestNextUpdatedAt_IsStrictlyIncreasing(t *testing.T) {
	prev := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.Equal(t, prev.Add(time.Second), NextUpdatedAt(prev, prev.Add(time.Second)))
	require.Equal(t, prev.Add(time.Microsecond), NextUpdatedAt(prev, prev))
	require.Equal(t, prev.Add(time.Microsecond), NextUpdatedAt(prev, prev.Add(-time.Hour)))
	require.Equal(t, prev.Add(time.Microsecond), NextUpdatedAt(prev, prev.Add(500*time.Nanosecond)))
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, PageRequest{Page: 2, Size: 2}, 5)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 2, page.Page)

	empty := NewPage[int](nil, PageRequest{Page: 0, Size: 10}, 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)

	exact := NewPage([]int{1}, PageRequest{Page: 0, Size: 5}, 10)
	assert.Equal(t, 2, exact.TotalPages)
}

func TestPageRequest_PastEnd(t *testing.T) {
	tests := []struct {
		name  string
		page  PageRequest
		total int64
		want  bool
	}{
		{name: "first page", page: PageRequest{Page: 0, Size: 10}, total: 5},
		{name: "last partial page", page: PageRequest{Page: 2, Size: 2}, total: 5},
		{name: "one past the end", page: PageRequest{Page: 3, Size: 2}, total: 5, want: true},
		{name: "exact multiple", page: PageRequest{Page: 2, Size: 5}, total: 10, want: true},
		{name: "no rows", page: PageRequest{Page: 0, Size: 10}, total: 0, want: true},
		{name: "overflowing index", page: PageRequest{Page: math.MaxInt, Size: 100}, total: 5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.PastEnd(tt.total))
		})
	}
}

func TestTaskQuery_Validate(t *testing.T) {
	valid := TaskQuery{Sort: DefaultTaskSort(), Page: PageRequest{Page: 0, Size: 10}}
	require.NoError(t, valid.Validate(100))

	bad := "NOPE"
	badStatus := TaskStatus(bad)

	tests := []struct {
		name  string
		edit  func(q *TaskQuery)
		field string
	}{
		{name: "status", edit: func(q *TaskQuery) { q.Filter.Status = &badStatus }, field: "status"},
		{name: "sort key", edit: func(q *TaskQuery) { q.Sort.Key = "owner" }, field: "sortBy"},
		{name: "direction", edit: func(q *TaskQuery) { q.Sort.Direction = "up" }, field: "sortOrder"},
		{name: "negative page", edit: func(q *TaskQuery) { q.Page.Page = -1 }, field: "page"},
		{name: "zero size", edit: func(q *TaskQuery) { q.Page.Size = 0 }, field: "size"},
		{name: "oversized", edit: func(q *TaskQuery) { q.Page.Size = 101 }, field: "size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.edit(&q)

			err := q.Validate(100)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tt.field, validationErr.Field)
		})
	}
}
