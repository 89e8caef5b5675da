package validation

import (
	"testing"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeUpdate(t *testing.T, body string) (domain.UpdateTaskInput, error) {
	t.Helper()

	var req dto.UpdateTaskRequest
	raw, err := DecodeJSON([]byte(body), &req)
	require.NoError(t, err)
	return BuildUpdateTaskInput(req, raw)
}

func decodeCreate(t *testing.T, body string) (domain.CreateTaskInput, error) {
	t.Helper()

	var req dto.CreateTaskRequest
	raw, err := DecodeJSON([]byte(body), &req)
	require.NoError(t, err)
	return BuildCreateTaskInput(req, raw)
}

func TestBuildCreateTaskInput(t *testing.T) {
	RegisterJSONFieldNames()

	input, err := decodeCreate(t, `{"title":"Ship","status":"in_progress","priority":"high","dueDate":"2026-04-01","assigneeId":" u2 ","tags":["a"]}`)

	require.NoError(t, err)
	assert.Equal(t, "Ship", input.Title)
	assert.Equal(t, domain.TaskStatusInProgress, *input.Status)
	assert.Equal(t, domain.TaskPriorityHigh, *input.Priority)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *input.DueDate)
	assert.Equal(t, "u2", *input.AssigneeID)
	assert.Equal(t, []string{"a"}, input.Tags)
}

func TestBuildCreateTaskInput_Defaults(t *testing.T) {
	RegisterJSONFieldNames()

	input, err := decodeCreate(t, `{"title":"Ship","assigneeId":""}`)

	require.NoError(t, err)
	assert.Nil(t, input.Status)
	assert.Nil(t, input.Priority)
	assert.Nil(t, input.DueDate)
	assert.Nil(t, input.AssigneeID)
}

func TestBuildCreateTaskInput_Invalid(t *testing.T) {
	RegisterJSONFieldNames()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "status", body: `{"title":"x","status":"DONE"}`, field: "status"},
		{name: "null status", body: `{"title":"x","status":null}`, field: "status"},
		{name: "priority", body: `{"title":"x","priority":"urgent"}`, field: "priority"},
		{name: "due date", body: `{"title":"x","dueDate":"next week"}`, field: "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeCreate(t, tt.body)

			requireValidationError(t, err, tt.field, domain.ReasonInvalid)
		})
	}
}

func TestBuildUpdateTaskInput(t *testing.T) {
	RegisterJSONFieldNames()

	input, err := decodeUpdate(t, `{"description":null,"dueDate":null,"tags":null,"priority":"LOW"}`)

	require.NoError(t, err)
	assert.True(t, input.DescriptionSet)
	assert.Nil(t, input.Description)
	assert.True(t, input.DueDateSet)
	assert.Nil(t, input.DueDate)
	assert.True(t, input.TagsSet)
	assert.Equal(t, []string{}, input.Tags)
	assert.Equal(t, domain.TaskPriorityLow, *input.Priority)
	assert.Nil(t, input.Title)
	assert.Nil(t, input.Status)
}

func TestBuildUpdateTaskInput_Invalid(t *testing.T) {
	RegisterJSONFieldNames()

	tests := []struct {
		name   string
		body   string
		field  string
		reason string
	}{
		{name: "no known fields", body: `{"owner":"me"}`, field: "body", reason: domain.ReasonRequired},
		{name: "null title", body: `{"title":null}`, field: "title", reason: domain.ReasonRequired},
		{name: "blank assignee", body: `{"assigneeId":"  "}`, field: "assigneeId", reason: domain.ReasonInvalid},
		{name: "null assignee", body: `{"assigneeId":null}`, field: "assigneeId", reason: domain.ReasonInvalid},
		{name: "bad due date", body: `{"dueDate":"31/12/2026"}`, field: "dueDate", reason: domain.ReasonInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeUpdate(t, tt.body)

			requireValidationError(t, err, tt.field, tt.reason)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

	for _, value := range []string{"2026-04-01T10:30:00+02:00", "2026-04-01T08:30:00", "2026-04-01T08:30", " 2026-04-01T08:30:00Z "} {
		got, err := ParseDate("dueDate", value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
		assert.Equal(t, time.UTC, got.Location(), value)
	}
}
