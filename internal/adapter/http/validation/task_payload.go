package validation

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

// dateLayouts are tried in order for dueDate values.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var taskUpdateFields = []string{"title", "description", "status", "priority", "dueDate", "assigneeId", "tags"}

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	input := domain.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}

	if hasJSONField(raw, "status") {
		status, err := parseStatus(req.Status)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		input.Status = &status
	}

	if hasJSONField(raw, "priority") {
		priority, err := parsePriority(req.Priority)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		input.Priority = &priority
	}

	if req.DueDate != nil {
		dueDate, err := ParseDate("dueDate", *req.DueDate)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		input.DueDate = &dueDate
	}

	if req.AssigneeID != nil {
		if value := strings.TrimSpace(*req.AssigneeID); value != "" {
			input.AssigneeID = &value
		}
	}

	return input, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasAnyJSONField(raw, taskUpdateFields...) {
		return domain.UpdateTaskInput{}, domain.NewValidationError("body", domain.ReasonRequired)
	}

	var input domain.UpdateTaskInput

	if hasJSONField(raw, "title") {
		if req.Title == nil {
			return domain.UpdateTaskInput{}, domain.NewValidationError("title", domain.ReasonRequired)
		}
		input.Title = req.Title
	}

	if hasJSONField(raw, "description") {
		input.DescriptionSet = true
		input.Description = req.Description
	}

	if hasJSONField(raw, "status") {
		status, err := parseStatus(req.Status)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.Status = &status
	}

	if hasJSONField(raw, "priority") {
		priority, err := parsePriority(req.Priority)
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.Priority = &priority
	}

	if hasJSONField(raw, "dueDate") {
		input.DueDateSet = true
		if !isJSONNull(raw["dueDate"]) {
			if req.DueDate == nil {
				return domain.UpdateTaskInput{}, domain.NewValidationError("dueDate", domain.ReasonInvalid)
			}
			dueDate, err := ParseDate("dueDate", *req.DueDate)
			if err != nil {
				return domain.UpdateTaskInput{}, err
			}
			input.DueDate = &dueDate
		}
	}

	if hasJSONField(raw, "assigneeId") {
		if req.AssigneeID == nil || strings.TrimSpace(*req.AssigneeID) == "" {
			return domain.UpdateTaskInput{}, domain.NewValidationError("assigneeId", domain.ReasonInvalid)
		}
		value := strings.TrimSpace(*req.AssigneeID)
		input.AssigneeID = &value
	}

	if hasJSONField(raw, "tags") {
		input.TagsSet = true
		input.Tags = req.Tags
		if input.Tags == nil {
			input.Tags = []string{}
		}
	}

	return input, nil
}

// ParseStatus reads a status value from a request body or query.
func ParseStatus(field, value string) (domain.TaskStatus, error) {
	status, ok := domain.ParseTaskStatus(value)
	if !ok {
		return "", domain.NewValidationError(field, domain.ReasonInvalid)
	}
	return status, nil
}

// ParseDate accepts RFC 3339 timestamps, local date-times (read as UTC) and plain dates.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError(field, domain.ReasonInvalid)
}

func parseStatus(value *string) (domain.TaskStatus, error) {
	if value == nil {
		return "", domain.NewValidationError("status", domain.ReasonInvalid)
	}
	return ParseStatus("status", *value)
}

func parsePriority(value *string) (domain.TaskPriority, error) {
	if value == nil {
		return "", domain.NewValidationError("priority", domain.ReasonInvalid)
	}
	priority, ok := domain.ParseTaskPriority(*value)
	if !ok {
		return "", domain.NewValidationError("priority", domain.ReasonInvalid)
	}
	return priority, nil
}

func hasAnyJSONField(raw map[string]json.RawMessage, fields ...string) bool {
	for _, field := range fields {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
