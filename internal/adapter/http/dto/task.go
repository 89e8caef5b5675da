package dto

type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type TaskItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     *string      `json:"dueDate"`
	Assignee    *UserSummary `json:"assignee"`
	CreatedBy   UserSummary  `json:"createdBy"`
	Tags        []string     `json:"tags"`
	Overdue     bool         `json:"overdue"`
	Version     int64        `json:"version"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

type TaskDetail struct {
	TaskItem
	Comments []CommentItem      `json:"comments"`
	History  []HistoryEntryItem `json:"history"`
}

type TaskPage struct {
	Content       []TaskItem `json:"content"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}

type HistoryEntryItem struct {
	ID          string      `json:"id"`
	TaskID      string      `json:"taskId"`
	Action      string      `json:"action"`
	Field       *string     `json:"field,omitempty"`
	OldValue    *string     `json:"oldValue,omitempty"`
	NewValue    *string     `json:"newValue,omitempty"`
	PerformedBy UserSummary `json:"performedBy"`
	PerformedAt string      `json:"performedAt"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     *string  `json:"dueDate"`
	AssigneeID  *string  `json:"assigneeId"`
	Tags        []string `json:"tags" binding:"omitempty,dive,max=50"`
}

// UpdateTaskRequest is decoded alongside the raw body so explicit nulls can be told apart
// from omitted fields.
type UpdateTaskRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     *string  `json:"dueDate"`
	AssigneeID  *string  `json:"assigneeId"`
	Tags        []string `json:"tags" binding:"omitempty,dive,max=50"`
}

type AssignTaskRequest struct {
	AssigneeID     string `json:"assigneeId" binding:"required"`
	NotifyAssignee *bool  `json:"notifyAssignee"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notify *bool  `json:"notify"`
}
