package mapper

import (
	"time"

	"github.com/vijaynvb/fullstackapp/internal/adapter/http/dto"
	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

// Timestamps keep sub-second precision so consecutive updates stay distinguishable.
const timestampLayout = time.RFC3339Nano

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:        task.ID,
		Title:     task.Title,
		Status:    string(task.Status),
		Priority:  string(task.Priority),
		CreatedBy: ToUserSummary(task.CreatedBy),
		Tags:      task.Tags,
		Overdue:   task.Overdue,
		Version:   task.Version,
		CreatedAt: formatTime(task.CreatedAt),
		UpdatedAt: formatTime(task.UpdatedAt),
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.DueDate != nil {
		value := task.DueDate.UTC().Format(time.RFC3339)
		item.DueDate = &value
	}

	if task.Assignee != nil {
		assignee := ToUserSummary(*task.Assignee)
		item.Assignee = &assignee
	}

	return item
}

func ToTaskDetail(detail domain.TaskDetail) dto.TaskDetail {
	return dto.TaskDetail{
		TaskItem: ToTaskItem(detail.Task),
		Comments: ToCommentItems(detail.Comments),
		History:  ToHistoryEntryItems(detail.History),
	}
}

func ToTaskPage(page domain.Page[domain.Task]) dto.TaskPage {
	return dto.TaskPage{
		Content:       ToTaskItems(page.Content),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

func ToHistoryEntryItems(entries []domain.HistoryEntry) []dto.HistoryEntryItem {
	items := make([]dto.HistoryEntryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntryItem{
			ID:          entry.ID,
			TaskID:      entry.TaskID,
			Action:      string(entry.Action),
			Field:       entry.Field,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			PerformedBy: ToUserSummary(entry.PerformedBy),
			PerformedAt: formatTime(entry.PerformedAt),
		})
	}
	return items
}

func ToCommentItems(comments []domain.Comment) []dto.CommentItem {
	items := make([]dto.CommentItem, 0, len(comments))
	for _, comment := range comments {
		items = append(items, ToCommentItem(comment))
	}
	return items
}

func ToCommentItem(comment domain.Comment) dto.CommentItem {
	item := dto.CommentItem{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Text:      comment.Text,
		Author:    ToUserSummary(comment.Author),
		CreatedAt: formatTime(comment.CreatedAt),
	}
	if comment.UpdatedAt != nil {
		value := formatTime(*comment.UpdatedAt)
		item.UpdatedAt = &value
	}
	return item
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
