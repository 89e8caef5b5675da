package db

import (
	"fmt"
	"strings"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

// likeEscape is accepted by both MySQL and SQLite. Backslash is not, because MySQL treats
// it as a string literal escape.
const likeEscape = "!"

type builtTaskQuery struct {
	where   string
	orderBy string
	args    []any
}

func buildTaskQuery(query domain.TaskQuery) builtTaskQuery {
	var (
		conditions []string
		args       []any
	)

	if query.VisibleTo != nil {
		conditions = append(conditions, "(t.created_by_id = ? OR t.assignee_id = ?)")
		args = append(args, *query.VisibleTo, *query.VisibleTo)
	}

	filter := query.Filter
	if filter.Status != nil {
		conditions = append(conditions, "t.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		conditions = append(conditions, "t.priority = ?")
		args = append(args, string(*filter.Priority))
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, "t.assignee_id = ?")
		args = append(args, *filter.AssigneeID)
	}
	if filter.CreatedByID != nil {
		conditions = append(conditions, "t.created_by_id = ?")
		args = append(args, *filter.CreatedByID)
	}
	if tags := filterTags(filter.Tags); len(tags) > 0 {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag IN (?))")
		args = append(args, tags)
	}
	if filter.Overdue != nil {
		overdue := fmt.Sprintf("(t.due_date IS NOT NULL AND t.due_date < ? AND t.status NOT IN ('%s', '%s'))",
			domain.TaskStatusCompleted, domain.TaskStatusCancelled)
		if !*filter.Overdue {
			overdue = "NOT " + overdue
		}
		conditions = append(conditions, overdue)
		args = append(args, query.Now)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(t.title) LIKE ? ESCAPE '%[1]s' OR LOWER(COALESCE(t.description, '')) LIKE ? ESCAPE '%[1]s')", likeEscape))
		args = append(args, pattern, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = "\nWHERE " + strings.Join(conditions, "\n  AND ")
	}

	return builtTaskQuery{
		where:   where,
		orderBy: "\nORDER BY " + orderByClause(query.Sort),
		args:    args,
	}
}

// orderByClause always ends with the id so pages are stable across requests.
func orderByClause(sort domain.TaskSort) string {
	direction := "DESC"
	if sort.Direction == domain.SortAsc {
		direction = "ASC"
	}

	var key string
	switch sort.Key {
	case domain.SortByTitle:
		key = "LOWER(t.title) " + direction
	case domain.SortByStatus:
		key = rankExpression("t.status", statusStrings()) + " " + direction
	case domain.SortByPriority:
		key = rankExpression("t.priority", priorityStrings()) + " " + direction
	case domain.SortByDueDate:
		// Tasks without a due date go last in both directions.
		key = "CASE WHEN t.due_date IS NULL THEN 1 ELSE 0 END ASC, t.due_date " + direction
	case domain.SortByUpdatedAt:
		key = "t.updated_at " + direction
	default:
		key = "t.created_at " + direction
	}
	return key + ", t.id ASC"
}

func rankExpression(column string, values []string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, value := range values {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", value, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(values))
	return b.String()
}

func statusStrings() []string {
	values := make([]string, 0, len(domain.TaskStatuses))
	for _, status := range domain.TaskStatuses {
		values = append(values, string(status))
	}
	return values
}

func priorityStrings() []string {
	values := make([]string, 0, len(domain.TaskPriorities))
	for _, priority := range domain.TaskPriorities {
		values = append(values, string(priority))
	}
	return values
}

func filterTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if value := strings.ToLower(strings.TrimSpace(tag)); value != "" {
			normalized = append(normalized, value)
		}
	}
	return normalized
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return replacer.Replace(value)
}
