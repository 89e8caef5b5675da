package validation

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
)

const (
	queryStatus      = "status"
	queryPriority    = "priority"
	queryAssigneeID  = "assigneeId"
	queryCreatedByID = "createdById"
	queryTags        = "tags"
	queryOverdue     = "overdue"
	querySearch      = "search"
	querySortBy      = "sortBy"
	querySortOrder   = "sortOrder"
	queryPage        = "page"
	querySize        = "size"
)

var allowedQueryKeys = map[string]struct{}{
	queryStatus:      {},
	queryPriority:    {},
	queryAssigneeID:  {},
	queryCreatedByID: {},
	queryTags:        {},
	queryOverdue:     {},
	querySearch:      {},
	querySortBy:      {},
	querySortOrder:   {},
	queryPage:        {},
	querySize:        {},
}

// BuildTaskQuery parses listing parameters strictly: unknown keys and malformed values
// fail with a ValidationError naming the parameter.
func BuildTaskQuery(values url.Values, defaultSize, maxSize int) (domain.TaskQuery, error) {
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	query := domain.TaskQuery{
		Sort: domain.DefaultTaskSort(),
		Page: domain.PageRequest{Page: 0, Size: defaultSize},
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := allowedQueryKeys[key]; !ok {
			return domain.TaskQuery{}, domain.NewValidationError(key, domain.ReasonUnknownKey)
		}
		if key == queryTags {
			query.Filter.Tags = splitTags(values[key])
			continue
		}

		raw := values[key]
		if len(raw) != 1 {
			return domain.TaskQuery{}, domain.NewValidationError(key, domain.ReasonInvalid)
		}
		if err := applyQueryValue(&query, key, strings.TrimSpace(raw[0]), maxSize); err != nil {
			return domain.TaskQuery{}, err
		}
	}

	return query, nil
}

func applyQueryValue(query *domain.TaskQuery, key, value string, maxSize int) error {
	switch key {
	case queryStatus:
		status, err := ParseStatus(key, value)
		if err != nil {
			return err
		}
		query.Filter.Status = &status
	case queryPriority:
		priority, ok := domain.ParseTaskPriority(value)
		if !ok {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Filter.Priority = &priority
	case queryAssigneeID:
		if value == "" {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Filter.AssigneeID = &value
	case queryCreatedByID:
		if value == "" {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Filter.CreatedByID = &value
	case queryOverdue:
		overdue, err := strconv.ParseBool(value)
		if err != nil {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Filter.Overdue = &overdue
	case querySearch:
		query.Filter.Search = value
	case querySortBy:
		sortKey, ok := parseSortKey(value)
		if !ok {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Sort.Key = sortKey
	case querySortOrder:
		direction := domain.SortDirection(strings.ToLower(value))
		if !direction.Valid() {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Sort.Direction = direction
	case queryPage:
		page, err := strconv.Atoi(value)
		if err != nil || page < 0 {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Page.Page = page
	case querySize:
		size, err := strconv.Atoi(value)
		if err != nil || size < 1 || size > maxSize {
			return domain.NewValidationError(key, domain.ReasonInvalid)
		}
		query.Page.Size = size
	}
	return nil
}

func parseSortKey(value string) (domain.SortKey, bool) {
	for _, key := range domain.SortKeys {
		if strings.EqualFold(string(key), value) {
			return key, true
		}
	}
	return "", false
}

// splitTags accepts repeated parameters and comma separated lists.
func splitTags(values []string) []string {
	var tags []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if tag := strings.ToLower(strings.TrimSpace(part)); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
