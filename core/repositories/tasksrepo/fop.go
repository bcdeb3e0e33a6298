package tasksrepo

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jrazmi/todokeeper/core/scaffolding/fop"
	"github.com/jrazmi/todokeeper/sdk/validation"
)

// Storage columns a task list can be ordered by.
const (
	OrderByPK        = "id"
	OrderByTitle     = "title"
	OrderByDueDate   = "due_date"
	OrderByProgress  = "progress"
	OrderByCompleted = "completed"
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
)

// DefaultOrderBy is newest first.
var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.DESC)

// orderByFields maps the public sortBy names onto storage columns.
var orderByFields = map[string]string{
	"id":        OrderByPK,
	"title":     OrderByTitle,
	"dueDate":   OrderByDueDate,
	"progress":  OrderByProgress,
	"completed": OrderByCompleted,
	"createdAt": OrderByCreatedAt,
	"updatedAt": OrderByUpdatedAt,
}

// SortFieldName maps a storage column back to its public sortBy name.
func SortFieldName(column string) string {
	for name, col := range orderByFields {
		if col == column {
			return name
		}
	}
	return column
}

// QueryFilter holds the available fields a query can be filtered on. All
// set fields are combined with AND; date bounds are inclusive.
type QueryFilter struct {
	Completed   *bool   `json:"completed,omitempty"`
	DueDateFrom *string `json:"dueDateFrom,omitempty"`
	DueDateTo   *string `json:"dueDateTo,omitempty"`
	ProgressMin *int    `json:"progressMin,omitempty"`
	ProgressMax *int    `json:"progressMax,omitempty"`
}

// Query is the normalized form of a list request.
type Query struct {
	Filter  QueryFilter
	OrderBy fop.By
	Page    fop.PageOffset
}

// ParseQuery turns raw query-string values into a Query. Malformed typed
// values fail together in one ValidationError naming each field. Unknown
// sortBy or sortOrder values fall back to the defaults, empty values count
// as absent and unrecognized parameters are ignored.
func ParseQuery(values url.Values) (Query, error) {
	verr := &ValidationError{}
	q := Query{OrderBy: DefaultOrderBy}

	get := func(key string) string {
		return strings.TrimSpace(values.Get(key))
	}

	switch v := get("completed"); v {
	case "":
	case "true":
		q.Filter.Completed = validation.BoolPtr(true)
	case "false":
		q.Filter.Completed = validation.BoolPtr(false)
	default:
		verr.Add("completed must be true or false")
	}

	if v := get("dueDateFrom"); v != "" {
		if validation.IsDateOnly(v) {
			q.Filter.DueDateFrom = &v
		} else {
			verr.Add("dueDateFrom must be a valid date in YYYY-MM-DD format")
		}
	}

	if v := get("dueDateTo"); v != "" {
		if validation.IsDateOnly(v) {
			q.Filter.DueDateTo = &v
		} else {
			verr.Add("dueDateTo must be a valid date in YYYY-MM-DD format")
		}
	}

	if v := get("progressMin"); v != "" {
		if p, ok := parseProgressBound(v); ok {
			q.Filter.ProgressMin = &p
		} else {
			verr.Add("progressMin must be an integer between 0 and 100")
		}
	}

	if v := get("progressMax"); v != "" {
		if p, ok := parseProgressBound(v); ok {
			q.Filter.ProgressMax = &p
		} else {
			verr.Add("progressMax must be an integer between 0 and 100")
		}
	}

	q.OrderBy = fop.ParseOrder(orderByFields, get("sortBy"), get("sortOrder"), DefaultOrderBy)

	limit, err := fop.ParseLimit(get("limit"))
	if err != nil {
		verr.Add("%s", err)
	}
	offset, err := fop.ParseOffset(get("offset"))
	if err != nil {
		verr.Add("%s", err)
	}
	q.Page = fop.PageOffset{Limit: limit, Offset: offset}

	if err := verr.OrNil(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseProgressBound(s string) (int, bool) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 0 || p > 100 {
		return 0, false
	}
	return p, true
}
