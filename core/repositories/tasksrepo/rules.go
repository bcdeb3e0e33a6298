package tasksrepo

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jrazmi/todokeeper/sdk/validation"
)

// Input is a decoded JSON request body. Keeping it untyped lets validation
// report a wrong type per field instead of failing the whole decode.
type Input map[string]any

// ValidateForCreate checks a create payload and returns the trimmed task.
// Any progress or completed values in the input are ignored.
func ValidateForCreate(in Input) (NewTask, error) {
	verr := &ValidationError{}
	var nt NewTask

	raw, ok := in["title"]
	switch title, isString := raw.(string); {
	case !ok || raw == nil:
		verr.Add("title is required")
	case !isString:
		verr.Add("title must be a string")
	default:
		if t, ok := checkTitle(verr, title); ok {
			nt.Title = t
		}
	}

	if raw, ok := in["dueDate"]; ok && raw != nil {
		if d, ok := checkDueDate(verr, raw); ok {
			nt.DueDate = &d
		}
	}

	if err := verr.OrNil(); err != nil {
		return NewTask{}, err
	}
	return nt, nil
}

// ValidateForUpdate checks a partial update. Only fields present in the
// input are validated and carried over. A null dueDate clears the date.
func ValidateForUpdate(in Input) (UpdateTask, error) {
	verr := &ValidationError{}
	var ut UpdateTask

	if raw, ok := in["title"]; ok {
		if title, isString := raw.(string); !isString {
			verr.Add("title must be a string")
		} else if t, ok := checkTitle(verr, title); ok {
			ut.Title = &t
		}
	}

	if raw, ok := in["dueDate"]; ok {
		if raw == nil {
			ut.DueDate = validation.StringPtr("")
		} else if d, ok := checkDueDate(verr, raw); ok {
			ut.DueDate = &d
		}
	}

	if raw, ok := in["progress"]; ok {
		if p, ok := checkProgress(verr, raw); ok {
			ut.Progress = &p
		}
	}

	if raw, ok := in["completed"]; ok {
		if c, isBool := raw.(bool); !isBool {
			verr.Add("completed must be a boolean")
		} else {
			ut.Completed = &c
		}
	}

	if err := verr.OrNil(); err != nil {
		return UpdateTask{}, err
	}
	return ut, nil
}

// EnforceBusinessRules applies the progress/completed coupling to a partial
// update:
//
//   - progress 100 marks the task completed, unless completed=false is
//     supplied alongside it.
//   - completed=true raises progress to 100.
//
// completed=false never lowers progress and progress below 100 never clears
// completed. Applying the function to its own output changes nothing.
func EnforceBusinessRules(u UpdateTask) UpdateTask {
	if u.Progress != nil && *u.Progress == 100 && (u.Completed == nil || *u.Completed) {
		u.Completed = validation.BoolPtr(true)
	}
	if u.Completed != nil && *u.Completed && (u.Progress == nil || *u.Progress < 100) {
		u.Progress = validation.IntPtr(100)
	}
	return u
}

// ParseTaskID parses a path id into a positive task id.
func ParseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError("task id must be a positive integer")
	}
	return id, nil
}

func checkTitle(verr *ValidationError, title string) (string, bool) {
	t := strings.TrimSpace(title)
	switch {
	case t == "":
		verr.Add("title cannot be empty")
		return "", false
	case utf8.RuneCountInString(t) > MaxTitleLength:
		verr.Add("title must be %d characters or fewer", MaxTitleLength)
		return "", false
	}
	return t, true
}

func checkDueDate(verr *ValidationError, raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		verr.Add("dueDate must be a string in YYYY-MM-DD format or null")
		return "", false
	}
	if _, err := validation.ParseDateOnly(s); err != nil {
		verr.Add("dueDate must be a valid date in YYYY-MM-DD format")
		return "", false
	}
	return s, true
}

func checkProgress(verr *ValidationError, raw any) (int, bool) {
	f, ok := number(raw)
	if !ok {
		verr.Add("progress must be a number")
		return 0, false
	}
	if f < 0 || f > 100 {
		verr.Add("progress must be between 0 and 100")
		return 0, false
	}
	p, ok := validation.AsInt(raw)
	if !ok {
		verr.Add("progress must be an integer")
		return 0, false
	}
	return p, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
