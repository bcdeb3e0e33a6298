package tasksrepo

import "time"

// MaxTitleLength is the longest title accepted, counted in characters after
// trimming.
const MaxTitleLength = 500

// Task is a single TODO item.
type Task struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	DueDate   *string   `json:"dueDate" db:"due_date"`
	Progress  int       `json:"progress" db:"progress"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewTask contains the fields for creating a task. Progress and Completed are
// always 0 and false at creation, so they are not part of the payload.
type NewTask struct {
	Title     string
	DueDate   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateTask carries a partial update. Nil fields are left untouched. A
// DueDate pointing at the empty string clears the due date.
type UpdateTask struct {
	Title     *string
	DueDate   *string
	Progress  *int
	Completed *bool
	UpdatedAt *time.Time
}

// Empty reports whether the update carries no field changes.
func (u UpdateTask) Empty() bool {
	return u.Title == nil && u.DueDate == nil && u.Progress == nil && u.Completed == nil
}

// ClearsDueDate reports whether the update removes the due date.
func (u UpdateTask) ClearsDueDate() bool {
	return u.DueDate != nil && *u.DueDate == ""
}

// Touch stamps the update with now when it changes anything.
func (u *UpdateTask) Touch(now time.Time) {
	if u.Empty() {
		return
	}
	now = now.UTC()
	u.UpdatedAt = &now
}

// Touch stamps both timestamps of a new task.
func (n *NewTask) Touch(now time.Time) {
	now = now.UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
}

// Statistics summarises the task table.
type Statistics struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	NotStarted     int `json:"notStarted"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}
