// Package taskscase orchestrates every task operation: validation, the
// progress/completion rule and persistence all flow through Case.
package taskscase

import (
	"context"
	"errors"
	"math"
	"net/url"
	"time"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/core/scaffolding/fop"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/jrazmi/todokeeper/sdk/validation"
)

// Clock returns the current time.
type Clock func() time.Time

// Case provides the task operations.
type Case struct {
	log  *logger.Logger
	repo *tasksrepo.Repository
	now  Clock
}

// Option configures a Case.
type Option func(*Case)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now Clock) Option {
	return func(c *Case) {
		c.now = now
	}
}

func NewCase(log *logger.Logger, repo *tasksrepo.Repository, opts ...Option) *Case {
	c := &Case{
		log:  log,
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// today is the current UTC calendar date.
func (c *Case) today() string {
	return validation.FormatDateOnly(c.now())
}

// Sort echoes the effective ordering of a list, using public field names.
type Sort struct {
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// ListResult is one page of tasks plus the metadata describing it.
type ListResult struct {
	Tasks      []tasksrepo.Task      `json:"tasks"`
	Pagination fop.PageInfoOffset    `json:"pagination"`
	Filters    tasksrepo.QueryFilter `json:"filters"`
	Sort       Sort                  `json:"sort"`
}

// Create validates input and stores a new task. Any progress or completed
// values in input are ignored; new tasks start at 0 and not completed.
func (c *Case) Create(ctx context.Context, input tasksrepo.Input) (tasksrepo.Task, error) {
	nt, err := tasksrepo.ValidateForCreate(input)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	nt.Touch(c.now())

	task, err := c.repo.Create(ctx, nt)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	c.log.InfoContext(ctx, "task created", "task_id", task.ID)
	return task, nil
}

// Get returns the task with the given raw id.
func (c *Case) Get(ctx context.Context, rawID string) (tasksrepo.Task, error) {
	id, err := tasksrepo.ParseTaskID(rawID)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	return c.repo.GetByID(ctx, id)
}

// List normalizes values into a query and returns the matching page. The
// total is counted with the same filters.
func (c *Case) List(ctx context.Context, values url.Values) (ListResult, error) {
	q, err := tasksrepo.ParseQuery(values)
	if err != nil {
		return ListResult{}, err
	}

	tasks, err := c.repo.List(ctx, q)
	if err != nil {
		return ListResult{}, err
	}

	total, err := c.repo.Count(ctx, q.Filter)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Tasks:      nonNil(tasks),
		Pagination: fop.NewPageInfoOffset(q.Page, total),
		Filters:    q.Filter,
		Sort:       sortEcho(q.OrderBy),
	}, nil
}

// Update applies a partial update. The task must exist before anything is
// written.
func (c *Case) Update(ctx context.Context, rawID string, input tasksrepo.Input) (tasksrepo.Task, error) {
	id, err := tasksrepo.ParseTaskID(rawID)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	ut, err := tasksrepo.ValidateForUpdate(input)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	return c.update(ctx, id, ut)
}

// UpdateProgress sets only the progress of a task. Other fields in input
// are ignored.
func (c *Case) UpdateProgress(ctx context.Context, rawID string, input tasksrepo.Input) (tasksrepo.Task, error) {
	id, err := tasksrepo.ParseTaskID(rawID)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	progress, ok := input["progress"]
	if !ok {
		return tasksrepo.Task{}, tasksrepo.NewValidationError("progress is required")
	}

	ut, err := tasksrepo.ValidateForUpdate(tasksrepo.Input{"progress": progress})
	if err != nil {
		return tasksrepo.Task{}, err
	}

	return c.update(ctx, id, ut)
}

// ToggleCompletion flips the completed flag of a task.
func (c *Case) ToggleCompletion(ctx context.Context, rawID string) (tasksrepo.Task, error) {
	id, err := tasksrepo.ParseTaskID(rawID)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	current, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return tasksrepo.Task{}, err
	}

	return c.update(ctx, id, tasksrepo.UpdateTask{Completed: validation.BoolPtr(!current.Completed)})
}

// Delete removes a task permanently.
func (c *Case) Delete(ctx context.Context, rawID string) error {
	id, err := tasksrepo.ParseTaskID(rawID)
	if err != nil {
		return err
	}

	deleted, err := c.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return tasksrepo.ErrTaskNotFound
	}

	c.log.InfoContext(ctx, "task deleted", "task_id", id)
	return nil
}

// Overdue lists uncompleted tasks due strictly before today, earliest
// first.
func (c *Case) Overdue(ctx context.Context) ([]tasksrepo.Task, error) {
	today := c.today()

	tasks, err := c.repo.List(ctx, tasksrepo.Query{
		Filter: tasksrepo.QueryFilter{
			Completed: validation.BoolPtr(false),
			DueDateTo: &today,
		},
		OrderBy: fop.NewBy(tasksrepo.OrderByDueDate, fop.ASC),
	})
	if err != nil {
		return nil, err
	}

	overdue := make([]tasksrepo.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate != nil && *t.DueDate < today {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

// Statistics counts tasks by state. Overdue here includes tasks due today.
func (c *Case) Statistics(ctx context.Context) (tasksrepo.Statistics, error) {
	today := c.today()
	open := validation.BoolPtr(false)

	var stats tasksrepo.Statistics
	counts := []struct {
		filter tasksrepo.QueryFilter
		dest   *int
	}{
		{tasksrepo.QueryFilter{}, &stats.Total},
		{tasksrepo.QueryFilter{Completed: validation.BoolPtr(true)}, &stats.Completed},
		{tasksrepo.QueryFilter{Completed: open, ProgressMin: validation.IntPtr(1)}, &stats.InProgress},
		{tasksrepo.QueryFilter{Completed: open, ProgressMax: validation.IntPtr(0)}, &stats.NotStarted},
		{tasksrepo.QueryFilter{Completed: open, DueDateTo: &today}, &stats.Overdue},
	}

	for _, cnt := range counts {
		n, err := c.repo.Count(ctx, cnt.filter)
		if err != nil {
			return tasksrepo.Statistics{}, err
		}
		*cnt.dest = n
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats, nil
}

// Health reports whether the task store is reachable.
func (c *Case) Health(ctx context.Context) error {
	return c.repo.Ping(ctx)
}

func (c *Case) update(ctx context.Context, id int64, ut tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	if _, err := c.repo.GetByID(ctx, id); err != nil {
		return tasksrepo.Task{}, err
	}

	ut = tasksrepo.EnforceBusinessRules(ut)
	ut.Touch(c.now())

	task, err := c.repo.Update(ctx, id, ut)
	if err != nil {
		if errors.Is(err, tasksrepo.ErrTaskNotFound) {
			c.log.WarnContext(ctx, "task vanished during update", "task_id", id)
		}
		return tasksrepo.Task{}, err
	}

	c.log.InfoContext(ctx, "task updated", "task_id", task.ID)
	return task, nil
}

func sortEcho(by fop.By) Sort {
	order := "desc"
	if by.Direction == fop.ASC {
		order = "asc"
	}
	return Sort{
		SortBy:    tasksrepo.SortFieldName(by.Field),
		SortOrder: order,
	}
}

func nonNil(tasks []tasksrepo.Task) []tasksrepo.Task {
	if tasks == nil {
		return []tasksrepo.Task{}
	}
	return tasks
}
