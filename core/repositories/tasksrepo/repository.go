// Package tasksrepo defines the task entity, its validation rules and the
// repository that fronts task storage.
package tasksrepo

import (
	"context"
	"errors"

	"github.com/jrazmi/todokeeper/sdk/logger"
)

// Storer is the persistence contract for tasks. Every write returns the row
// as stored, read back after the write.
type Storer interface {
	Create(ctx context.Context, input NewTask) (Task, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	List(ctx context.Context, query Query) ([]Task, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	Update(ctx context.Context, id int64, input UpdateTask) (Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}

// Repository provides access to task storage. Not-found and constraint
// errors pass through; anything else comes back as a *ServerError.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository creates a new Task repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

func (r *Repository) Create(ctx context.Context, input NewTask) (Task, error) {
	task, err := r.storer.Create(ctx, input)
	if err != nil {
		return Task{}, r.classify(ctx, "create task", err)
	}
	r.log.DebugContext(ctx, "task created", "task_id", task.ID)
	return task, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Task, error) {
	task, err := r.storer.GetByID(ctx, id)
	if err != nil {
		return Task{}, r.classify(ctx, "get task", err)
	}
	return task, nil
}

func (r *Repository) List(ctx context.Context, query Query) ([]Task, error) {
	tasks, err := r.storer.List(ctx, query)
	if err != nil {
		return nil, r.classify(ctx, "list tasks", err)
	}
	return tasks, nil
}

func (r *Repository) Count(ctx context.Context, filter QueryFilter) (int, error) {
	n, err := r.storer.Count(ctx, filter)
	if err != nil {
		return 0, r.classify(ctx, "count tasks", err)
	}
	return n, nil
}

func (r *Repository) Update(ctx context.Context, id int64, input UpdateTask) (Task, error) {
	task, err := r.storer.Update(ctx, id, input)
	if err != nil {
		return Task{}, r.classify(ctx, "update task", err)
	}
	r.log.DebugContext(ctx, "task updated", "task_id", task.ID)
	return task, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.storer.Delete(ctx, id)
	if err != nil {
		return false, r.classify(ctx, "delete task", err)
	}
	if deleted {
		r.log.DebugContext(ctx, "task deleted", "task_id", id)
	}
	return deleted, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.storer.Ping(ctx); err != nil {
		return r.classify(ctx, "ping task store", err)
	}
	return nil
}

func (r *Repository) classify(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return err
	case errors.Is(err, ErrConstraint):
		r.log.WarnContext(ctx, "constraint violation", "op", op, "err", err)
		return err
	}
	r.log.ErrorContext(ctx, "task storage failure", "op", op, "err", err)
	return &ServerError{Op: op, Err: err}
}
