// Package taskspgxstore implements tasksrepo.Storer on PostgreSQL via pgx.
package taskspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/infrastructure/postgresdb"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/jrazmi/todokeeper/sdk/validation"
)

const columns = `id, title, due_date, progress, completed, created_at, updated_at`

// Store provides PostgreSQL access for tasks.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// taskRow mirrors the tasks table. due_date is a DATE column and is
// converted to its YYYY-MM-DD form on the way out.
type taskRow struct {
	ID        int64       `db:"id"`
	Title     string      `db:"title"`
	DueDate   pgtype.Date `db:"due_date"`
	Progress  int         `db:"progress"`
	Completed bool        `db:"completed"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r taskRow) toTask() tasksrepo.Task {
	t := tasksrepo.Task{
		ID:        r.ID,
		Title:     r.Title,
		Progress:  r.Progress,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.DueDate.Valid {
		t.DueDate = validation.StringPtr(validation.FormatDateOnly(r.DueDate.Time))
	}
	return t
}

func toDate(s *string) (pgtype.Date, error) {
	if s == nil || *s == "" {
		return pgtype.Date{}, nil
	}
	d, err := validation.ParseDateOnly(*s)
	if err != nil {
		return pgtype.Date{}, err
	}
	return pgtype.Date{Time: d, Valid: true}, nil
}

func (s *Store) Create(ctx context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	due, err := toDate(input.DueDate)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("due date: %w", err)
	}

	query := `INSERT INTO tasks (title, due_date, progress, completed, created_at, updated_at)
		VALUES (@title, @due_date, 0, FALSE, @created_at, @updated_at)
		RETURNING ` + columns

	args := pgx.NamedArgs{
		"title":      input.Title,
		"due_date":   due,
		"created_at": input.CreatedAt,
		"updated_at": input.UpdatedAt,
	}

	return s.queryOne(ctx, query, args)
}

func (s *Store) GetByID(ctx context.Context, id int64) (tasksrepo.Task, error) {
	query := `SELECT ` + columns + ` FROM tasks WHERE id = @id`
	return s.queryOne(ctx, query, pgx.NamedArgs{"id": id})
}

func (s *Store) List(ctx context.Context, q tasksrepo.Query) ([]tasksrepo.Task, error) {
	data := pgx.NamedArgs{}
	buf := bytes.NewBufferString(`SELECT ` + columns + ` FROM tasks`)

	where, err := applyFilter(q.Filter, data)
	if err != nil {
		return nil, err
	}
	where.Write(buf)

	nullable := q.OrderBy.Field == tasksrepo.OrderByDueDate
	if err := postgresdb.AddOrderByClause(buf, q.OrderBy.Field, tasksrepo.OrderByPK, q.OrderBy.Direction, nullable); err != nil {
		return nil, err
	}

	if !q.Page.Unbounded() {
		postgresdb.AddLimitClause(q.Page.Limit, data, buf)
	}
	postgresdb.AddOffsetClause(q.Page.Offset, data, buf)

	rows, err := s.pool.Query(ctx, buf.String(), data)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, s.mapError(err)
	}

	tasks := make([]tasksrepo.Task, len(records))
	for i, r := range records {
		tasks[i] = r.toTask()
	}
	return tasks, nil
}

func (s *Store) Count(ctx context.Context, filter tasksrepo.QueryFilter) (int, error) {
	data := pgx.NamedArgs{}
	buf := bytes.NewBufferString(`SELECT COUNT(*) FROM tasks`)

	where, err := applyFilter(filter, data)
	if err != nil {
		return 0, err
	}
	where.Write(buf)

	var n int
	if err := s.pool.QueryRow(ctx, buf.String(), data).Scan(&n); err != nil {
		return 0, s.mapError(err)
	}
	return n, nil
}

// Update applies the set fields of input. An empty update writes nothing and
// returns the current row.
func (s *Store) Update(ctx context.Context, id int64, input tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	if input.Empty() {
		return s.GetByID(ctx, id)
	}

	var fields []string
	data := pgx.NamedArgs{
		"id": id,
	}

	if input.Title != nil {
		fields = append(fields, "title = @title")
		data["title"] = *input.Title
	}
	if input.DueDate != nil {
		due, err := toDate(input.DueDate)
		if err != nil {
			return tasksrepo.Task{}, fmt.Errorf("due date: %w", err)
		}
		fields = append(fields, "due_date = @due_date")
		data["due_date"] = due
	}
	if input.Progress != nil {
		fields = append(fields, "progress = @progress")
		data["progress"] = *input.Progress
	}
	if input.Completed != nil {
		fields = append(fields, "completed = @completed")
		data["completed"] = *input.Completed
	}
	if input.UpdatedAt != nil {
		fields = append(fields, "updated_at = @updated_at")
		data["updated_at"] = *input.UpdatedAt
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = @id RETURNING %s`, strings.Join(fields, ", "), columns)

	return s.queryOne(ctx, query, data)
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, s.mapError(err)
	}
	return result.RowsAffected() > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return postgresdb.StatusCheck(ctx, s.pool)
}

func (s *Store) queryOne(ctx context.Context, query string, args pgx.NamedArgs) (tasksrepo.Task, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, s.mapError(err)
	}
	defer rows.Close()

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return tasksrepo.Task{}, s.mapError(err)
	}
	return record.toTask(), nil
}

func (s *Store) mapError(err error) error {
	err = postgresdb.HandlePgError(err)
	switch {
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return tasksrepo.ErrTaskNotFound
	case errors.Is(err, postgresdb.ErrCheckViolation):
		return fmt.Errorf("%w: %v", tasksrepo.ErrConstraint, err)
	}
	return err
}

func applyFilter(filter tasksrepo.QueryFilter, data pgx.NamedArgs) (postgresdb.Where, error) {
	var where postgresdb.Where

	if filter.Completed != nil {
		where.Add("completed = @completed")
		data["completed"] = *filter.Completed
	}
	if filter.DueDateFrom != nil {
		d, err := toDate(filter.DueDateFrom)
		if err != nil {
			return where, fmt.Errorf("due date from: %w", err)
		}
		where.Add("due_date >= @due_date_from")
		data["due_date_from"] = d
	}
	if filter.DueDateTo != nil {
		d, err := toDate(filter.DueDateTo)
		if err != nil {
			return where, fmt.Errorf("due date to: %w", err)
		}
		where.Add("due_date <= @due_date_to")
		data["due_date_to"] = d
	}
	if filter.ProgressMin != nil {
		where.Add("progress >= @progress_min")
		data["progress_min"] = *filter.ProgressMin
	}
	if filter.ProgressMax != nil {
		where.Add("progress <= @progress_max")
		data["progress_max"] = *filter.ProgressMax
	}

	return where, nil
}
