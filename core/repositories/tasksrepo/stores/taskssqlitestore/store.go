// Package taskssqlitestore implements tasksrepo.Storer on SQLite via gorm.
package taskssqlitestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/core/scaffolding/fop"
	"github.com/jrazmi/todokeeper/infrastructure/sqlitedb"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// taskModel maps the tasks table. Timestamps come from the caller's clock,
// so gorm's automatic stamping is off.
type taskModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null"`
	DueDate   *string   `gorm:"column:due_date"`
	Progress  int       `gorm:"column:progress;not null"`
	Completed bool      `gorm:"column:completed;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (taskModel) TableName() string {
	return "tasks"
}

func (m taskModel) toTask() tasksrepo.Task {
	return tasksrepo.Task{
		ID:        m.ID,
		Title:     m.Title,
		DueDate:   m.DueDate,
		Progress:  m.Progress,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Store provides SQLite access for tasks.
type Store struct {
	log *logger.Logger
	db  *gorm.DB
}

func NewStore(log *logger.Logger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

func (s *Store) Create(ctx context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	m := taskModel{
		Title:     input.Title,
		DueDate:   input.DueDate,
		CreatedAt: input.CreatedAt,
		UpdatedAt: input.UpdatedAt,
	}

	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return tasksrepo.Task{}, mapError(err)
	}

	return s.GetByID(ctx, m.ID)
}

func (s *Store) GetByID(ctx context.Context, id int64) (tasksrepo.Task, error) {
	var m taskModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return tasksrepo.Task{}, mapError(err)
	}
	return m.toTask(), nil
}

func (s *Store) List(ctx context.Context, q tasksrepo.Query) ([]tasksrepo.Task, error) {
	tx := s.db.WithContext(ctx).Model(&taskModel{}).Scopes(filtered(q.Filter), ordered(q.OrderBy))

	if !q.Page.Unbounded() {
		tx = tx.Limit(q.Page.Limit)
	}
	if q.Page.Offset > 0 {
		tx = tx.Offset(q.Page.Offset)
	}

	var models []taskModel
	if err := tx.Find(&models).Error; err != nil {
		return nil, mapError(err)
	}

	tasks := make([]tasksrepo.Task, len(models))
	for i, m := range models {
		tasks[i] = m.toTask()
	}
	return tasks, nil
}

func (s *Store) Count(ctx context.Context, filter tasksrepo.QueryFilter) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&taskModel{}).Scopes(filtered(filter)).Count(&n).Error; err != nil {
		return 0, mapError(err)
	}
	return int(n), nil
}

// Update applies the set fields of input and reads the row back, since
// triggers may have adjusted it. An empty update returns the current row.
func (s *Store) Update(ctx context.Context, id int64, input tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	if input.Empty() {
		return s.GetByID(ctx, id)
	}

	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.DueDate != nil {
		if input.ClearsDueDate() {
			fields["due_date"] = nil
		} else {
			fields["due_date"] = *input.DueDate
		}
	}
	if input.Progress != nil {
		fields["progress"] = *input.Progress
	}
	if input.Completed != nil {
		fields["completed"] = *input.Completed
	}
	if input.UpdatedAt != nil {
		fields["updated_at"] = *input.UpdatedAt
	}

	result := s.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", id).Updates(fields)
	if err := result.Error; err != nil {
		return tasksrepo.Task{}, mapError(err)
	}
	if result.RowsAffected == 0 {
		return tasksrepo.Task{}, tasksrepo.ErrTaskNotFound
	}

	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, mapError(err)
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return sqlitedb.StatusCheck(ctx, s.db)
}

func filtered(filter tasksrepo.QueryFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if filter.Completed != nil {
			tx = tx.Where("completed = ?", *filter.Completed)
		}
		if filter.DueDateFrom != nil {
			tx = tx.Where("due_date >= ?", *filter.DueDateFrom)
		}
		if filter.DueDateTo != nil {
			tx = tx.Where("due_date <= ?", *filter.DueDateTo)
		}
		if filter.ProgressMin != nil {
			tx = tx.Where("progress >= ?", *filter.ProgressMin)
		}
		if filter.ProgressMax != nil {
			tx = tx.Where("progress <= ?", *filter.ProgressMax)
		}
		return tx
	}
}

var sortable = map[string]bool{
	tasksrepo.OrderByPK:        true,
	tasksrepo.OrderByTitle:     true,
	tasksrepo.OrderByDueDate:   true,
	tasksrepo.OrderByProgress:  true,
	tasksrepo.OrderByCompleted: true,
	tasksrepo.OrderByCreatedAt: true,
	tasksrepo.OrderByUpdatedAt: true,
}

// ordered sorts by the requested column with id as tie-break. Unknown
// columns fall back to the default order. NULL due dates go last.
func ordered(by fop.By) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if !sortable[by.Field] {
			by = tasksrepo.DefaultOrderBy
		}
		dir := fop.ASC
		if by.Direction == fop.DESC {
			dir = fop.DESC
		}

		if by.Field == tasksrepo.OrderByDueDate {
			tx = tx.Order("due_date IS NULL")
		}
		tx = tx.Order(by.Field + " " + dir)
		if by.Field != tasksrepo.OrderByPK {
			tx = tx.Order(tasksrepo.OrderByPK + " " + dir)
		}
		return tx
	}
}

func mapError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tasksrepo.ErrTaskNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", tasksrepo.ErrConstraint, sqliteErr)
	}

	return err
}
