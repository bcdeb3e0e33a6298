// Package tasksrepotest holds a conformance suite every tasksrepo.Storer
// implementation runs against.
package tasksrepotest

import (
	"context"
	"testing"
	"time"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/core/scaffolding/fop"
	"github.com/jrazmi/todokeeper/sdk/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) tasksrepo.Storer

var base = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func newTask(title string, due *string, offset time.Duration) tasksrepo.NewTask {
	nt := tasksrepo.NewTask{Title: title, DueDate: due}
	nt.Touch(base.Add(offset))
	return nt
}

func seed(t *testing.T, s tasksrepo.Storer, inputs ...tasksrepo.NewTask) []tasksrepo.Task {
	t.Helper()
	out := make([]tasksrepo.Task, len(inputs))
	for i, in := range inputs {
		task, err := s.Create(context.Background(), in)
		require.NoError(t, err)
		out[i] = task
	}
	return out
}

func ids(tasks []tasksrepo.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// Run exercises the Storer contract.
func Run(t *testing.T, factory Factory) {
	t.Run("create and get", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()

		created, err := s.Create(ctx, newTask("Write report", validation.StringPtr("2025-09-15"), 0))
		require.NoError(t, err)
		assert.Positive(t, created.ID)
		assert.Equal(t, "Write report", created.Title)
		require.NotNil(t, created.DueDate)
		assert.Equal(t, "2025-09-15", *created.DueDate)
		assert.Zero(t, created.Progress)
		assert.False(t, created.Completed)
		assert.True(t, base.Equal(created.CreatedAt))
		assert.True(t, base.Equal(created.UpdatedAt))

		got, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, *created.DueDate, *got.DueDate)

		second, err := s.Create(ctx, newTask("Second", nil, time.Second))
		require.NoError(t, err)
		assert.Greater(t, second.ID, created.ID)
		assert.Nil(t, second.DueDate)
	})

	t.Run("get missing", func(t *testing.T) {
		s := factory(t)
		_, err := s.GetByID(context.Background(), 999)
		assert.ErrorIs(t, err, tasksrepo.ErrTaskNotFound)
	})

	t.Run("update fields", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		task := seed(t, s, newTask("Old", validation.StringPtr("2025-09-15"), 0))[0]

		later := base.Add(time.Hour)
		updated, err := s.Update(ctx, task.ID, tasksrepo.UpdateTask{
			Title:     validation.StringPtr("New"),
			Progress:  validation.IntPtr(40),
			UpdatedAt: &later,
		})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, 40, updated.Progress)
		assert.Equal(t, "2025-09-15", *updated.DueDate)
		assert.True(t, later.Equal(updated.UpdatedAt))
		assert.True(t, base.Equal(updated.CreatedAt))

		cleared, err := s.Update(ctx, task.ID, tasksrepo.UpdateTask{DueDate: validation.StringPtr("")})
		require.NoError(t, err)
		assert.Nil(t, cleared.DueDate)
	})

	t.Run("empty update returns current row", func(t *testing.T) {
		s := factory(t)
		task := seed(t, s, newTask("Same", nil, 0))[0]

		got, err := s.Update(context.Background(), task.ID, tasksrepo.UpdateTask{})
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.True(t, task.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("update missing", func(t *testing.T) {
		s := factory(t)
		_, err := s.Update(context.Background(), 404, tasksrepo.UpdateTask{Title: validation.StringPtr("x")})
		assert.ErrorIs(t, err, tasksrepo.ErrTaskNotFound)
	})

	t.Run("completing forces full progress in storage", func(t *testing.T) {
		s := factory(t)
		task := seed(t, s, newTask("Done", nil, 0))[0]

		got, err := s.Update(context.Background(), task.ID, tasksrepo.UpdateTask{Completed: validation.BoolPtr(true)})
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, 100, got.Progress)
	})

	t.Run("constraint violations", func(t *testing.T) {
		s := factory(t)
		task := seed(t, s, newTask("Bounded", nil, 0))[0]

		_, err := s.Update(context.Background(), task.ID, tasksrepo.UpdateTask{Progress: validation.IntPtr(101)})
		assert.ErrorIs(t, err, tasksrepo.ErrConstraint)

		_, err = s.Create(context.Background(), newTask("", nil, 0))
		assert.ErrorIs(t, err, tasksrepo.ErrConstraint)
	})

	t.Run("delete", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		task := seed(t, s, newTask("Gone", nil, 0))[0]

		deleted, err := s.Delete(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, tasksrepo.ErrTaskNotFound)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		tasks := seed(t, s,
			newTask("a", validation.StringPtr("2025-09-10"), 0),
			newTask("b", validation.StringPtr("2025-09-20"), time.Second),
			newTask("c", nil, 2*time.Second),
			newTask("d", validation.StringPtr("2025-09-15"), 3*time.Second),
		)
		_, err := s.Update(ctx, tasks[1].ID, tasksrepo.UpdateTask{Progress: validation.IntPtr(50)})
		require.NoError(t, err)
		_, err = s.Update(ctx, tasks[3].ID, tasksrepo.UpdateTask{Completed: validation.BoolPtr(true)})
		require.NoError(t, err)

		byID := tasksrepo.Query{OrderBy: fop.NewBy(tasksrepo.OrderByPK, fop.ASC)}

		q := byID
		q.Filter = tasksrepo.QueryFilter{Completed: validation.BoolPtr(false)}
		got, err := s.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID}, ids(got))

		q.Filter = tasksrepo.QueryFilter{
			DueDateFrom: validation.StringPtr("2025-09-10"),
			DueDateTo:   validation.StringPtr("2025-09-15"),
		}
		got, err = s.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[0].ID, tasks[3].ID}, ids(got))

		q.Filter = tasksrepo.QueryFilter{
			Completed:   validation.BoolPtr(false),
			ProgressMin: validation.IntPtr(1),
			ProgressMax: validation.IntPtr(99),
		}
		got, err = s.List(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[1].ID}, ids(got))

		n, err := s.Count(ctx, tasksrepo.QueryFilter{Completed: validation.BoolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = s.Count(ctx, tasksrepo.QueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("ordering and paging", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		tasks := seed(t, s,
			newTask("a", validation.StringPtr("2025-09-20"), 0),
			newTask("b", nil, time.Second),
			newTask("c", validation.StringPtr("2025-09-10"), 2*time.Second),
			newTask("d", nil, 3*time.Second),
			newTask("e", validation.StringPtr("2025-09-10"), 4*time.Second),
		)

		got, err := s.List(ctx, tasksrepo.Query{OrderBy: tasksrepo.DefaultOrderBy})
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[4].ID, tasks[3].ID, tasks[2].ID, tasks[1].ID, tasks[0].ID}, ids(got))

		got, err = s.List(ctx, tasksrepo.Query{OrderBy: fop.NewBy(tasksrepo.OrderByDueDate, fop.ASC)})
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[2].ID, tasks[4].ID, tasks[0].ID, tasks[1].ID, tasks[3].ID}, ids(got))

		got, err = s.List(ctx, tasksrepo.Query{OrderBy: fop.NewBy(tasksrepo.OrderByDueDate, fop.DESC)})
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[0].ID, tasks[4].ID, tasks[2].ID, tasks[3].ID, tasks[1].ID}, ids(got))

		got, err = s.List(ctx, tasksrepo.Query{
			OrderBy: fop.NewBy(tasksrepo.OrderByPK, fop.ASC),
			Page:    fop.PageOffset{Limit: 2, Offset: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[2].ID, tasks[3].ID}, ids(got))

		got, err = s.List(ctx, tasksrepo.Query{
			OrderBy: fop.NewBy(tasksrepo.OrderByPK, fop.ASC),
			Page:    fop.PageOffset{Offset: 4},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{tasks[4].ID}, ids(got))
	})

	t.Run("ping", func(t *testing.T) {
		s := factory(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
