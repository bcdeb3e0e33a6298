package tasksrepo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorer struct {
	err  error
	task tasksrepo.Task
}

func (s stubStorer) Create(context.Context, tasksrepo.NewTask) (tasksrepo.Task, error) {
	return s.task, s.err
}

func (s stubStorer) GetByID(context.Context, int64) (tasksrepo.Task, error) {
	return s.task, s.err
}

func (s stubStorer) List(context.Context, tasksrepo.Query) ([]tasksrepo.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []tasksrepo.Task{s.task}, nil
}

func (s stubStorer) Count(context.Context, tasksrepo.QueryFilter) (int, error) {
	return 1, s.err
}

func (s stubStorer) Update(context.Context, int64, tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	return s.task, s.err
}

func (s stubStorer) Delete(context.Context, int64) (bool, error) {
	return s.err == nil, s.err
}

func (s stubStorer) Ping(context.Context) error {
	return s.err
}

func TestRepositoryPassesThroughDomainErrors(t *testing.T) {
	ctx := context.Background()

	repo := tasksrepo.NewRepository(logger.NewDiscard(), stubStorer{err: fmt.Errorf("row 9: %w", tasksrepo.ErrTaskNotFound)})
	_, err := repo.GetByID(ctx, 9)
	assert.ErrorIs(t, err, tasksrepo.ErrTaskNotFound)
	var serr *tasksrepo.ServerError
	assert.False(t, errors.As(err, &serr))

	repo = tasksrepo.NewRepository(logger.NewDiscard(), stubStorer{err: tasksrepo.ErrConstraint})
	_, err = repo.Create(ctx, tasksrepo.NewTask{Title: "x"})
	assert.ErrorIs(t, err, tasksrepo.ErrConstraint)
}

func TestRepositoryWrapsUnexpectedErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	repo := tasksrepo.NewRepository(logger.NewDiscard(), stubStorer{err: boom})
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["list tasks"] = repo.List(ctx, tasksrepo.Query{})
	_, checks["count tasks"] = repo.Count(ctx, tasksrepo.QueryFilter{})
	_, checks["update task"] = repo.Update(ctx, 1, tasksrepo.UpdateTask{})
	_, checks["delete task"] = repo.Delete(ctx, 1)
	checks["ping task store"] = repo.Ping(ctx)

	for op, err := range checks {
		var serr *tasksrepo.ServerError
		require.True(t, errors.As(err, &serr), op)
		assert.Equal(t, op, serr.Op)
		assert.ErrorIs(t, err, boom)
	}
}

func TestRepositoryReturnsStoredRows(t *testing.T) {
	want := tasksrepo.Task{ID: 3, Title: "stored"}
	repo := tasksrepo.NewRepository(logger.NewDiscard(), stubStorer{task: want})

	got, err := repo.Update(context.Background(), 3, tasksrepo.UpdateTask{})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	deleted, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, deleted)
}
