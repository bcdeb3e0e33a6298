// Package taskscachestore decorates a tasksrepo.Storer with a cache-aside
// read path for single tasks. Writes refresh the cached entry; deletes
// evict it. Cache failures are logged and never fail the request.
package taskscachestore

import (
	"context"
	"strconv"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

// Cache is the subset of rediscache.Cache the store needs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	log   *logger.Logger
	next  tasksrepo.Storer
	cache Cache
}

func NewStore(log *logger.Logger, next tasksrepo.Storer, cache Cache) *Store {
	return &Store{
		log:   log,
		next:  next,
		cache: cache,
	}
}

func taskKey(id int64) string {
	return "task:" + strconv.FormatInt(id, 10)
}

func (s *Store) Create(ctx context.Context, input tasksrepo.NewTask) (tasksrepo.Task, error) {
	task, err := s.next.Create(ctx, input)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	s.store(ctx, task)
	return task, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (tasksrepo.Task, error) {
	var task tasksrepo.Task
	found, err := s.cache.Get(ctx, taskKey(id), &task)
	if err != nil {
		s.log.WarnContext(ctx, "task cache read failed", "task_id", id, "err", err)
	}
	if found {
		return task, nil
	}

	task, err = s.next.GetByID(ctx, id)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	s.store(ctx, task)
	return task, nil
}

func (s *Store) List(ctx context.Context, query tasksrepo.Query) ([]tasksrepo.Task, error) {
	return s.next.List(ctx, query)
}

func (s *Store) Count(ctx context.Context, filter tasksrepo.QueryFilter) (int, error) {
	return s.next.Count(ctx, filter)
}

func (s *Store) Update(ctx context.Context, id int64, input tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	task, err := s.next.Update(ctx, id, input)
	if err != nil {
		s.evict(ctx, id)
		return tasksrepo.Task{}, err
	}
	s.store(ctx, task)
	return task, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.next.Delete(ctx, id)
	s.evict(ctx, id)
	return deleted, err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Store) store(ctx context.Context, task tasksrepo.Task) {
	if err := s.cache.Set(ctx, taskKey(task.ID), task); err != nil {
		s.log.WarnContext(ctx, "task cache write failed", "task_id", task.ID, "err", err)
	}
}

func (s *Store) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, taskKey(id)); err != nil {
		s.log.WarnContext(ctx, "task cache evict failed", "task_id", id, "err", err)
	}
}
