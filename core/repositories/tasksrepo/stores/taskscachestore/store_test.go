package taskscachestore_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/stores/taskscachestore"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/tasksrepotest"
	"github.com/jrazmi/todokeeper/infrastructure/rediscache"
	"github.com/jrazmi/todokeeper/infrastructure/sqlitedb"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/jrazmi/todokeeper/sdk/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache keeps JSON copies so cached values behave like Redis ones.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	hits   int
	broken bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return false, errors.New("cache down")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("cache down")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("cache down")
	}
	delete(c.data, key)
	return nil
}

func sqliteStore(t *testing.T) tasksrepo.Storer {
	t.Helper()
	db, err := sqlitedb.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlitedb.Close(db) })
	return taskssqlitestore.NewStore(logger.NewDiscard(), db)
}

func TestStoreConformance(t *testing.T) {
	tasksrepotest.Run(t, func(t *testing.T) tasksrepo.Storer {
		return taskscachestore.NewStore(logger.NewDiscard(), sqliteStore(t), newMemCache())
	})
}

func TestStoreReadsThroughCache(t *testing.T) {
	cache := newMemCache()
	s := taskscachestore.NewStore(logger.NewDiscard(), sqliteStore(t), cache)
	ctx := context.Background()

	nt := tasksrepo.NewTask{Title: "cached"}
	nt.Touch(time.Now())
	task, err := s.Create(ctx, nt)
	require.NoError(t, err)

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, 1, cache.hits)

	updated, err := s.Update(ctx, task.ID, tasksrepo.UpdateTask{Progress: validation.IntPtr(30)})
	require.NoError(t, err)

	got, err = s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Progress, got.Progress)
	assert.Equal(t, 2, cache.hits)

	deleted, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, tasksrepo.ErrTaskNotFound)
}

func TestStoreSurvivesCacheOutage(t *testing.T) {
	cache := newMemCache()
	cache.broken = true
	s := taskscachestore.NewStore(logger.NewDiscard(), sqliteStore(t), cache)
	ctx := context.Background()

	nt := tasksrepo.NewTask{Title: "no cache"}
	nt.Touch(time.Now())
	task, err := s.Create(ctx, nt)
	require.NoError(t, err)

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestStoreWithRedis(t *testing.T) {
	addr := os.Getenv("TODOKEEPER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TODOKEEPER_TEST_REDIS_ADDR not set")
	}

	tasksrepotest.Run(t, func(t *testing.T) tasksrepo.Storer {
		cache, err := rediscache.New(rediscache.Options{
			Addr:   addr,
			Prefix: "todokeeper-test:" + uuid.NewString() + ":",
			TTL:    time.Minute,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = cache.Close() })
		return taskscachestore.NewStore(logger.NewDiscard(), sqliteStore(t), cache)
	})
}
