package taskspgxstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo/tasksrepotest"
	"github.com/jrazmi/todokeeper/infrastructure/postgresdb"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	url := os.Getenv("TODOKEEPER_TEST_PG_URL")
	if url == "" {
		t.Skip("TODOKEEPER_TEST_PG_URL not set")
	}

	pool, err := postgresdb.NewTestDB(url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := logger.NewDiscard()
	require.NoError(t, postgresdb.Migrate(context.Background(), pool, log.Logger))

	tasksrepotest.Run(t, func(t *testing.T) tasksrepo.Storer {
		_, err := pool.Exec(context.Background(), "TRUNCATE tasks RESTART IDENTITY")
		require.NoError(t, err)
		return taskspgxstore.NewStore(log, pool)
	})
}
