package tasksrepobridge

import (
	"github.com/jrazmi/todokeeper/core/cases/taskscase"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

// bridge provides HTTP handlers for Task operations.
type bridge struct {
	log       *logger.Logger
	tasksCase *taskscase.Case
}

func newBridge(log *logger.Logger, tasksCase *taskscase.Case) *bridge {
	return &bridge{
		log:       log,
		tasksCase: tasksCase,
	}
}
