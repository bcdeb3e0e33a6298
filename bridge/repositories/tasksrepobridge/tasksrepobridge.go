// Package tasksrepobridge exposes the task operations over HTTP.
package tasksrepobridge

import (
	"github.com/jrazmi/todokeeper/core/cases/taskscase"
	"github.com/jrazmi/todokeeper/infrastructure/web"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

// Config holds configuration for the Task bridge
type Config struct {
	Log        *logger.Logger
	Case       *taskscase.Case
	Middleware []web.Middleware
}

// Routes lists every route AddHttpRoutes registers, relative to the group
// prefix, with a short description.
var Routes = []struct {
	Method      string
	Path        string
	Description string
}{
	{"GET", "/tasks", "List tasks with filtering, sorting and pagination"},
	{"POST", "/tasks", "Create a new task"},
	{"GET", "/tasks/{id}", "Get a specific task"},
	{"PUT", "/tasks/{id}", "Update a specific task"},
	{"DELETE", "/tasks/{id}", "Delete a specific task"},
	{"PATCH", "/tasks/{id}/progress", "Update task progress"},
	{"PATCH", "/tasks/{id}/toggle", "Toggle task completion"},
	{"GET", "/tasks/overdue/list", "Get overdue tasks"},
	{"GET", "/tasks/stats/summary", "Get task statistics"},
}

// AddHttpRoutes registers all HTTP routes for Task on group.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Case)
	mw := cfg.Middleware

	group.GET("/tasks", b.httpList, mw...)
	group.POST("/tasks", b.httpCreate, mw...)
	group.GET("/tasks/{id}", b.httpGetByID, mw...)
	group.PUT("/tasks/{id}", b.httpUpdate, mw...)
	group.DELETE("/tasks/{id}", b.httpDelete, mw...)
	group.PATCH("/tasks/{id}/progress", b.httpUpdateProgress, mw...)
	group.PATCH("/tasks/{id}/toggle", b.httpToggle, mw...)
	group.GET("/tasks/overdue/list", b.httpOverdue, mw...)
	group.GET("/tasks/stats/summary", b.httpStatistics, mw...)
}
