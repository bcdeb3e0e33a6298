package tasksrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/todokeeper/infrastructure/web"
)

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	input, appErr := decodeInput(r)
	if appErr != nil {
		return appErr
	}

	task, err := b.tasksCase.Create(ctx, input)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponseWithStatus(task, http.StatusCreated)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	result, err := b.tasksCase.List(ctx, r.URL.Query())
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(result)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	task, err := b.tasksCase.Get(ctx, taskID(r))
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(task)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	input, appErr := decodeInput(r)
	if appErr != nil {
		return appErr
	}

	task, err := b.tasksCase.Update(ctx, taskID(r), input)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(task)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	if err := b.tasksCase.Delete(ctx, taskID(r)); err != nil {
		return toAppError(err)
	}

	return web.NewNoContent()
}

func (b *bridge) httpUpdateProgress(ctx context.Context, r *http.Request) web.Encoder {
	input, appErr := decodeInput(r)
	if appErr != nil {
		return appErr
	}

	task, err := b.tasksCase.UpdateProgress(ctx, taskID(r), input)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(task)
}

func (b *bridge) httpToggle(ctx context.Context, r *http.Request) web.Encoder {
	task, err := b.tasksCase.ToggleCompletion(ctx, taskID(r))
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(task)
}

func (b *bridge) httpOverdue(ctx context.Context, r *http.Request) web.Encoder {
	tasks, err := b.tasksCase.Overdue(ctx)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(TaskList{Tasks: tasks})
}

func (b *bridge) httpStatistics(ctx context.Context, r *http.Request) web.Encoder {
	stats, err := b.tasksCase.Statistics(ctx)
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponse(stats)
}
