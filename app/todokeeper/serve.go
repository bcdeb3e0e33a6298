package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/jrazmi/todokeeper/app/todokeeper/api"
	"github.com/jrazmi/todokeeper/bridge/scaffolding/metrics"
	"github.com/jrazmi/todokeeper/core/cases/taskscase"
	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/infrastructure/web"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

func runServe(ctx context.Context, a *app) error {
	st, err := openStorage(ctx, a.cfg, a.log, !a.cfg.SkipMigrations)
	if err != nil {
		return err
	}
	defer func() {
		a.log.Info("shutdown", "status", "closing storage")
		if err := st.close(); err != nil {
			a.log.Error("shutdown", "status", "closing storage", "err", err)
		}
	}()

	repo := tasksrepo.NewRepository(a.log, st.storer)

	handler := api.Handler(api.Config{
		Build:     build,
		APIRoute:  a.cfg.APIRoute,
		Debug:     a.cfg.Server.EnableDebug,
		Log:       a.log,
		Telemetry: a.telemetry,
		Metrics:   metrics.New(),
		Tasks:     taskscase.NewCase(a.log, repo),
		Handler:   a.cfg.Handler,
		Cache:     st.cache,
	})

	server := web.NewServer(a.cfg.Server,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(a.log, slog.LevelError)),
	)

	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info("startup", "status", "api router started", "host", server.Addr, "api", a.cfg.APIRoute)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, a.cfg.Server.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			a.log.Info("shutdown", "status", "shutdown started")
			if err := server.Shutdown(ctx); err != nil {
				_ = server.Close()
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
			return nil
		},
	})

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case code := <-wait:
		a.log.Info("shutdown", "status", "shutdown complete", "code", code)
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
	}

	return nil
}

func runMigrate(ctx context.Context, a *app) error {
	st, err := openStorage(ctx, a.cfg, a.log, true)
	if err != nil {
		return err
	}

	a.log.Info("migrate", "status", "migrations applied", "driver", a.cfg.Driver)
	return st.close()
}
