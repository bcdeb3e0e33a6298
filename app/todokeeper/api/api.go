// Package api assembles the todokeeper HTTP surface: middleware, the task
// routes and the service endpoints around them.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jrazmi/todokeeper/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/todokeeper/bridge/scaffolding/metrics"
	"github.com/jrazmi/todokeeper/bridge/scaffolding/mid"
	"github.com/jrazmi/todokeeper/core/cases/taskscase"
	"github.com/jrazmi/todokeeper/infrastructure/rediscache"
	"github.com/jrazmi/todokeeper/infrastructure/web"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

// Config carries everything the HTTP surface depends on.
type Config struct {
	Build     string
	APIRoute  string
	Debug     bool
	Log       *logger.Logger
	Telemetry web.Telemetry
	Metrics   *metrics.Collector
	Tasks     *taskscase.Case
	Handler   web.HandlerOptions

	// Cache is optional; its counters are reported on /health when set.
	Cache *rediscache.Cache

	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler builds the application http.Handler.
func Handler(cfg Config) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	app := web.NewWebHandler(cfg.Handler,
		web.WithLogging(cfg.Log.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Log),
			mid.Errors(cfg.Log, cfg.Debug),
			mid.Metrics(cfg.Metrics),
			mid.Panics(cfg.Metrics),
		),
	)

	s := service{cfg: cfg}

	app.GET("/{$}", s.root)
	app.GET("/health", s.health)
	app.GET(cfg.APIRoute, s.info)

	tasksrepobridge.AddHttpRoutes(app.Group(cfg.APIRoute), tasksrepobridge.Config{
		Log:  cfg.Log,
		Case: cfg.Tasks,
	})

	app.NotFound(s.notFound)

	return app
}

type service struct {
	cfg Config
}

// Health is the body of GET /health.
type Health struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Database  string            `json:"database"`
	Version   string            `json:"version"`
	Metrics   metrics.Snapshot  `json:"metrics"`
	Cache     *rediscache.Stats `json:"cache,omitempty"`
}

func (s service) health(ctx context.Context, r *http.Request) web.Encoder {
	h := Health{
		Status:    "ok",
		Timestamp: s.cfg.Now().UTC().Format(time.RFC3339Nano),
		Database:  "connected",
		Version:   s.cfg.Build,
		Metrics:   s.cfg.Metrics.Snapshot(),
	}

	if err := s.cfg.Tasks.Health(ctx); err != nil {
		s.cfg.Log.WarnContext(ctx, "health check: task store unreachable", "err", err)
		h.Database = "disconnected"
	}

	if s.cfg.Cache != nil {
		stats := s.cfg.Cache.Stats()
		h.Cache = &stats
	}

	return web.NewJSONResponse(h)
}

// Info is the body of GET {api}.
type Info struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

func (s service) info(ctx context.Context, r *http.Request) web.Encoder {
	endpoints := make(map[string]string, len(tasksrepobridge.Routes))
	for _, rt := range tasksrepobridge.Routes {
		endpoints[rt.Method+" "+s.cfg.APIRoute+rt.Path] = rt.Description
	}

	return web.NewJSONResponse(Info{
		Name:        "TODO Management API",
		Version:     s.cfg.Build,
		Description: "RESTful API for TODO task management",
		Endpoints:   endpoints,
	})
}

func (s service) root(ctx context.Context, r *http.Request) web.Encoder {
	return web.NewJSONResponse(map[string]string{
		"message":       "TODO Management API Server",
		"status":        "running",
		"documentation": s.cfg.APIRoute,
	})
}

// NotFoundResponse answers any request no route matched.
type NotFoundResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

func (NotFoundResponse) HTTPStatus() int {
	return http.StatusNotFound
}

func (n NotFoundResponse) Encode() ([]byte, string, error) {
	return web.NewJSONResponse(n).Encode()
}

func (s service) notFound(ctx context.Context, r *http.Request) web.Encoder {
	return NotFoundResponse{
		Error:  "Resource not found",
		Path:   r.URL.Path,
		Method: r.Method,
	}
}
