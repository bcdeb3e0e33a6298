package mid

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/jrazmi/todokeeper/bridge/scaffolding/errs"
	"github.com/jrazmi/todokeeper/bridge/scaffolding/metrics"
	"github.com/jrazmi/todokeeper/infrastructure/web"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported in Metrics and handled in Errors.
func Panics(collector *metrics.Collector) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) (resp web.Encoder) {
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					resp = errs.Newf(errs.InternalOnlyLog, "PANIC [%v] TRACE[%s]", rec, string(trace))

					if collector != nil {
						collector.AddPanics()
					}
				}
			}()

			return next(ctx, r)
		}
	}
}
