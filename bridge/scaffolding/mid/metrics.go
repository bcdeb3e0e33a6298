package mid

import (
	"context"
	"net/http"

	"github.com/jrazmi/todokeeper/bridge/scaffolding/metrics"
	"github.com/jrazmi/todokeeper/infrastructure/web"
)

// Metrics updates program counters on collector.
func Metrics(collector *metrics.Collector) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			collector.Begin()

			resp := next(ctx, r)

			n := collector.End(statusOf(resp))

			if n%1000 == 0 {
				collector.SampleGoroutines()
			}

			if isError(resp) != nil {
				collector.AddErrors()
			}

			return resp
		}
	}
}
