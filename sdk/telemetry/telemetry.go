// Package telemetry provides request scoped trace identifiers.
package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
)

// NoTrace is reported for contexts that never passed through SetTraceID.
const NoTrace = "--------NOTRACE--------"

type Telemetry struct{}

// Creates a new telemetry instance
func NewTelemetry() Telemetry {
	return Telemetry{}
}

// SetTraceID stores a fresh trace id on the context.
func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

func (t Telemetry) GetTraceID(ctx context.Context) string {
	if v, ok := LookupTraceID(ctx); ok {
		return v
	}
	return NoTrace
}

// WithTraceID stores an explicit trace id, for callers that received one
// from upstream.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// LookupTraceID reports the trace id on ctx, if any.
func LookupTraceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(traceIDKey).(string)
	return v, ok
}
