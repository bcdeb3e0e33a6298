package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jrazmi/todokeeper/sdk/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestTraceIDRoundTrip(t *testing.T) {
	tel := telemetry.NewTelemetry()

	assert.Equal(t, telemetry.NoTrace, tel.GetTraceID(context.Background()))

	ctx := tel.SetTraceID(context.Background())
	tid := tel.GetTraceID(ctx)
	_, err := uuid.Parse(tid)
	assert.NoError(t, err)

	other := tel.GetTraceID(tel.SetTraceID(context.Background()))
	assert.NotEqual(t, tid, other)
}

func TestWithTraceID(t *testing.T) {
	ctx := telemetry.WithTraceID(context.Background(), "upstream")
	v, ok := telemetry.LookupTraceID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "upstream", v)
}
