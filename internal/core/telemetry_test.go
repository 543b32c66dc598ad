// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/tournament-backend/internal/config"
)

func TestStartTracingDisabled(t *testing.T) {
	tracing, err := StartTracing(
		context.Background(),
		config.OtelConfig{Enabled: false, Endpoint: "localhost:4317"},
		config.AppConfig{},
	)
	assert.ErrorIs(t, err, errTracingDisabled)
	assert.Nil(t, tracing)
	assert.NoError(t, tracing.Shutdown(context.Background()))
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, defaultSampleRate, sampleRatio(0))
	assert.Equal(t, defaultSampleRate, sampleRatio(1.5))
	assert.Equal(t, 0.5, sampleRatio(0.5))
	assert.Equal(t, 1.0, sampleRatio(1))
}

func TestTraceIDWithoutSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.NotPanics(t, func() { SetSpanError(ctx, nil) })
}
