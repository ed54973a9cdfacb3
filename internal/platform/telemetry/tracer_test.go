package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/srgjo27/flashsale_ticket/internal/platform/config"
)

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), config.OTelConfig{Enabled: false}, "1.0.0", "test")
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestStartSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "queue.process_entry", attribute.String("event_id", "e1"))
	End(span, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "queue.process_entry", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}
