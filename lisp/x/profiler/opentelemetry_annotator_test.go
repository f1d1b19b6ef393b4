// Copyright © 2024 The Arrow authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newExporter(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()

	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}
	return names
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newExporter(t)
	ppa := profiler.NewOpenTelemetryAnnotator(context.Background())
	runProgram(t, ppa)

	spans := exporter.GetSpans()
	// Spans are exported as they end, innermost first.  The helper
	// definition does not match and has no span.
	require.Equal(t, []string{"*", "+", "let", "main"}, spanNames(spans))
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, spans[2].SpanContext.SpanID(), spans[1].Parent.SpanID())
	assert.Equal(t, spans[3].SpanContext.SpanID(), spans[2].Parent.SpanID())
	assert.False(t, spans[3].Parent.IsValid())

	attrs := make(map[string]string)
	for _, kv := range spans[3].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "main", attrs["code.function"])
	assert.Equal(t, "definition", attrs["code.namespace"])
	assert.Equal(t, "test.arrow", attrs["code.filepath"])
	assert.Equal(t, "3", attrs["code.lineno"])
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newExporter(t)
	ppa := profiler.NewOpenTelemetryAnnotator(context.Background(),
		profiler.WithEffectFilter(lisp.EffectDefinition, lisp.EffectScope),
		profiler.WithEffectLabeler())
	runProgram(t, ppa)

	spans := exporter.GetSpans()
	assert.Equal(t, []string{"scope:let", "definition:main"}, spanNames(spans))
}

func TestOpenTelemetryAnnotatorNilContext(t *testing.T) {
	//nolint:staticcheck
	ppa := profiler.NewOpenTelemetryAnnotator(nil)
	assert.Error(t, ppa.Enable())
}
