package telemetry

import (
	"context"
	"testing"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Settings{Enabled: false})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}

	_, span := Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Error("Disabled tracing should produce invalid span contexts")
	}
}

func TestSetupRejectsSampleRatio(t *testing.T) {
	for _, ratio := range []float64{-0.1, 1.5} {
		if _, err := Setup(context.Background(), Settings{Enabled: true, SampleRatio: ratio}); err == nil {
			t.Errorf("Expected an error for sample ratio %g", ratio)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.Enabled || s.SampleRatio != 1 {
		t.Errorf("DefaultSettings() = %+v", s)
	}
}

func TestNoopTracer(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "x")
	span.End()
	if span.IsRecording() {
		t.Error("Noop tracer spans should not record")
	}
}
