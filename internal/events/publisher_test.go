package events

import (
	"context"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092 , ,kafka-2:9092")
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
	if got := SplitBrokers(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestPublisherNoopWithoutBrokers(t *testing.T) {
	p := NewPublisher("", "dashboard.activity.v1", slog.Default())
	// Must not panic or block.
	p.Publish(context.Background(), Activity{Action: ActionCreated, AppointmentID: "1"})
	if err := p.Close(); err != nil {
		t.Fatalf("Close on noop publisher: %v", err)
	}
}

func TestInjectTraceHeaders(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	defer otel.SetTextMapPropagator(prev)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	headers := InjectTraceHeaders(ctx, []kafka.Header{
		{Key: "event_id", Value: []byte("e1")},
	})

	var traceparent string
	for _, h := range headers {
		if h.Key == "traceparent" {
			traceparent = string(h.Value)
		}
	}
	if traceparent == "" {
		t.Fatal("expected traceparent header to be injected")
	}
	if headers[0].Key != "event_id" {
		t.Fatal("existing headers must be preserved")
	}
}
