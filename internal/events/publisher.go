// Package events emits the dashboard activity stream. Publishing is best
// effort: a broker outage must never fail the user action that triggered the
// event.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Action string

const (
	ActionCreated   Action = "dashboard.appointment.created.v1"
	ActionConfirmed Action = "dashboard.appointment.confirmed.v1"
	ActionCancelled Action = "dashboard.appointment.cancelled.v1"
)

type Activity struct {
	Action        Action    `json:"action"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	ActorSub      string    `json:"actor_sub"`
	ActorEmail    string    `json:"actor_email,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher builds a Kafka-backed activity publisher. With no brokers
// configured it degrades to a no-op.
func NewPublisher(brokers, topic string, logger *slog.Logger) *Publisher {
	list := SplitBrokers(brokers)
	if len(list) == 0 {
		logger.Warn("activity events disabled (no kafka brokers configured)")
		return &Publisher{logger: logger}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  list,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish writes the activity event. Failures are logged, never returned.
func (p *Publisher) Publish(ctx context.Context, a Activity) {
	if p.writer == nil {
		return
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}

	ctx, span := otel.Tracer("events").Start(ctx, "activity.publish",
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("event.action", string(a.Action)),
		),
	)
	defer span.End()

	payload, err := json.Marshal(a)
	if err != nil {
		p.logger.Error("activity event marshal failed", "err", err)
		span.RecordError(err)
		return
	}

	eventID := uuid.NewString()
	msg := kafka.Message{
		Key:   []byte(a.AppointmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte(a.Action)},
		},
	}
	msg.Headers = InjectTraceHeaders(ctx, msg.Headers)

	writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error("activity event publish failed", "err", err, "event_id", eventID)
		span.RecordError(err)
	}
}

func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
