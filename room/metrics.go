package room

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"slopes/game"
)

const instrumentationName = "slopes/room"

// Metrics counts simulation work across rooms. It records into the global
// OTel meter provider, a no-op until one is installed.
type Metrics struct {
	steps      metric.Int64Counter
	events     metric.Int64Counter
	broadcasts metric.Int64Counter
	clients    metric.Int64UpDownCounter
}

func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		out Metrics
		err error
	)

	out.steps, err = m.Int64Counter(
		"room.steps",
		metric.WithDescription("Fixed simulation steps run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating steps counter: %w", err)
	}

	out.events, err = m.Int64Counter(
		"room.events",
		metric.WithDescription("Game events emitted, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}

	out.broadcasts, err = m.Int64Counter(
		"room.broadcasts",
		metric.WithDescription("State snapshots sent to clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating broadcasts counter: %w", err)
	}

	out.clients, err = m.Int64UpDownCounter(
		"room.clients",
		metric.WithDescription("Connected renderer clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating clients counter: %w", err)
	}

	return &out, nil
}

// A nil *Metrics records nothing.

func (m *Metrics) stepped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.steps.Add(context.Background(), int64(n))
}

func (m *Metrics) emitted(e game.Event) {
	if m == nil {
		return
	}
	m.events.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", e.Kind.String())))
}

func (m *Metrics) broadcast(clients int) {
	if m == nil || clients == 0 {
		return
	}
	m.broadcasts.Add(context.Background(), int64(clients))
}

func (m *Metrics) clientDelta(d int) {
	if m == nil {
		return
	}
	m.clients.Add(context.Background(), int64(d))
}
