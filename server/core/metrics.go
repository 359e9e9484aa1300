package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/automoto/gunsync/server/core"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics are the server's OpenTelemetry instruments. With no meter provider
// installed every instrument is a no-op.
type Metrics struct {
	players  metric.Int64UpDownCounter
	shots    metric.Int64Counter
	hits     metric.Int64Counter
	rejected metric.Int64Counter
	patches  metric.Int64Counter
	tickTime metric.Float64Histogram
}

func NewMetrics() (*Metrics, error) {
	m := meter()
	var (
		out Metrics
		err error
	)

	out.players, err = m.Int64UpDownCounter(
		"gunsync.server.players",
		metric.WithDescription("Connected players"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create players counter: %w", err)
	}

	out.shots, err = m.Int64Counter(
		"gunsync.server.shots",
		metric.WithDescription("Authoritative shots fired"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shots counter: %w", err)
	}

	out.hits, err = m.Int64Counter(
		"gunsync.server.hits",
		metric.WithDescription("Traces that damaged a pawn"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create hits counter: %w", err)
	}

	out.rejected, err = m.Int64Counter(
		"gunsync.server.rpc.rejected",
		metric.WithDescription("Weapon calls refused by the outbox"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rejected counter: %w", err)
	}

	out.patches, err = m.Int64Counter(
		"gunsync.server.patches",
		metric.WithDescription("Replicated weapon fields sent to clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create patches counter: %w", err)
	}

	out.tickTime, err = m.Float64Histogram(
		"gunsync.server.tick.duration",
		metric.WithDescription("Wall time spent in one game tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tick histogram: %w", err)
	}

	return &out, nil
}

func (m *Metrics) playerJoined() {
	if m != nil {
		m.players.Add(context.Background(), 1)
	}
}

func (m *Metrics) playerLeft() {
	if m != nil {
		m.players.Add(context.Background(), -1)
	}
}

func (m *Metrics) shot(weaponType string, hits int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("weapon", weaponType))
	m.shots.Add(context.Background(), 1, attrs)
	if hits > 0 {
		m.hits.Add(context.Background(), int64(hits), attrs)
	}
}

func (m *Metrics) rejectedCall(reason string) {
	if m != nil {
		m.rejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m *Metrics) patchesSent(n int) {
	if m != nil && n > 0 {
		m.patches.Add(context.Background(), int64(n))
	}
}

func (m *Metrics) tick(d time.Duration) {
	if m != nil {
		m.tickTime.Record(context.Background(), float64(d.Microseconds())/1000)
	}
}
