// Package telemetry keeps a trailing window of request latencies and
// summarizes it on demand.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cvhariharan/actordir/models"
	"github.com/cvhariharan/actordir/store"
)

const DefaultRetention = 5 * time.Minute

// Window records latencies and prunes on every write. There is no
// background sweep: with no traffic, stale samples stay until the next write.
type Window struct {
	store     store.SampleStore
	retention time.Duration
	host      HostReader
	now       func() time.Time
	started   time.Time
	log       *zap.Logger
}

type Option func(*Window)

func WithRetention(d time.Duration) Option {
	return func(w *Window) {
		if d > 0 {
			w.retention = d
		}
	}
}

func WithHostReader(h HostReader) Option {
	return func(w *Window) { w.host = h }
}

func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(w *Window) { w.log = log }
}

func NewWindow(st store.SampleStore, opts ...Option) *Window {
	w := &Window{
		store:     st,
		retention: DefaultRetention,
		host:      SystemHost{},
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.started = w.now()
	return w
}

func (w *Window) Retention() time.Duration {
	return w.retention
}

// Record stores valueMs under the current time, then deletes samples older
// than the retention window.
func (w *Window) Record(ctx context.Context, valueMs float64) error {
	now := w.now()
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("sample id: %w", err)
	}
	sample := models.LatencySample{
		ID:          id.String(),
		TimestampMs: now.UnixMilli(),
		ValueMs:     valueMs,
	}
	if err := w.store.AppendSample(ctx, sample); err != nil {
		return fmt.Errorf("append sample: %w", err)
	}

	cutoff := now.Add(-w.retention).UnixMilli()
	pruned, err := w.store.PruneSamples(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune samples: %w", err)
	}
	if pruned > 0 {
		w.log.Debug("pruned latency samples", zap.Int64("count", pruned), zap.Int64("cutoff_ms", cutoff))
	}
	return nil
}

// Observe records the time elapsed since start.
func (w *Window) Observe(ctx context.Context, start time.Time) error {
	return w.Record(ctx, float64(w.now().Sub(start))/float64(time.Millisecond))
}

// Snapshot summarizes every stored sample together with uptime and host
// resources. An empty window yields zeroed latency figures.
func (w *Window) Snapshot(ctx context.Context) (models.MetricsSnapshot, error) {
	samples, err := w.store.ListSamples(ctx)
	if err != nil {
		return models.MetricsSnapshot{}, fmt.Errorf("list samples: %w", err)
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.ValueMs
	}

	snap := models.MetricsSnapshot{
		UptimeSeconds: w.now().Sub(w.started).Seconds(),
		WindowSeconds: w.retention.Seconds(),
		Latency:       Summarize(values).LatencySummary,
	}

	host, err := w.host.Read(ctx)
	if err != nil {
		w.log.Warn("host stats unavailable", zap.Error(err))
	} else {
		snap.Memory = host.Memory
		snap.CPUCount = host.CPUCount
	}
	return snap, nil
}
