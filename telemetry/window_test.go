package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cvhariharan/actordir/models"
	"github.com/cvhariharan/actordir/store/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubHost struct {
	stats models.HostStats
	err   error
}

func (h stubHost) Read(context.Context) (models.HostStats, error) {
	return h.stats, h.err
}

func newTestWindow(t *testing.T, clock *fakeClock) (*Window, *memory.Store) {
	st := memory.New()
	w := NewWindow(st,
		WithClock(clock.Now),
		WithHostReader(stubHost{stats: models.HostStats{
			Memory:   models.MemoryStats{RSS: 1024, HeapAlloc: 512},
			CPUCount: 8,
		}}),
		WithLogger(zaptest.NewLogger(t)),
	)
	return w, st
}

func TestPercentileNearestRank(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 30.0, Percentile(values, 50))
	assert.Equal(t, 50.0, Percentile(values, 95))
	assert.Equal(t, 50.0, Percentile(values, 99))
	assert.Equal(t, 10.0, Percentile(values, 0))
	assert.Equal(t, 50.0, Percentile(values, 100))
	assert.Equal(t, 40.0, Percentile(values, 75))
	assert.Zero(t, Percentile(nil, 50))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{50, 10, 40, 20, 30})
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 30.0, s.Mean)
	assert.Equal(t, 30.0, s.P50)
	assert.Equal(t, 50.0, s.P95)
	assert.Equal(t, 50.0, s.P99)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 50.0, s.Max)

	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestSnapshotEmptyWindow(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w, _ := newTestWindow(t, clock)
	clock.Advance(90 * time.Second)

	snap, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.LatencySummary{}, snap.Latency)
	assert.Equal(t, 90.0, snap.UptimeSeconds)
	assert.Equal(t, 300.0, snap.WindowSeconds)
	assert.Equal(t, 8, snap.CPUCount)
	assert.EqualValues(t, 1024, snap.Memory.RSS)
}

func TestSnapshotSummarizesSamples(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w, _ := newTestWindow(t, clock)
	ctx := context.Background()

	for _, v := range []float64{40, 10, 50, 30, 20} {
		require.NoError(t, w.Record(ctx, v))
		clock.Advance(time.Second)
	}

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LatencySummary{Count: 5, Mean: 30, P50: 30, P95: 50, P99: 50}, snap.Latency)
}

func TestRecordPrunesOutsideWindow(t *testing.T) {
	t0 := time.UnixMilli(1_700_000_000_000)
	clock := &fakeClock{now: t0}
	w, _ := newTestWindow(t, clock)
	ctx := context.Background()

	require.NoError(t, w.Record(ctx, 999))

	clock.Advance(5*time.Minute + time.Millisecond)
	require.NoError(t, w.Record(ctx, 1))

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Latency.Count)
	assert.Equal(t, 1.0, snap.Latency.Mean)
}

func TestRecordKeepsSampleOnWindowBoundary(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w, _ := newTestWindow(t, clock)
	ctx := context.Background()

	require.NoError(t, w.Record(ctx, 10))
	clock.Advance(5 * time.Minute)
	require.NoError(t, w.Record(ctx, 20))

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Latency.Count)
}

func TestStaleSamplesSurviveUntilNextWrite(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w, _ := newTestWindow(t, clock)
	ctx := context.Background()

	require.NoError(t, w.Record(ctx, 10))
	clock.Advance(time.Hour)

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Latency.Count, "pruning is write-triggered only")
}

func TestSameMillisecondSamplesDoNotCollide(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w, st := newTestWindow(t, clock)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, w.Record(ctx, float64(i)))
	}

	samples, err := st.ListSamples(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 10)
	seen := make(map[string]bool)
	for _, s := range samples {
		assert.False(t, seen[s.Key()])
		seen[s.Key()] = true
	}
}

func TestObserve(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w, _ := newTestWindow(t, clock)

	start := clock.Now()
	clock.Advance(1500 * time.Microsecond)
	require.NoError(t, w.Observe(context.Background(), start))

	snap, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.5, snap.Latency.Mean, 1e-9)
}

func TestCustomRetention(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w := NewWindow(memory.New(), WithClock(clock.Now), WithRetention(time.Second), WithHostReader(stubHost{}))
	ctx := context.Background()

	require.NoError(t, w.Record(ctx, 1))
	clock.Advance(1001 * time.Millisecond)
	require.NoError(t, w.Record(ctx, 2))

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Latency.Count)
	assert.Equal(t, time.Second, w.Retention())
}

func TestSnapshotToleratesHostFailure(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	w := NewWindow(memory.New(), WithClock(clock.Now), WithHostReader(stubHost{err: errors.New("no procfs")}))

	snap, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.CPUCount)
}

func TestSystemHostReportsCPUs(t *testing.T) {
	stats, err := SystemHost{}.Read(context.Background())
	require.NoError(t, err)
	assert.Positive(t, stats.CPUCount)
	assert.Positive(t, stats.Memory.HeapAlloc)
}
