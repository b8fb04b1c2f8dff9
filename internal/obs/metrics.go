package obs

import (
	"sync/atomic"
	"time"

	"main/internal/model/enum"
)

const maxTopic = int(enum.TopicTrade)

// Metrics collects lightweight counters and latency stats.
type Metrics struct {
	updateCounts [maxTopic + 1]uint64
	parseErrors  uint64
	queueDrops   uint64
	queueClosed  uint64

	applyLatency LatencyStats
	eventLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	UpdateCounts map[enum.Topic]uint64
	ParseErrors  uint64
	QueueDrops   uint64
	QueueClosed  uint64
	ApplyLatency LatencySnapshot
	EventLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveUpdate counts one normalized update and, when both timestamps are
// present, tracks exchange-to-receive latency.
func (m *Metrics) ObserveUpdate(topic enum.Topic, tsEventMilli, tsRecvNano int64) {
	if m == nil {
		return
	}
	idx := int(topic)
	if idx >= 0 && idx < len(m.updateCounts) {
		atomic.AddUint64(&m.updateCounts[idx], 1)
	}
	if tsEventMilli > 0 && tsRecvNano > 0 {
		delta := tsRecvNano - tsEventMilli*int64(time.Millisecond)
		if delta >= 0 {
			m.eventLatency.Observe(time.Duration(delta))
		}
	}
}

// IncParseError records a rejected payload.
func (m *Metrics) IncParseError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.parseErrors, 1)
}

// IncQueueDrop records a queue drop.
func (m *Metrics) IncQueueDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueDrops, 1)
}

// IncQueueClosed records a closed-queue publish attempt.
func (m *Metrics) IncQueueClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueClosed, 1)
}

// ObserveApply measures one state-apply duration.
func (m *Metrics) ObserveApply(d time.Duration) {
	if m == nil {
		return
	}
	m.applyLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	updateCounts := make(map[enum.Topic]uint64)
	for i := range m.updateCounts {
		if v := atomic.LoadUint64(&m.updateCounts[i]); v > 0 {
			updateCounts[enum.Topic(i)] = v
		}
	}
	return Snapshot{
		UpdateCounts: updateCounts,
		ParseErrors:  atomic.LoadUint64(&m.parseErrors),
		QueueDrops:   atomic.LoadUint64(&m.queueDrops),
		QueueClosed:  atomic.LoadUint64(&m.queueClosed),
		ApplyLatency: m.applyLatency.Snapshot(),
		EventLatency: m.eventLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
