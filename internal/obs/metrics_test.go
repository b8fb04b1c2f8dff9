package obs

import (
	"testing"
	"time"

	"main/internal/model/enum"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.ObserveUpdate(enum.TopicOrderbook, 0, 0)
	m.ObserveUpdate(enum.TopicOrderbook, 0, 0)
	m.ObserveUpdate(enum.TopicWallet, 0, 0)
	m.IncParseError()
	m.IncQueueDrop()
	m.ObserveApply(2 * time.Millisecond)
	m.ObserveApply(4 * time.Millisecond)

	snap := m.Snapshot()
	if snap.UpdateCounts[enum.TopicOrderbook] != 2 {
		t.Fatalf("orderbook count = %d", snap.UpdateCounts[enum.TopicOrderbook])
	}
	if snap.UpdateCounts[enum.TopicWallet] != 1 {
		t.Fatalf("wallet count = %d", snap.UpdateCounts[enum.TopicWallet])
	}
	if snap.ParseErrors != 1 || snap.QueueDrops != 1 {
		t.Fatalf("errors=%d drops=%d", snap.ParseErrors, snap.QueueDrops)
	}
	if snap.ApplyLatency.Count != 2 {
		t.Fatalf("apply count = %d", snap.ApplyLatency.Count)
	}
	if snap.ApplyLatency.Min != 2*time.Millisecond || snap.ApplyLatency.Max != 4*time.Millisecond {
		t.Fatalf("apply min/max = %v/%v", snap.ApplyLatency.Min, snap.ApplyLatency.Max)
	}
	if snap.ApplyLatency.Avg != 3*time.Millisecond {
		t.Fatalf("apply avg = %v", snap.ApplyLatency.Avg)
	}
}

func TestEventLatencyFromTimestamps(t *testing.T) {
	m := NewMetrics()
	eventMilli := int64(1_700_000_000_000)
	recvNano := eventMilli*int64(time.Millisecond) + int64(5*time.Millisecond)
	m.ObserveUpdate(enum.TopicTicker, eventMilli, recvNano)

	snap := m.Snapshot()
	if snap.EventLatency.Count != 1 {
		t.Fatalf("latency count = %d", snap.EventLatency.Count)
	}
	if snap.EventLatency.Max != 5*time.Millisecond {
		t.Fatalf("latency max = %v", snap.EventLatency.Max)
	}
}
