package bus

import (
	"context"
	"errors"
	"sync/atomic"

	"main/internal/model"
	"main/internal/model/enum"
)

var (
	ErrQueueFull   = errors.New("update queue full")
	ErrQueueClosed = errors.New("update queue closed")
)

// Update is one normalized state change passed from the stream handlers to
// downstream consumers. Exactly one payload pointer is set, matching Topic.
type Update struct {
	Topic   enum.Topic
	Symbol  string
	TraceID uint64
	TsEvent int64
	TsRecv  int64

	Book     *model.BookView
	Ticker   *model.Ticker
	Trade    *model.Trade
	Balances []model.Balance
}

// Queue is a bounded, non-blocking update queue. Publishers never stall the
// stream loop: when the consumer falls behind, updates are dropped and
// counted instead.
type Queue struct {
	ch     chan Update
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Update, capacity)}
}

// TryPublish enqueues an update without blocking.
func (q *Queue) TryPublish(u Update) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- u:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new updates.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes updates until the context is done or the queue is closed.
func (q *Queue) Run(ctx context.Context, handler func(Update)) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-q.ch:
			if !ok {
				return
			}
			handler(u)
		}
	}
}
