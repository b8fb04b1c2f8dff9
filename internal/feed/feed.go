package feed

import (
	"context"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/pkg/ws"

	"main/internal/bus"
	"main/internal/bybit"
	"main/internal/obs"
	"main/pkg/exception"
)

// publish stamps a trace ID and pushes one update without blocking the
// stream loop. Drops are counted, never retried: a consumer that falls
// behind loses intermediate views, not the stream.
func publish(queue *bus.Queue, metrics *obs.Metrics, trace *obs.TraceGenerator, u bus.Update) {
	u.TraceID = trace.Next()
	switch queue.TryPublish(u) {
	case nil:
	case bus.ErrQueueFull:
		metrics.IncQueueDrop()
	case bus.ErrQueueClosed:
		metrics.IncQueueClosed()
	}
}

// sendTopicOp sends one subscribe/unsubscribe frame and waits for its
// acknowledgement. Both the public and the private stream use the same op
// envelope.
func sendTopicOp(ctx context.Context, wss *ws.WebSocket, op string, topics []string) error {
	appendIntoRegister := true
	if err := wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, client *ws.WebSocket) error {
			payload := bybit.SubscribeRequest{Op: op, Args: topics}
			if err := client.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write topic op payload").With("payload", payload)
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			resp, ok := ws.ReadMessage[bybit.WsGeneral](m)
			if !ok || resp.Op != op {
				return false, nil
			}

			if !resp.Success {
				return false, errors.Wrapf(exception.ErrFeedSubscribeRejected, "op: %s, ret: %s", op, resp.RetMsg)
			}
			return true, nil
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait")
	}

	return nil
}
