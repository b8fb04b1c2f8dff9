package feed

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"

	"main/internal/book"
	"main/internal/bus"
	"main/internal/bybit"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/obs"
	"main/internal/ticker"
	"main/pkg/exception"
)

// Public maintains the public market data session: one websocket carrying
// orderbook, ticker and trade topics, with the per-symbol book and ticker
// state rebuilt in process. All state mutation happens on the observe
// goroutine, so the engines need no locking of their own.
type Public struct {
	wss     *ws.WebSocket
	books   *book.Engine
	tickers *ticker.Merger
	queue   *bus.Queue
	metrics *obs.Metrics
	trace   *obs.TraceGenerator

	bookDepth int
	viewDepth int
}

func NewPublic(ctx context.Context, endpoint string, queue *bus.Queue, metrics *obs.Metrics, bookDepth, viewDepth int) *Public {
	return &Public{
		wss:       ws.New(ctx, endpoint),
		books:     book.NewEngine(),
		tickers:   ticker.NewMerger(),
		queue:     queue,
		metrics:   metrics,
		trace:     obs.NewTraceGenerator(0),
		bookDepth: bookDepth,
		viewDepth: viewDepth,
	}
}

func (repo *Public) StartWebsocket(ctx context.Context) error {
	if err := repo.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

func (repo *Public) Close() {
	repo.wss.Close()
}

// Books exposes the reconstructed order books for direct reads.
func (repo *Public) Books() *book.Engine {
	return repo.books
}

// Tickers exposes the merged ticker states for direct reads.
func (repo *Public) Tickers() *ticker.Merger {
	return repo.tickers
}

// SubscribeOrderbook subscribes the depth stream for one symbol. Any existing
// book is dropped first so the next snapshot rebuilds from scratch; this is
// the resubscribe-after-reconnect path too.
func (repo *Public) SubscribeOrderbook(ctx context.Context, symbol string) error {
	if symbol == "" {
		return errors.Wrap(exception.ErrFeedInvalidRequest, "empty symbol")
	}

	repo.books.Drop(symbol)
	return sendTopicOp(ctx, repo.wss, bybit.OpSubscribe, []string{bybit.OrderbookTopic(repo.bookDepth, symbol)})
}

// UnsubscribeOrderbook stops the depth stream and discards the book.
func (repo *Public) UnsubscribeOrderbook(ctx context.Context, symbol string) error {
	if err := sendTopicOp(ctx, repo.wss, bybit.OpUnsubscribe, []string{bybit.OrderbookTopic(repo.bookDepth, symbol)}); err != nil {
		return err
	}
	repo.books.Drop(symbol)
	return nil
}

// SubscribeTicker subscribes the ticker stream for one symbol.
func (repo *Public) SubscribeTicker(ctx context.Context, symbol string) error {
	if symbol == "" {
		return errors.Wrap(exception.ErrFeedInvalidRequest, "empty symbol")
	}

	return sendTopicOp(ctx, repo.wss, bybit.OpSubscribe, []string{bybit.TickerTopic(symbol)})
}

// UnsubscribeTicker stops the ticker stream and discards the merged state.
func (repo *Public) UnsubscribeTicker(ctx context.Context, symbol string) error {
	if err := sendTopicOp(ctx, repo.wss, bybit.OpUnsubscribe, []string{bybit.TickerTopic(symbol)}); err != nil {
		return err
	}
	repo.tickers.Drop(symbol)
	return nil
}

// SubscribeTrade subscribes the public trade stream for one symbol.
func (repo *Public) SubscribeTrade(ctx context.Context, symbol string) error {
	if symbol == "" {
		return errors.Wrap(exception.ErrFeedInvalidRequest, "empty symbol")
	}

	return sendTopicOp(ctx, repo.wss, bybit.OpSubscribe, []string{bybit.TradeTopic(symbol)})
}

// Observe runs the stream loop until the context is done, routing each frame
// by its topic prefix.
func (repo *Public) Observe(ctx context.Context) (unsubscribe func()) {
	ch, cancel := repo.wss.Subscribe()

	go func() {
		defer cancel()
		for {
			select {
			case <-sys.Shutdown():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}

				repo.dispatch(m, time.Now().UnixNano())
			}
		}
	}()

	return cancel
}

func (repo *Public) dispatch(m ws.Message, recvNano int64) {
	head, ok := ws.ReadMessage[bybit.WsGeneral](m)
	if !ok {
		return
	}

	switch {
	case strings.HasPrefix(head.Topic, bybit.TopicPrefixOrderbook):
		if msg, ok := ws.ReadMessage[bybit.WsOrderbookDepthMsg](m); ok {
			repo.handleOrderbook(msg, recvNano)
		}
	case strings.HasPrefix(head.Topic, bybit.TopicPrefixTicker):
		if msg, ok := ws.ReadMessage[bybit.WsTickerMsg](m); ok {
			repo.handleTicker(msg, recvNano)
		}
	case strings.HasPrefix(head.Topic, bybit.TopicPrefixTrade):
		if msg, ok := ws.ReadMessage[bybit.WsTradeMsg](m); ok {
			repo.handleTrade(msg, recvNano)
		}
	}
}

func (repo *Public) handleOrderbook(msg bybit.WsOrderbookDepthMsg, recvNano int64) {
	typ, ok := enum.ParseEventType(msg.Type)
	if !ok {
		repo.metrics.IncParseError()
		logs.Warnf("unknown orderbook event type: %s", msg.Type)
		return
	}

	start := time.Now()
	err := repo.books.Apply(typ, msg.Data)
	repo.metrics.ObserveApply(time.Since(start))
	if err != nil {
		repo.metrics.IncParseError()
		logs.Warnf("apply orderbook %s: %+v", msg.Data.Symbol, err)
		return
	}

	view := repo.books.View(msg.Data.Symbol, repo.viewDepth)
	repo.metrics.ObserveUpdate(enum.TopicOrderbook, msg.Ts, recvNano)
	publish(repo.queue, repo.metrics, repo.trace, bus.Update{
		Topic:   enum.TopicOrderbook,
		Symbol:  msg.Data.Symbol,
		TsEvent: msg.Ts,
		TsRecv:  recvNano,
		Book:    &view,
	})
}

func (repo *Public) handleTicker(msg bybit.WsTickerMsg, recvNano int64) {
	typ, ok := enum.ParseEventType(msg.Type)
	if !ok {
		repo.metrics.IncParseError()
		logs.Warnf("unknown ticker event type: %s", msg.Type)
		return
	}

	start := time.Now()
	err := repo.tickers.Apply(typ, msg.Data)
	repo.metrics.ObserveApply(time.Since(start))
	if err != nil {
		repo.metrics.IncParseError()
		logs.Warnf("apply ticker %s: %+v", msg.Data.Symbol, err)
		return
	}

	current, ok := repo.tickers.Current(msg.Data.Symbol)
	if !ok {
		return
	}

	repo.metrics.ObserveUpdate(enum.TopicTicker, msg.Ts, recvNano)
	publish(repo.queue, repo.metrics, repo.trace, bus.Update{
		Topic:   enum.TopicTicker,
		Symbol:  msg.Data.Symbol,
		TsEvent: msg.Ts,
		TsRecv:  recvNano,
		Ticker:  &current,
	})
}

func (repo *Public) handleTrade(msg bybit.WsTradeMsg, recvNano int64) {
	for _, raw := range msg.Data {
		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			repo.metrics.IncParseError()
			logs.Warnf("trade price %s: %q", raw.Symbol, raw.Price)
			continue
		}
		size, err := decimal.NewFromString(raw.Size)
		if err != nil {
			repo.metrics.IncParseError()
			logs.Warnf("trade size %s: %q", raw.Symbol, raw.Size)
			continue
		}

		trade := model.Trade{
			Symbol:   raw.Symbol,
			Side:     raw.Side,
			Price:    price,
			Size:     size,
			TradeID:  raw.TradeID,
			TsMilli:  raw.TradeTime,
			Platform: enum.PlatformBybit,
		}
		repo.metrics.ObserveUpdate(enum.TopicTrade, raw.TradeTime, recvNano)
		publish(repo.queue, repo.metrics, repo.trace, bus.Update{
			Topic:   enum.TopicTrade,
			Symbol:  raw.Symbol,
			TsEvent: raw.TradeTime,
			TsRecv:  recvNano,
			Trade:   &trade,
		})
	}
}
