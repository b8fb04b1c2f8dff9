package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/feed"
	"main/internal/model/enum"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/store"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to JSON config")
	viewDepth := flag.Int("depth", 0, "Top-N view depth override (0=config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		logs.Fatalf("config load failed: %+v", err)
	}
	if *viewDepth > 0 {
		loaded.Feed.ViewDepth = *viewDepth
	}

	if loaded.Profiler.Enable {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "bybit/feed",
			ServerAddress:   loaded.Profiler.ServerAddress,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			logs.Fatalf("pyroscope start failed: %+v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	archiver := newArchiver(ctx, loaded.Postgres)

	queue := bus.NewQueue(loaded.Feed.QueueSize)
	metrics := obs.NewMetrics()

	public := feed.NewPublic(ctx, loaded.Feed.PublicEndpoint, queue, metrics, loaded.Feed.BookDepth, loaded.Feed.ViewDepth)
	if err := public.StartWebsocket(ctx); err != nil {
		logs.Fatalf("start public stream failed: %+v", err)
	}
	defer public.Close()
	public.Observe(ctx)

	for _, symbol := range loaded.Feed.Symbols {
		if err := public.SubscribeOrderbook(ctx, symbol); err != nil {
			logs.Fatalf("subscribe orderbook %s failed: %+v", symbol, err)
		}
		if err := public.SubscribeTicker(ctx, symbol); err != nil {
			logs.Fatalf("subscribe ticker %s failed: %+v", symbol, err)
		}
		if err := public.SubscribeTrade(ctx, symbol); err != nil {
			logs.Fatalf("subscribe trade %s failed: %+v", symbol, err)
		}
		logs.Infof("subscribed %s", symbol)
	}

	if loaded.Feed.APIKey != "" {
		private := feed.NewPrivate(ctx, loaded.Feed.PrivateEndpoint, loaded.Feed.APIKey, loaded.Feed.APISecret, queue, metrics)
		if err := private.StartWebsocketAndAuth(ctx); err != nil {
			logs.Fatalf("start private stream failed: %+v", err)
		}
		defer private.Close()
		private.ObserveWallet(ctx)
		if err := private.SubscribeWallet(ctx); err != nil {
			logs.Fatalf("subscribe wallet failed: %+v", err)
		}
		logs.Info("subscribed wallet")
	}

	go queue.Run(ctx, func(u bus.Update) {
		consume(ctx, archiver, u)
	})

	<-ctx.Done()
	queue.Close()

	snapshot := metrics.Snapshot()
	logs.Infof("metrics: updates=%v parse_errors=%d drops=%d closed=%d apply=%+v event_latency=%+v",
		snapshot.UpdateCounts, snapshot.ParseErrors, snapshot.QueueDrops, snapshot.QueueClosed,
		snapshot.ApplyLatency, snapshot.EventLatency)
}

func newArchiver(ctx context.Context, opt *conn.Option) *store.Archiver {
	if opt == nil {
		return nil
	}

	client, err := conn.New(*opt)
	if err != nil {
		logs.Fatalf("postgres connect failed: %+v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		logs.Fatalf("postgres ping failed: %+v", err)
	}

	archiver, err := store.NewArchiver(client)
	if err != nil {
		logs.Fatalf("archive migrate failed: %+v", err)
	}
	return archiver
}

func consume(ctx context.Context, archiver *store.Archiver, u bus.Update) {
	switch u.Topic {
	case enum.TopicOrderbook:
		if u.Book != nil && len(u.Book.Bids) > 0 && len(u.Book.Asks) > 0 {
			logs.Debugf("book %s bid=%s ask=%s", u.Symbol, u.Book.Bids[0].Price, u.Book.Asks[0].Price)
		}
	case enum.TopicTicker:
		if u.Ticker == nil {
			return
		}
		if err := archiver.SaveTicker(ctx, *u.Ticker); err != nil {
			logs.Warnf("archive ticker %s: %+v", u.Symbol, err)
		}
	case enum.TopicWallet:
		if err := archiver.SaveBalances(ctx, u.Balances); err != nil {
			logs.Warnf("archive balances: %+v", err)
		}
	case enum.TopicTrade:
		if u.Trade != nil {
			logs.Debugf("trade %s %s %s@%s", u.Symbol, u.Trade.Side, u.Trade.Size, u.Trade.Price)
		}
	}
}
