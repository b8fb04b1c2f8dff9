package feed

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"

	"main/internal/balance"
	"main/internal/bus"
	"main/internal/bybit"
	"main/internal/model/enum"
	"main/internal/obs"
	"main/pkg/exception"
)

const _authWindow = 5 * time.Second

// Private maintains the authenticated account session carrying wallet
// updates.
type Private struct {
	wss       *ws.WebSocket
	accessKey string
	secretKey string
	queue     *bus.Queue
	metrics   *obs.Metrics
	trace     *obs.TraceGenerator
}

func NewPrivate(ctx context.Context, endpoint, accessKey, secretKey string, queue *bus.Queue, metrics *obs.Metrics) *Private {
	return &Private{
		wss:       ws.New(ctx, endpoint),
		accessKey: accessKey,
		secretKey: secretKey,
		queue:     queue,
		metrics:   metrics,
		trace:     obs.NewTraceGenerator(0),
	}
}

// StartWebsocketAndAuth connects and authenticates before any subscription.
// The signature is an HMAC-SHA256 over "GET/realtime" plus the expiry, keyed
// by the API secret.
func (repo *Private) StartWebsocketAndAuth(ctx context.Context) error {
	if repo.accessKey == "" || repo.secretKey == "" {
		return errors.Wrap(exception.ErrFeedMissingCredential, "private stream")
	}

	if err := repo.wss.Start(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, client *ws.WebSocket) error {
			expires := time.Now().Add(_authWindow).UnixMilli()
			mac := hmac.New(sha256.New, []byte(repo.secretKey))
			mac.Write([]byte("GET/realtime" + strconv.FormatInt(expires, 10)))
			payload := bybit.AuthRequest{
				Op:   bybit.OpAuth,
				Args: []any{repo.accessKey, expires, hex.EncodeToString(mac.Sum(nil))},
			}

			if err := client.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write auth payload")
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			resp, ok := ws.ReadMessage[bybit.WsGeneral](m)
			if !ok || resp.Op != bybit.OpAuth {
				return false, nil
			}

			if !resp.Success {
				return false, errors.Wrapf(exception.ErrFeedAuthRejected, "ret: %s", resp.RetMsg)
			}

			return true, nil
		},
	}); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

func (repo *Private) Close() {
	repo.wss.Close()
}

// SubscribeWallet subscribes the account wallet stream.
func (repo *Private) SubscribeWallet(ctx context.Context) error {
	return sendTopicOp(ctx, repo.wss, bybit.OpSubscribe, []string{bybit.TopicWallet})
}

// ObserveWallet runs the wallet loop until the context is done.
func (repo *Private) ObserveWallet(ctx context.Context) (unsubscribe func()) {
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

				msg, ok := ws.ReadMessage[bybit.WsWalletMsg](m)
				if !ok || msg.Topic != bybit.TopicWallet {
					continue
				}

				repo.handleWallet(msg, time.Now().UnixNano())
			}
		}
	}()

	return cancel
}

func (repo *Private) handleWallet(msg bybit.WsWalletMsg, recvNano int64) {
	for _, account := range msg.Data {
		balances, err := balance.NormalizeEntries(account.Coin)
		if err != nil {
			repo.metrics.IncParseError()
			logs.Warnf("normalize wallet %s: %+v", account.AccountType, err)
			continue
		}
		if len(balances) == 0 {
			continue
		}

		repo.metrics.ObserveUpdate(enum.TopicWallet, msg.CreationTime, recvNano)
		publish(repo.queue, repo.metrics, repo.trace, bus.Update{
			Topic:    enum.TopicWallet,
			TsEvent:  msg.CreationTime,
			TsRecv:   recvNano,
			Balances: balances,
		})
	}
}
