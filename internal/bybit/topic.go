package bybit

import "fmt"

// Topic builders and prefixes for the v5 stream. The prefix consts let the
// observe loops route frames without re-splitting the topic string.
const (
	TopicPrefixOrderbook = "orderbook."
	TopicPrefixTicker    = "tickers."
	TopicPrefixTrade     = "publicTrade."
	TopicWallet          = "wallet"
)

func OrderbookTopic(depth int, symbol string) string {
	return fmt.Sprintf("%s%d.%s", TopicPrefixOrderbook, depth, symbol)
}

func TickerTopic(symbol string) string {
	return TopicPrefixTicker + symbol
}

func TradeTopic(symbol string) string {
	return TopicPrefixTrade + symbol
}
