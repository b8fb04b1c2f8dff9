package bybit

// Wire shapes of the Bybit v5 websocket payloads. The feed layer decodes
// frames into these with encoding/json; every numeric field arrives as a
// decimal-formatted string and is parsed downstream.

const Pong = "pong"

// WsGeneral covers op acknowledgements (subscribe/auth/pong) that carry no
// topic data.
type WsGeneral struct {
	Success bool     `json:"success"`
	ConnID  string   `json:"conn_id"`
	Op      string   `json:"op"`
	Topic   string   `json:"topic"`
	RetMsg  string   `json:"ret_msg"`
	Args    []string `json:"args"`
}

// WsOrderbookDepth is one orderbook push: [price, size] string pairs per
// side. A snapshot carries the full side; a delta carries only changed
// levels, with size "0" marking removal.
type WsOrderbookDepth struct {
	Symbol   string      `json:"s"`
	Bids     [][2]string `json:"b"`
	Asks     [][2]string `json:"a"`
	UpdateID int64       `json:"u"`
	Seq      int64       `json:"seq"`
}

type WsOrderbookDepthMsg struct {
	Topic string           `json:"topic"`
	Type  string           `json:"type"`
	Ts    int64            `json:"ts"`
	Data  WsOrderbookDepth `json:"data"`
}

// WsTicker carries only the fields present in this push; absent fields decode
// to nil. A snapshot is authoritative for all tracked fields, a delta only
// for the ones it names.
type WsTicker struct {
	Symbol          string  `json:"symbol"`
	TickDirection   *string `json:"tickDirection"`
	LastPrice       *string `json:"lastPrice"`
	MarkPrice       *string `json:"markPrice"`
	IndexPrice      *string `json:"indexPrice"`
	NextFundingTime *string `json:"nextFundingTime"`
	FundingRate     *string `json:"fundingRate"`
	Bid1Price       *string `json:"bid1Price"`
	Bid1Size        *string `json:"bid1Size"`
	Ask1Price       *string `json:"ask1Price"`
	Ask1Size        *string `json:"ask1Size"`
}

type WsTickerMsg struct {
	Topic string   `json:"topic"`
	Type  string   `json:"type"`
	Ts    int64    `json:"ts"`
	Data  WsTicker `json:"data"`
}

// WsTrade is one public trade print.
type WsTrade struct {
	TradeTime  int64  `json:"T"`
	Symbol     string `json:"s"`
	Side       string `json:"S"`
	Size       string `json:"v"`
	Price      string `json:"p"`
	TradeID    string `json:"i"`
	BlockTrade bool   `json:"BT"`
}

type WsTradeMsg struct {
	Topic string    `json:"topic"`
	Type  string    `json:"type"`
	Ts    int64     `json:"ts"`
	Data  []WsTrade `json:"data"`
}

// WsKline is one candle push.
type WsKline struct {
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Interval  string `json:"interval"`
	Open      string `json:"open"`
	Close     string `json:"close"`
	High      string `json:"high"`
	Low       string `json:"low"`
	Volume    string `json:"volume"`
	Turnover  string `json:"turnover"`
	Confirm   bool   `json:"confirm"`
	Timestamp int64  `json:"timestamp"`
}

type WsKlineMsg struct {
	Topic string    `json:"topic"`
	Ts    int64     `json:"ts"`
	Type  string    `json:"type"`
	Data  []WsKline `json:"data"`
}

// WsWalletCoin is one per-asset entry of a private wallet push.
type WsWalletCoin struct {
	Coin           string `json:"coin"`
	Equity         string `json:"equity"`
	UsdValue       string `json:"usdValue"`
	WalletBalance  string `json:"walletBalance"`
	UnrealisedPnl  string `json:"unrealisedPnl"`
	CumRealisedPnl string `json:"cumRealisedPnl"`
	Locked         string `json:"locked"`
	SpotHedgingQty string `json:"spotHedgingQty"`
}

// BalanceFields exposes the triple the balance normalizer consumes.
func (c WsWalletCoin) BalanceFields() (asset, walletBalance, locked string) {
	return c.Coin, c.WalletBalance, c.Locked
}

type WsWallet struct {
	AccountType           string         `json:"accountType"`
	AccountIMRate         string         `json:"accountIMRate"`
	AccountMMRate         string         `json:"accountMMRate"`
	TotalEquity           string         `json:"totalEquity"`
	TotalWalletBalance    string         `json:"totalWalletBalance"`
	TotalMarginBalance    string         `json:"totalMarginBalance"`
	TotalAvailableBalance string         `json:"totalAvailableBalance"`
	Coin                  []WsWalletCoin `json:"coin"`
}

type WsWalletMsg struct {
	Topic        string     `json:"topic"`
	ID           string     `json:"id"`
	CreationTime int64      `json:"creationTime"`
	Data         []WsWallet `json:"data"`
}
