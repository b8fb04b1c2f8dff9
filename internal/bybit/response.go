package bybit

// REST envelopes. These are decode-only field mappings with no statefulness;
// they exist so callers fetching the initial account state share one
// vocabulary with the streaming side.

// Response is the fixed envelope every v5 REST endpoint shares.
type Response[T any] struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  T      `json:"result"`
	Time    int64  `json:"time"`
}

// ListResult wraps paginated list payloads.
type ListResult[T any] struct {
	List           []T    `json:"list"`
	NextPageCursor string `json:"nextPageCursor"`
	Category       string `json:"category"`
}

// CoinBalance is one per-asset entry of the REST wallet balance result.
type CoinBalance struct {
	Coin                string `json:"coin"`
	Equity              string `json:"equity"`
	UsdValue            string `json:"usdValue"`
	WalletBalance       string `json:"walletBalance"`
	AvailableToWithdraw string `json:"availableToWithdraw"`
	Locked              string `json:"locked"`
	UnrealisedPnl       string `json:"unrealisedPnl"`
	CumRealisedPnl      string `json:"cumRealisedPnl"`
	CollateralSwitch    bool   `json:"collateralSwitch"`
	MarginCollateral    bool   `json:"marginCollateral"`
}

// BalanceFields exposes the triple the balance normalizer consumes.
func (c CoinBalance) BalanceFields() (asset, walletBalance, locked string) {
	return c.Coin, c.WalletBalance, c.Locked
}

// WalletBalance is one account entry of the REST wallet balance result.
type WalletBalance struct {
	AccountType           string        `json:"accountType"`
	TotalEquity           string        `json:"totalEquity"`
	TotalWalletBalance    string        `json:"totalWalletBalance"`
	TotalMarginBalance    string        `json:"totalMarginBalance"`
	TotalAvailableBalance string        `json:"totalAvailableBalance"`
	Coin                  []CoinBalance `json:"coin"`
}

// KlineRow is one REST kline entry; the endpoint returns it as a positional
// array.
type KlineRow struct {
	StartTime  string
	OpenPrice  string
	HighPrice  string
	LowPrice   string
	ClosePrice string
	Volume     string
	Turnover   string
}

// KlineResult is the result block of the REST kline endpoint.
type KlineResult struct {
	Symbol   string     `json:"symbol"`
	Category string     `json:"category"`
	List     [][]string `json:"list"`
}

// Rows converts the positional arrays into named rows; short rows are
// skipped.
func (r KlineResult) Rows() []KlineRow {
	rows := make([]KlineRow, 0, len(r.List))
	for _, raw := range r.List {
		if len(raw) < 7 {
			continue
		}
		rows = append(rows, KlineRow{
			StartTime:  raw[0],
			OpenPrice:  raw[1],
			HighPrice:  raw[2],
			LowPrice:   raw[3],
			ClosePrice: raw[4],
			Volume:     raw[5],
			Turnover:   raw[6],
		})
	}
	return rows
}

// OrderResult identifies an accepted order.
type OrderResult struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

// Position is one entry of the REST position list.
type Position struct {
	Symbol         string `json:"symbol"`
	Side           string `json:"side"`
	Size           string `json:"size"`
	AvgPrice       string `json:"avgPrice"`
	PositionValue  string `json:"positionValue"`
	MarkPrice      string `json:"markPrice"`
	LiqPrice       string `json:"liqPrice"`
	UnrealisedPnl  string `json:"unrealisedPnl"`
	CumRealisedPnl string `json:"cumRealisedPnl"`
	Leverage       string `json:"leverage"`
	CreatedTime    string `json:"createdTime"`
	UpdatedTime    string `json:"updatedTime"`
}

// LotSizeFilter bounds order quantities for an instrument.
type LotSizeFilter struct {
	BasePrecision  string `json:"basePrecision"`
	QuotePrecision string `json:"quotePrecision"`
	MinOrderQty    string `json:"minOrderQty"`
	MaxOrderQty    string `json:"maxOrderQty"`
	QtyStep        string `json:"qtyStep"`
}

// PriceFilter bounds order prices for an instrument.
type PriceFilter struct {
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	TickSize string `json:"tickSize"`
}

// InstrumentInfo is one entry of the REST instruments-info list.
type InstrumentInfo struct {
	Symbol        string        `json:"symbol"`
	BaseCoin      string        `json:"baseCoin"`
	QuoteCoin     string        `json:"quoteCoin"`
	Status        string        `json:"status"`
	SettleCoin    string        `json:"settleCoin"`
	ContractType  string        `json:"contractType"`
	LotSizeFilter LotSizeFilter `json:"lotSizeFilter"`
	PriceFilter   PriceFilter   `json:"priceFilter"`
}
