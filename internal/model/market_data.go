package model

import (
	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// PriceLevel is resting volume at one price. A stored size is always strictly
// positive; a level with size zero does not exist.
type PriceLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// BookView is a bounded top-N read of one symbol's order book.
// Bids are sorted by descending price, asks by ascending price; each side is
// truncated to the requested depth.
type BookView struct {
	Symbol string
	Bids   []PriceLevel
	Asks   []PriceLevel
}

// Ticker holds the last-known value of each tracked ticker field for one
// symbol. A nil field has never been seen, or was cleared by a snapshot that
// did not carry it.
type Ticker struct {
	Symbol          string
	LastPrice       *decimal.Decimal
	MarkPrice       *decimal.Decimal
	IndexPrice      *decimal.Decimal
	NextFundingTime *decimal.Decimal
	FundingRate     *decimal.Decimal
}

// Balance is the free/locked split of a single asset.
// Free = wallet balance - locked; it may come out negative, which is passed
// through as-is for downstream layers to judge.
type Balance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
}

// Trade is one normalized public trade print.
type Trade struct {
	Symbol   string
	Side     string
	Price    decimal.Decimal
	Size     decimal.Decimal
	TradeID  string
	TsMilli  int64
	Platform enum.Platform
}
