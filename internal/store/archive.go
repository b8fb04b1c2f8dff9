package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"main/internal/model"
	"main/pkg/conn"
)

// BalanceRecord archives one normalized balance row. Amounts are stored as
// text so nothing gets rounded on the way through the database.
type BalanceRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Asset     string `gorm:"index"`
	Free      string
	Locked    string
	CreatedAt time.Time
}

// TickerRecord archives one merged ticker state. Nil fields stay NULL.
type TickerRecord struct {
	ID              uint   `gorm:"primaryKey"`
	Symbol          string `gorm:"index"`
	LastPrice       *string
	MarkPrice       *string
	IndexPrice      *string
	NextFundingTime *string
	FundingRate     *string
	CreatedAt       time.Time
}

// Archiver persists normalized outputs downstream of the update queue. It is
// optional wiring: a nil Archiver silently skips every save.
type Archiver struct {
	db *gorm.DB
}

// NewArchiver migrates the archive tables and returns a ready archiver.
func NewArchiver(client *conn.Client) (*Archiver, error) {
	db := client.DB()
	if err := db.AutoMigrate(&BalanceRecord{}, &TickerRecord{}); err != nil {
		return nil, err
	}
	return &Archiver{db: db}, nil
}

// SaveBalances appends one row per normalized balance.
func (a *Archiver) SaveBalances(ctx context.Context, balances []model.Balance) error {
	if a == nil || len(balances) == 0 {
		return nil
	}
	records := make([]BalanceRecord, 0, len(balances))
	for _, b := range balances {
		records = append(records, BalanceRecord{
			Asset:  b.Asset,
			Free:   b.Free.String(),
			Locked: b.Locked.String(),
		})
	}
	return a.db.WithContext(ctx).Create(&records).Error
}

// SaveTicker appends one row for a merged ticker state.
func (a *Archiver) SaveTicker(ctx context.Context, t model.Ticker) error {
	if a == nil {
		return nil
	}
	record := TickerRecord{
		Symbol:          t.Symbol,
		LastPrice:       decimalString(t.LastPrice),
		MarkPrice:       decimalString(t.MarkPrice),
		IndexPrice:      decimalString(t.IndexPrice),
		NextFundingTime: decimalString(t.NextFundingTime),
		FundingRate:     decimalString(t.FundingRate),
	}
	return a.db.WithContext(ctx).Create(&record).Error
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
