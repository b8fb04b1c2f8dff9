package ticker

import (
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/bybit"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// Merger tracks the last-known ticker fields per symbol. A snapshot is
// authoritative and replaces every tracked field with what it carries,
// clearing the ones it omits; a delta overwrites only the fields it names.
// Same ownership rules as the order book engine: single writer per symbol,
// external synchronization for cross-goroutine reads.
type Merger struct {
	states map[string]*model.Ticker
}

// NewMerger creates an empty ticker registry.
func NewMerger() *Merger {
	return &Merger{states: make(map[string]*model.Ticker)}
}

// Apply dispatches one ticker event by its snapshot/delta tag.
func (m *Merger) Apply(typ enum.EventType, data bybit.WsTicker) error {
	switch typ {
	case enum.EventTypeSnapshot:
		return m.ApplySnapshot(data)
	case enum.EventTypeDelta:
		return m.ApplyDelta(data)
	default:
		return errors.Wrapf(exception.ErrUnknownEventType, "type: %d", typ)
	}
}

// ApplySnapshot replaces all tracked fields. The state is created on the
// first event for the symbol.
func (m *Merger) ApplySnapshot(data bybit.WsTicker) error {
	return m.merge(data, false)
}

// ApplyDelta overwrites only the fields present in the message.
func (m *Merger) ApplyDelta(data bybit.WsTicker) error {
	return m.merge(data, true)
}

// Current returns a copy of the merged state, or ok=false if no event has
// ever arrived for the symbol. Read-before-write on a freshly subscribed
// symbol is expected, so this is not an error.
func (m *Merger) Current(symbol string) (model.Ticker, bool) {
	st := m.states[symbol]
	if st == nil {
		return model.Ticker{}, false
	}
	return *st, true
}

// Drop discards a symbol's ticker state.
func (m *Merger) Drop(symbol string) {
	delete(m.states, symbol)
}

// Len returns the number of tracked symbols.
func (m *Merger) Len() int {
	return len(m.states)
}

const fieldCount = 5

// merge is the one snapshot/delta branch shared by all tracked fields.
// Every present field is parsed before anything is written, so a malformed
// event never mutates state.
func (m *Merger) merge(data bybit.WsTicker, sparse bool) error {
	src := [fieldCount]*string{
		data.LastPrice,
		data.MarkPrice,
		data.IndexPrice,
		data.NextFundingTime,
		data.FundingRate,
	}

	var parsed [fieldCount]*decimal.Decimal
	for i, raw := range src {
		if raw == nil {
			continue
		}
		value, err := decimal.NewFromString(*raw)
		if err != nil {
			return errors.Wrapf(exception.ErrMalformedDecimal, "field %d: %q", i, *raw)
		}
		parsed[i] = &value
	}

	st := m.states[data.Symbol]
	if st == nil {
		st = &model.Ticker{Symbol: data.Symbol}
		m.states[data.Symbol] = st
	}

	dst := [fieldCount]**decimal.Decimal{
		&st.LastPrice,
		&st.MarkPrice,
		&st.IndexPrice,
		&st.NextFundingTime,
		&st.FundingRate,
	}
	for i := range dst {
		if sparse && src[i] == nil {
			continue
		}
		*dst[i] = parsed[i]
	}
	return nil
}
