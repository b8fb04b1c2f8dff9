package book

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/bybit"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// state holds one symbol's resting liquidity. Levels are keyed by the
// canonical string of the parsed price so "1.50" and "1.5" land on one level;
// ordering is imposed only when a view is taken.
type state struct {
	bids map[string]model.PriceLevel
	asks map[string]model.PriceLevel
}

func newState() *state {
	return &state{
		bids: make(map[string]model.PriceLevel),
		asks: make(map[string]model.PriceLevel),
	}
}

// Engine maintains per-symbol order books from snapshot and delta events.
// It is a plain state container: the owner must deliver events for a symbol
// in arrival order on a single goroutine and supply external synchronization
// if reads come from elsewhere.
type Engine struct {
	books map[string]*state
}

// NewEngine creates an empty order book registry.
func NewEngine() *Engine {
	return &Engine{books: make(map[string]*state)}
}

// Apply dispatches one orderbook event by its snapshot/delta tag.
func (e *Engine) Apply(typ enum.EventType, data bybit.WsOrderbookDepth) error {
	switch typ {
	case enum.EventTypeSnapshot:
		return e.ApplySnapshot(data)
	case enum.EventTypeDelta:
		return e.ApplyDelta(data)
	default:
		return errors.Wrapf(exception.ErrUnknownEventType, "type: %d", typ)
	}
}

// ApplySnapshot rebuilds each side the message carries and leaves the other
// side untouched. An empty side list means "not present", not "clear": that
// is how the exchange encodes single-sided snapshots. The book for the symbol
// is created on the first snapshot.
func (e *Engine) ApplySnapshot(data bybit.WsOrderbookDepth) error {
	bids, err := parseSide(data.Bids)
	if err != nil {
		return errors.Wrap(err, "parse snapshot bids")
	}
	asks, err := parseSide(data.Asks)
	if err != nil {
		return errors.Wrap(err, "parse snapshot asks")
	}

	st := e.books[data.Symbol]
	if st == nil {
		st = newState()
		e.books[data.Symbol] = st
	}
	if len(bids) > 0 {
		rebuildSide(st.bids, bids)
	}
	if len(asks) > 0 {
		rebuildSide(st.asks, asks)
	}
	return nil
}

// ApplyDelta upserts changed levels and removes levels whose size is zero.
// Removing an absent level is a no-op. A delta for a symbol with no snapshot
// baseline is rejected: an order book without a baseline is meaningless.
// Validation happens before any mutation, so a malformed event never leaves
// the book half-applied.
func (e *Engine) ApplyDelta(data bybit.WsOrderbookDepth) error {
	st := e.books[data.Symbol]
	if st == nil {
		return errors.Wrapf(exception.ErrBookNotReady, "symbol: %s", data.Symbol)
	}

	bids, err := parseChanges(data.Bids)
	if err != nil {
		return errors.Wrap(err, "parse delta bids")
	}
	asks, err := parseChanges(data.Asks)
	if err != nil {
		return errors.Wrap(err, "parse delta asks")
	}

	applyChanges(st.bids, bids)
	applyChanges(st.asks, asks)
	return nil
}

// View returns the top depth levels per side, bids descending and asks
// ascending, each truncated to the available count. It never mutates the
// book; an unknown symbol yields an empty view. The full sort per call is
// fine here: depth is small and reads are paced by consumers, not by the
// update stream.
func (e *Engine) View(symbol string, depth int) model.BookView {
	view := model.BookView{Symbol: symbol}
	st := e.books[symbol]
	if st == nil || depth <= 0 {
		return view
	}

	view.Bids = sortSide(st.bids, depth, func(a, b model.PriceLevel) bool {
		return a.Price.GreaterThan(b.Price)
	})
	view.Asks = sortSide(st.asks, depth, func(a, b model.PriceLevel) bool {
		return a.Price.LessThan(b.Price)
	})
	return view
}

// Has reports whether a snapshot baseline exists for the symbol.
func (e *Engine) Has(symbol string) bool {
	return e.books[symbol] != nil
}

// Drop discards a symbol's book entirely. The owner calls this on
// unsubscribe and before resubscribing after a reconnect, so stale levels
// never survive into the next snapshot.
func (e *Engine) Drop(symbol string) {
	delete(e.books, symbol)
}

// Len returns the number of tracked symbols.
func (e *Engine) Len() int {
	return len(e.books)
}

type change struct {
	key   string
	level model.PriceLevel
}

func parseSide(rows [][2]string) ([]change, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	changes, err := parseChanges(rows)
	if err != nil {
		return nil, err
	}
	// A snapshot never stores a zero-size level.
	kept := changes[:0]
	for _, c := range changes {
		if c.level.Size.IsZero() {
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

func parseChanges(rows [][2]string) ([]change, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	changes := make([]change, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row[0])
		if err != nil {
			return nil, errors.Wrapf(exception.ErrMalformedDecimal, "price: %q", row[0])
		}
		size, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, errors.Wrapf(exception.ErrMalformedDecimal, "size: %q", row[1])
		}
		changes = append(changes, change{
			key:   price.String(),
			level: model.PriceLevel{Price: price, Size: size},
		})
	}
	return changes, nil
}

func rebuildSide(side map[string]model.PriceLevel, levels []change) {
	for key := range side {
		delete(side, key)
	}
	for _, c := range levels {
		side[c.key] = c.level
	}
}

func applyChanges(side map[string]model.PriceLevel, changes []change) {
	for _, c := range changes {
		if c.level.Size.IsZero() {
			if _, ok := side[c.key]; ok {
				delete(side, c.key)
			}
			continue
		}
		side[c.key] = c.level
	}
}

func sortSide(side map[string]model.PriceLevel, depth int, less func(a, b model.PriceLevel) bool) []model.PriceLevel {
	levels := make([]model.PriceLevel, 0, len(side))
	for _, level := range side {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool { return less(levels[i], levels[j]) })
	if len(levels) > depth {
		levels = levels[:depth]
	}
	return levels
}
