package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bybit"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

func snapshotMsg(symbol string, bids, asks [][2]string) bybit.WsOrderbookDepth {
	return bybit.WsOrderbookDepth{Symbol: symbol, Bids: bids, Asks: asks}
}

func prices(levels []model.PriceLevel) []string {
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, l.Price.String())
	}
	return out
}

func TestSnapshotBuildsSortedView(t *testing.T) {
	e := NewEngine()
	err := e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100.5", "1"}, {"101", "2"}, {"99.9", "3"}},
		[][2]string{{"102", "4"}, {"101.5", "5"}, {"103", "6"}},
	))
	require.NoError(t, err)

	view := e.View("BTCUSDT", 10)
	assert.Equal(t, []string{"101", "100.5", "99.9"}, prices(view.Bids))
	assert.Equal(t, []string{"101.5", "102", "103"}, prices(view.Asks))
	assert.Equal(t, "2", view.Bids[0].Size.String())
}

func TestSnapshotOrderIndependent(t *testing.T) {
	a := NewEngine()
	require.NoError(t, a.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}, {"101", "2"}, {"99", "3"}}, nil)))

	b := NewEngine()
	require.NoError(t, b.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"99", "3"}, {"101", "2"}, {"100", "1"}}, nil)))

	assert.Equal(t, a.View("BTCUSDT", 10), b.View("BTCUSDT", 10))
}

func TestViewTruncatesToDepth(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}, {"101", "1"}, {"99", "1"}, {"98", "1"}},
		[][2]string{{"102", "1"}, {"103", "1"}},
	)))

	view := e.View("BTCUSDT", 2)
	assert.Equal(t, []string{"101", "100"}, prices(view.Bids))
	assert.Equal(t, []string{"102", "103"}, prices(view.Asks))
}

func TestViewUnknownSymbolEmpty(t *testing.T) {
	e := NewEngine()
	view := e.View("NOPE", 10)
	assert.Equal(t, "NOPE", view.Symbol)
	assert.Empty(t, view.Bids)
	assert.Empty(t, view.Asks)
}

func TestDeltaBeforeSnapshotRejected(t *testing.T) {
	e := NewEngine()
	err := e.ApplyDelta(snapshotMsg("BTCUSDT", [][2]string{{"100", "1"}}, nil))
	require.ErrorIs(t, err, exception.ErrBookNotReady)
}

func TestDeltaUpsertAndRemove(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}, {"99", "2"}},
		[][2]string{{"101", "3"}},
	)))

	require.NoError(t, e.ApplyDelta(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "5"}, {"99", "0"}},
		[][2]string{{"101.5", "1"}},
	)))

	view := e.View("BTCUSDT", 10)
	assert.Equal(t, []string{"100"}, prices(view.Bids))
	assert.Equal(t, "5", view.Bids[0].Size.String())
	assert.Equal(t, []string{"101", "101.5"}, prices(view.Asks))
}

func TestDeltaRemoveIdempotent(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}}, nil)))

	removal := snapshotMsg("BTCUSDT", [][2]string{{"100", "0"}}, nil)
	require.NoError(t, e.ApplyDelta(removal))
	require.NoError(t, e.ApplyDelta(removal))

	// Removing a price that never existed is a no-op too.
	require.NoError(t, e.ApplyDelta(snapshotMsg("BTCUSDT", [][2]string{{"55", "0"}}, nil)))

	assert.Empty(t, e.View("BTCUSDT", 10).Bids)
}

func TestMalformedDeltaLeavesBookUntouched(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}}, [][2]string{{"101", "2"}})))
	before := e.View("BTCUSDT", 10)

	err := e.ApplyDelta(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "9"}},
		[][2]string{{"abc", "1"}},
	))
	require.ErrorIs(t, err, exception.ErrMalformedDecimal)

	assert.Equal(t, before, e.View("BTCUSDT", 10))
}

func TestSnapshotReplacesSide(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}, {"99", "1"}},
		[][2]string{{"101", "1"}},
	)))

	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"98", "7"}}, nil)))

	view := e.View("BTCUSDT", 10)
	assert.Equal(t, []string{"98"}, prices(view.Bids), "old bid levels must not survive a snapshot")
	assert.Equal(t, []string{"101"}, prices(view.Asks), "asks were absent from the snapshot and stay as they were")
}

func TestEquivalentPriceStringsShareOneLevel(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"1.50", "1"}}, nil)))
	require.NoError(t, e.ApplyDelta(snapshotMsg("BTCUSDT",
		[][2]string{{"1.5", "4"}}, nil)))

	view := e.View("BTCUSDT", 10)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, "4", view.Bids[0].Size.String())
}

func TestApplyDispatchAndUnknownType(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Apply(enum.EventTypeSnapshot, snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}}, nil)))
	require.NoError(t, e.Apply(enum.EventTypeDelta, snapshotMsg("BTCUSDT",
		[][2]string{{"100", "2"}}, nil)))

	err := e.Apply(0, snapshotMsg("BTCUSDT", nil, nil))
	require.ErrorIs(t, err, exception.ErrUnknownEventType)
}

func TestDropAndHas(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "1"}}, nil)))
	require.True(t, e.Has("BTCUSDT"))
	require.Equal(t, 1, e.Len())

	e.Drop("BTCUSDT")
	assert.False(t, e.Has("BTCUSDT"))
	assert.Equal(t, 0, e.Len())

	err := e.ApplyDelta(snapshotMsg("BTCUSDT", [][2]string{{"100", "1"}}, nil))
	require.ErrorIs(t, err, exception.ErrBookNotReady)
}

func TestTopOfBookSurvivesRemoval(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.ApplySnapshot(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "5"}, {"99", "3"}},
		[][2]string{{"101", "2"}},
	)))

	view := e.View("BTCUSDT", 1)
	assert.Equal(t, []string{"100"}, prices(view.Bids))
	assert.Equal(t, []string{"101"}, prices(view.Asks))

	require.NoError(t, e.ApplyDelta(snapshotMsg("BTCUSDT",
		[][2]string{{"100", "0"}}, nil)))

	view = e.View("BTCUSDT", 1)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, "99", view.Bids[0].Price.String())
	assert.Equal(t, "3", view.Bids[0].Size.String())
	assert.Equal(t, []string{"101"}, prices(view.Asks))
}

func TestReplayScenario(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.Apply(enum.EventTypeSnapshot, snapshotMsg("ETHUSDT",
		[][2]string{{"2000", "10"}, {"1999.5", "4"}},
		[][2]string{{"2000.5", "3"}, {"2001", "8"}},
	)))
	require.NoError(t, e.Apply(enum.EventTypeDelta, snapshotMsg("ETHUSDT",
		[][2]string{{"1999.5", "0"}, {"1999", "6"}},
		[][2]string{{"2000.5", "1"}},
	)))
	require.NoError(t, e.Apply(enum.EventTypeDelta, snapshotMsg("ETHUSDT",
		nil,
		[][2]string{{"2001", "0"}, {"2002", "2"}},
	)))

	view := e.View("ETHUSDT", 2)
	assert.Equal(t, []string{"2000", "1999"}, prices(view.Bids))
	assert.Equal(t, []string{"2000.5", "2002"}, prices(view.Asks))
	assert.Equal(t, "1", view.Asks[0].Size.String())
}
