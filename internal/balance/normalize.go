package balance

import (
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/pkg/exception"
)

// Entry is any wire shape carrying a per-asset wallet balance. Both the
// streaming and the REST wallet coin entries satisfy it.
type Entry interface {
	BalanceFields() (asset, walletBalance, locked string)
}

// Normalize converts one raw wallet entry into a free/locked split:
// free = walletBalance - locked, computed on exact decimals. No clamping or
// sign validation happens here; a negative free is a data-quality signal
// from upstream, not an engine bug.
func Normalize(asset, walletBalance, locked string) (model.Balance, error) {
	total, err := decimal.NewFromString(walletBalance)
	if err != nil {
		return model.Balance{}, errors.Wrapf(exception.ErrMalformedDecimal, "walletBalance: %q", walletBalance)
	}
	lockedAmount, err := decimal.NewFromString(locked)
	if err != nil {
		return model.Balance{}, errors.Wrapf(exception.ErrMalformedDecimal, "locked: %q", locked)
	}
	return model.Balance{
		Asset:  asset,
		Free:   total.Sub(lockedAmount),
		Locked: lockedAmount,
	}, nil
}

// NormalizeEntries normalizes every per-asset entry of a wallet message.
// The first malformed entry fails the whole message.
func NormalizeEntries[E Entry](entries []E) ([]model.Balance, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	balances := make([]model.Balance, 0, len(entries))
	for _, entry := range entries {
		asset, walletBalance, locked := entry.BalanceFields()
		normalized, err := Normalize(asset, walletBalance, locked)
		if err != nil {
			return nil, errors.Wrapf(err, "asset: %s", asset)
		}
		balances = append(balances, normalized)
	}
	return balances, nil
}
