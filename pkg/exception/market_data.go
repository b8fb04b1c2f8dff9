package exception

import "errors"

var (
	ErrMalformedDecimal = errors.New("market data: malformed decimal field")
	ErrBookNotReady     = errors.New("market data: delta before snapshot")
	ErrUnknownEventType = errors.New("market data: unknown event type")
)
