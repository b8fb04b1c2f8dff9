package exception

import "errors"

var (
	ErrFeedInvalidRequest    = errors.New("feed: invalid request")
	ErrFeedSubscribeRejected = errors.New("feed: subscribe rejected")
	ErrFeedAuthRejected      = errors.New("feed: auth rejected")
	ErrFeedMissingCredential = errors.New("feed: missing api credential")
)
