package bybit

// SubscribeRequest is the op frame managing topic subscriptions on either the
// public or the private stream.
type SubscribeRequest struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

// AuthRequest authenticates the private stream. Args is
// [apiKey, expiresMilli, hexSignature].
type AuthRequest struct {
	Op   string `json:"op"`
	Args []any  `json:"args"`
}

const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpAuth        = "auth"
	OpPing        = "ping"
)
