package matching

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithTradeFeed attaches a publisher that receives committed trades. Feed
// failures are logged, never propagated: the store remains the book of
// record.
func WithTradeFeed(feed TradePublisher) Option {
	return func(e *Engine) {
		e.feed = feed
	}
}
