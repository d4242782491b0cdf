package engine

// OrderMatcher decides whether two orders may execute against each
// other. Implementations must be pure and stateless so alternative
// matching policies can be swapped in behind the same contract.
type OrderMatcher interface {
	Matches(a, b *Order) bool
}

// LimitOrderMatcher is the standard policy: orders match when they sit
// on opposite sides of the same stock with exactly equal quantities
// and the seller's limit is at or below the buyer's. The check is
// symmetric, it does not care which order is new and which is resting.
type LimitOrderMatcher struct{}

func NewLimitOrderMatcher() *LimitOrderMatcher {
	return &LimitOrderMatcher{}
}

func (m *LimitOrderMatcher) Matches(a, b *Order) bool {
	// edge case: a missing order is simply no match, never an error
	if a == nil || b == nil {
		return false
	}

	if a.Direction == b.Direction {
		return false
	}

	if a.RIC != b.RIC {
		return false
	}

	if !a.Quantity.Equal(b.Quantity) {
		return false
	}

	sell, buy := a, b
	if a.Direction == DirectionBuy {
		sell, buy = b, a
	}

	return sell.Price.LessThanOrEqual(buy.Price)
}
