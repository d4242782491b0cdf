package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testOrder(direction Direction, ric, quantity, price, user string) *Order {
	return NewOrder(
		direction,
		ric,
		decimal.RequireFromString(quantity),
		decimal.RequireFromString(price),
		user,
	)
}

func TestMatcherRules(t *testing.T) {
	matcher := NewLimitOrderMatcher()

	cases := []struct {
		name  string
		a     *Order
		b     *Order
		match bool
	}{
		{
			name:  "SameDirectionNoMatch",
			a:     testOrder(DirectionBuy, "VOD.L", "1000", "100", "User 1"),
			b:     testOrder(DirectionBuy, "VOD.L", "1000", "100", "User 2"),
			match: false,
		},
		{
			name:  "DifferentStockNoMatch",
			a:     testOrder(DirectionBuy, "VOD.L", "1000", "100", "User 1"),
			b:     testOrder(DirectionSell, "BT.L", "1000", "100", "User 2"),
			match: false,
		},
		{
			name:  "QuantityMismatchNoMatch",
			a:     testOrder(DirectionBuy, "VOD.L", "1000", "100", "User 1"),
			b:     testOrder(DirectionSell, "VOD.L", "500", "100", "User 2"),
			match: false,
		},
		{
			name:  "SellerAboveBuyerNoMatch",
			a:     testOrder(DirectionBuy, "VOD.L", "1000", "100", "User 1"),
			b:     testOrder(DirectionSell, "VOD.L", "1000", "100.5", "User 2"),
			match: false,
		},
		{
			name:  "EqualPriceMatch",
			a:     testOrder(DirectionBuy, "VOD.L", "1000", "100.2", "User 1"),
			b:     testOrder(DirectionSell, "VOD.L", "1000", "100.2", "User 2"),
			match: true,
		},
		{
			name:  "SellerBelowBuyerMatch",
			a:     testOrder(DirectionBuy, "VOD.L", "1000", "101", "User 1"),
			b:     testOrder(DirectionSell, "VOD.L", "1000", "98", "User 2"),
			match: true,
		},
		{
			name:  "QuantityComparedByValue",
			a:     testOrder(DirectionBuy, "VOD.L", "1000.00", "100", "User 1"),
			b:     testOrder(DirectionSell, "VOD.L", "1000", "100", "User 2"),
			match: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matcher.Matches(tc.a, tc.b); got != tc.match {
				t.Errorf("Matches(a, b) = %v, want %v", got, tc.match)
			}

			// the rule must not care which order is new and which is resting
			if got := matcher.Matches(tc.b, tc.a); got != tc.match {
				t.Errorf("Matches(b, a) = %v, want %v", got, tc.match)
			}
		})
	}
}

func TestMatcherMissingOrders(t *testing.T) {
	matcher := NewLimitOrderMatcher()
	order := testOrder(DirectionBuy, "VOD.L", "1000", "100", "User 1")

	if matcher.Matches(nil, order) {
		t.Error("Expected no match when first order is missing")
	}

	if matcher.Matches(order, nil) {
		t.Error("Expected no match when second order is missing")
	}

	if matcher.Matches(nil, nil) {
		t.Error("Expected no match when both orders are missing")
	}
}
