package data

import (
	"github.com/shopspring/decimal"

	"exchange-engine/src/engine"
)

const DemoRIC = "VOD.L"

const (
	DemoUser1 = "User 1"
	DemoUser2 = "User 2"
)

// SampleOrders returns the canonical demo order flow: seven VOD.L
// orders that exercise resting, matching and both tie-break branches.
// Each call builds fresh instances.
func SampleOrders() []*engine.Order {
	rows := []struct {
		direction engine.Direction
		quantity  string
		price     string
		user      string
	}{
		{engine.DirectionSell, "1000", "100.2", DemoUser1},
		{engine.DirectionBuy, "1000", "100.2", DemoUser2},
		{engine.DirectionBuy, "1000", "99", DemoUser1},
		{engine.DirectionBuy, "1000", "101", DemoUser1},
		{engine.DirectionSell, "500", "102", DemoUser2},
		{engine.DirectionBuy, "500", "103", DemoUser1},
		{engine.DirectionSell, "1000", "98", DemoUser2},
	}

	orders := make([]*engine.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, engine.NewOrder(
			r.direction,
			DemoRIC,
			decimal.RequireFromString(r.quantity),
			decimal.RequireFromString(r.price),
			r.user,
		))
	}
	return orders
}
