package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// DisplayLabel is the human-facing form used by demo output and logs.
// No engine behavior depends on it.
func (d Direction) DisplayLabel() string {
	if d == DirectionBuy {
		return "Buy"
	}
	return "Sell"
}

// Order is an immutable equity order. Quantity and Price are exact
// decimals, never floats. The ID and Timestamp identify the accepted
// instance and take no part in value equality.
type Order struct {
	ID        string
	Direction Direction
	RIC       string // stock identifier, e.g. "VOD.L"
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	User      string
	Timestamp int64
}

func NewOrder(direction Direction, ric string, quantity, price decimal.Decimal, user string) *Order {
	return &Order{
		ID:        uuid.New().String(),
		Direction: direction,
		RIC:       ric,
		Quantity:  quantity,
		Price:     price,
		User:      user,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Equal compares the five business fields by value. Decimals compare
// by numeric value, so a quantity of 1000 equals 1000.0.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Direction == other.Direction &&
		o.RIC == other.RIC &&
		o.Quantity.Equal(other.Quantity) &&
		o.Price.Equal(other.Price) &&
		o.User == other.User
}

// Execution is the record of one completed trade. Quantity is the buy
// order's quantity, which the match rule guarantees equals the sell
// order's. Price is the incoming order's limit price, not the resting
// order's.
type Execution struct {
	ID        string
	BuyOrder  *Order
	SellOrder *Order
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Timestamp int64
}

// OpenInterest is the total resting quantity at one price level for
// one stock and side. It is derived per query, never stored.
type OpenInterest struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

func (oi OpenInterest) String() string {
	return oi.Quantity.String() + " @ " + oi.Price.String()
}
