package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exchange matches equity orders on a single venue. Submissions are
// serialized through one writer lock; queries snapshot the state they
// need under a read lock and compute outside it.
type Exchange struct {
	matcher OrderMatcher

	mu         sync.RWMutex
	submitted  []*Order                // every valid order, in submission order
	open       []*Order                // resting orders, in insertion order
	executions map[string][]*Execution // per-RIC trade ledger, append-only
}

func NewExchange(matcher OrderMatcher) *Exchange {
	return &Exchange{
		matcher:    matcher,
		executions: make(map[string][]*Execution),
	}
}

// Submit validates the order, appends it to the submission log and
// either executes it against one resting order or rests it in the open
// book. The returned Execution is nil when the order rested. The whole
// candidate scan and book mutation is one atomic section: no other
// submission or query can observe a half-updated book.
func (ex *Exchange) Submit(order *Order) (*Execution, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	ex.mu.Lock()
	defer ex.mu.Unlock()

	ex.submitted = append(ex.submitted, order)

	candidates := ex.matchingOrders(order)
	if len(candidates) == 0 {
		ex.open = append(ex.open, order)
		return nil, nil
	}

	return ex.execute(order, selectCandidate(order, candidates)), nil
}

// matchingOrders scans every open order against the new one. Caller
// must hold the write lock.
func (ex *Exchange) matchingOrders(order *Order) []*Order {
	var matching []*Order
	for _, o := range ex.open {
		if ex.matcher.Matches(order, o) {
			matching = append(matching, o)
		}
	}
	return matching
}

// selectCandidate applies the tie-break when several resting orders
// qualify. A candidate priced exactly at the incoming order's limit
// wins outright, earliest-rested first. Otherwise an incoming buy
// takes the lowest-priced candidate and an incoming sell the highest,
// giving the new order the best available counter-price rather than
// strict time priority.
func selectCandidate(incoming *Order, candidates []*Order) *Order {
	if len(candidates) == 1 {
		return candidates[0]
	}

	for _, c := range candidates {
		if c.Price.Equal(incoming.Price) {
			return c
		}
	}

	byPrice := make([]*Order, len(candidates))
	copy(byPrice, candidates)
	sort.SliceStable(byPrice, func(i, j int) bool {
		return byPrice[i].Price.LessThan(byPrice[j].Price)
	})

	if incoming.Direction == DirectionBuy {
		return byPrice[0]
	}
	return byPrice[len(byPrice)-1]
}

// execute records the trade and removes the resting order from the
// open book. The incoming order sets the execution price. Caller must
// hold the write lock.
func (ex *Exchange) execute(incoming, resting *Order) *Execution {
	buy, sell := incoming, resting
	if incoming.Direction == DirectionSell {
		buy, sell = resting, incoming
	}

	exec := &Execution{
		ID:        uuid.New().String(),
		BuyOrder:  buy,
		SellOrder: sell,
		Quantity:  buy.Quantity,
		Price:     incoming.Price,
		Timestamp: time.Now().UnixMilli(),
	}

	ex.executions[incoming.RIC] = append(ex.executions[incoming.RIC], exec)
	ex.removeOpen(resting)

	return exec
}

func (ex *Exchange) removeOpen(order *Order) {
	for i, o := range ex.open {
		if o == order {
			ex.open = append(ex.open[:i], ex.open[i+1:]...)
			return
		}
	}
}

// AllOrders returns every order ever accepted, in submission order.
// Rejected orders never reach the log.
func (ex *Exchange) AllOrders() []*Order {
	ex.mu.RLock()
	defer ex.mu.RUnlock()

	out := make([]*Order, len(ex.submitted))
	copy(out, ex.submitted)
	return out
}

// OpenOrders returns a snapshot of the resting book in insertion
// order.
func (ex *Exchange) OpenOrders() []*Order {
	ex.mu.RLock()
	defer ex.mu.RUnlock()

	out := make([]*Order, len(ex.open))
	copy(out, ex.open)
	return out
}

// Executions returns a snapshot of the trade ledger for one stock, in
// execution order.
func (ex *Exchange) Executions(ric string) []*Execution {
	ex.mu.RLock()
	defer ex.mu.RUnlock()

	execs := ex.executions[ric]
	out := make([]*Execution, len(execs))
	copy(out, execs)
	return out
}

// interestLevel orders btree items by price so levels come out sorted.
// Less compares numeric value, which also makes Get treat 99 and 99.0
// as the same level.
type interestLevel struct {
	price    decimal.Decimal
	quantity decimal.Decimal
}

func (l *interestLevel) Less(than btree.Item) bool {
	return l.price.LessThan(than.(*interestLevel).price)
}

// OpenInterest aggregates resting quantity per price level for one
// stock and side, highest price first. It is a pure read computed from
// a snapshot of the open book.
func (ex *Exchange) OpenInterest(ric string, direction Direction) []OpenInterest {
	openOrders := ex.OpenOrders()

	levels := btree.New(8)
	for _, o := range openOrders {
		if o.RIC != ric || o.Direction != direction {
			continue
		}

		key := &interestLevel{price: o.Price}
		if existing := levels.Get(key); existing != nil {
			level := existing.(*interestLevel)
			level.quantity = level.quantity.Add(o.Quantity)
		} else {
			key.quantity = o.Quantity
			levels.ReplaceOrInsert(key)
		}
	}

	interest := make([]OpenInterest, 0, levels.Len())
	levels.Descend(func(item btree.Item) bool {
		level := item.(*interestLevel)
		interest = append(interest, OpenInterest{Quantity: level.quantity, Price: level.price})
		return true
	})
	return interest
}

// AverageExecutionPrice returns the volume-weighted average price of
// all executions for the stock, rounded half-up to 4 decimal places
// as the single final rounding step. The boolean is false when the
// stock has not traded, which is distinct from an average of zero.
func (ex *Exchange) AverageExecutionPrice(ric string) (decimal.Decimal, bool) {
	execs := ex.Executions(ric)
	if len(execs) == 0 {
		return decimal.Decimal{}, false
	}

	totalQty := decimal.Zero
	totalAmt := decimal.Zero
	for _, e := range execs {
		totalQty = totalQty.Add(e.Quantity)
		totalAmt = totalAmt.Add(e.Quantity.Mul(e.Price))
	}

	return totalAmt.Div(totalQty).Round(4), true
}

// ExecutedQuantityForUser nets the user's executed quantity on one
// stock: buys add, sells subtract. A user with no executions yields
// exactly zero.
func (ex *Exchange) ExecutedQuantityForUser(ric, user string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range ex.Executions(ric) {
		switch user {
		case e.BuyOrder.User:
			total = total.Add(e.Quantity)
		case e.SellOrder.User:
			total = total.Sub(e.Quantity)
		}
	}
	return total
}

// ValidationError reports which order field failed validation. It is
// returned before any engine state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}

func validateOrder(o *Order) error {
	if o == nil {
		return &ValidationError{Field: "order", Reason: "is missing"}
	}

	if !o.Direction.Valid() {
		return &ValidationError{Field: "direction", Reason: "must be BUY or SELL"}
	}

	if strings.TrimSpace(o.RIC) == "" {
		return &ValidationError{Field: "ric", Reason: "must not be blank"}
	}

	// edge case: a missing decimal is the zero value, caught here too
	if o.Quantity.Sign() != 1 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	if o.Price.Sign() != 1 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}

	if strings.TrimSpace(o.User) == "" {
		return &ValidationError{Field: "user", Reason: "must not be blank"}
	}

	return nil
}
