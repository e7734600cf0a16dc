// Package book implements the per-symbol order book: price levels kept
// in priority order on each side, an id index for O(log n) cancellation,
// and the snapshot queries (BBO, depth) a boundary adapter needs. It
// holds no matching logic — that lives in internal/engine, which drives
// this package's exported mutators from inside its matching primitive.
package book

import (
	"github.com/shopspring/decimal"

	"fenrir/internal/common"
)

// PriceLevel is the FIFO queue of resting orders sharing one price on
// one side of a book. TotalQuantity is kept incrementally consistent
// with the sum of its orders' remaining quantities: every fill against
// a member order must go through ApplyFill so the two never drift.
type PriceLevel struct {
	Price         decimal.Decimal
	Orders        []*common.Order
	TotalQuantity decimal.Decimal
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		Price:         price,
		TotalQuantity: decimal.Zero,
	}
}

// enqueue appends an order to the tail of the level's queue.
func (l *PriceLevel) enqueue(order *common.Order) {
	l.Orders = append(l.Orders, order)
	l.TotalQuantity = l.TotalQuantity.Add(order.RemainingQuantity)
}

// PeekHead returns the front of the queue without removing it, or nil
// if the level is empty.
func (l *PriceLevel) PeekHead() *common.Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// PopHead removes the front of the queue. The caller must already have
// driven that order's remaining quantity to zero (and so already
// subtracted its contribution from TotalQuantity via ApplyFill) before
// calling this.
func (l *PriceLevel) PopHead() {
	l.Orders = l.Orders[1:]
}

// ApplyFill decrements order's remaining quantity and increments its
// filled quantity by qty, keeping TotalQuantity in lockstep.
func (l *PriceLevel) ApplyFill(order *common.Order, qty decimal.Decimal) {
	order.RemainingQuantity = order.RemainingQuantity.Sub(qty)
	order.FilledQuantity = order.FilledQuantity.Add(qty)
	l.TotalQuantity = l.TotalQuantity.Sub(qty)
}

// remove deletes order by id anywhere in the queue. Used by
// cancellation, where the order need not be at the head. O(n) in the
// level's depth: cancels are rare relative to matches and levels stay
// shallow in practice.
func (l *PriceLevel) remove(orderID string) bool {
	for i, o := range l.Orders {
		if o.ID == orderID {
			l.TotalQuantity = l.TotalQuantity.Sub(o.RemainingQuantity)
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// IsEmpty reports whether the level has no resting orders left.
func (l *PriceLevel) IsEmpty() bool {
	return len(l.Orders) == 0
}
