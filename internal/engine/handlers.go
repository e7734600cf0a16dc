package engine

import (
	"fenrir/internal/book"
	"fenrir/internal/common"
)

// handleMarket runs the matching primitive ignoring marketability, then
// cancels any residual rather than resting it — a market order that
// cannot be fully filled does not wait around.
func handleMarket(ob *book.OrderBook, order *common.Order) []*common.Trade {
	trades := match(ob, order)
	finishUnrested(order)
	return trades
}

// handleLimit runs the matching primitive, then rests any residual on
// the order's own side at its own price.
func handleLimit(ob *book.OrderBook, order *common.Order) []*common.Trade {
	trades := match(ob, order)
	if order.RemainingQuantity.IsPositive() {
		ob.AddResting(order)
		if order.FilledQuantity.IsPositive() {
			order.Status = common.Partial
		} else {
			order.Status = common.Pending
		}
	} else {
		order.Status = common.Filled
	}
	return trades
}

// handleIOC runs the matching primitive, then cancels any residual
// unconditionally — an IOC order never rests, and its terminal status
// is CANCELLED even when it partially filled, never PARTIAL. Callers
// inspect FilledQuantity to tell "no fill" apart from "partial fill,
// then cancelled."
func handleIOC(ob *book.OrderBook, order *common.Order) []*common.Trade {
	trades := match(ob, order)
	finishUnrested(order)
	return trades
}

// handleFOK first checks, without mutating anything, whether the full
// order quantity is available at marketable prices. If not, the order
// is rejected as a no-op — zero trades, untouched book — and reported
// as the business failure ErrInsufficientLiquidity rather than a silent
// success. Otherwise the matching primitive runs to completion and is
// expected to fully consume the order — anything else is an invariant
// violation, since the pre-check already proved enough liquidity
// existed.
func handleFOK(ob *book.OrderBook, order *common.Order) ([]*common.Trade, error) {
	if availableLiquidity(ob, order).LessThan(order.Quantity) {
		order.Status = common.Cancelled
		return nil, ErrInsufficientLiquidity
	}
	trades := match(ob, order)
	if order.RemainingQuantity.IsPositive() {
		panic("engine: fok order left a residual after its pre-check guaranteed full liquidity")
	}
	order.Status = common.Filled
	return trades, nil
}

// finishUnrested sets the terminal status for MARKET and IOC orders,
// whose residual quantity is never rested: FILLED if fully consumed,
// CANCELLED otherwise.
func finishUnrested(order *common.Order) {
	if order.RemainingQuantity.IsZero() {
		order.Status = common.Filled
	} else {
		order.Status = common.Cancelled
	}
}
