package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

// marketable reports whether a contra level at contraPrice can trade
// against taker's limit. MARKET orders ignore the test and match any
// available level; BUY requires the ask to be at or below the taker's
// limit, SELL requires the bid to be at or above it.
func marketable(taker *common.Order, contraPrice decimal.Decimal) bool {
	if taker.Type == common.Market {
		return true
	}
	if taker.Side == common.Buy {
		return contraPrice.LessThanOrEqual(*taker.Price)
	}
	return contraPrice.GreaterThanOrEqual(*taker.Price)
}

// match is the shared matching primitive used by every order type. It
// walks the contra side of ob while taker has remaining quantity, the
// contra side has at least one level, and (for non-MARKET takers) the
// best contra price is marketable against taker's limit. Trade price is
// always the maker's resting price — the internal-protection rule that
// forbids trade-throughs. The caller must hold ob's write lock.
func match(ob *book.OrderBook, taker *common.Order) []*common.Trade {
	var trades []*common.Trade
	contra := ob.ContraSide(taker.Side)

	for taker.RemainingQuantity.IsPositive() {
		level, ok := contra.Best()
		if !ok {
			break
		}
		if !marketable(taker, level.Price) {
			break
		}

		for taker.RemainingQuantity.IsPositive() && !level.IsEmpty() {
			maker := level.PeekHead()
			fill := minDecimal(taker.RemainingQuantity, maker.RemainingQuantity)

			trade := &common.Trade{
				ID:            uuid.New().String(),
				Symbol:        ob.Symbol,
				Price:         level.Price,
				Quantity:      fill,
				Timestamp:     taker.Timestamp, // trades created by one submission all share its arrival time
				AggressorSide: taker.Side,
				MakerOrderID:  maker.ID,
				TakerOrderID:  taker.ID,
			}
			trades = append(trades, trade)

			level.ApplyFill(maker, fill)
			taker.RemainingQuantity = taker.RemainingQuantity.Sub(fill)
			taker.FilledQuantity = taker.FilledQuantity.Add(fill)

			if maker.RemainingQuantity.IsZero() {
				level.PopHead()
				maker.Status = common.Filled
				ob.Deindex(maker.ID)
			} else if maker.RemainingQuantity.IsNegative() {
				panic("engine: maker remaining quantity went negative")
			}
		}

		if level.IsEmpty() {
			contra.Delete(level)
		}
	}

	if taker.RemainingQuantity.IsNegative() {
		panic("engine: taker remaining quantity went negative")
	}
	return trades
}

// availableLiquidity sums total_quantity across every contra level that
// is marketable against order, stopping as soon as the running total
// reaches order's quantity. It is pure: no level, order, or book field
// is mutated. Used by the FOK pre-check.
func availableLiquidity(ob *book.OrderBook, order *common.Order) decimal.Decimal {
	contra := ob.ContraSide(order.Side)
	total := decimal.Zero
	for _, level := range contra.Items() {
		if !marketable(order, level.Price) {
			break
		}
		total = total.Add(level.TotalQuantity)
		if total.GreaterThanOrEqual(order.Quantity) {
			break
		}
	}
	return total
}
