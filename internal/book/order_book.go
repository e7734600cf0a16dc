package book

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fenrir/internal/common"
)

// OrderBook is the per-symbol book: two price-ordered sides plus an id
// index for cancellation. Its RWMutex is the per-symbol exclusive gate:
// callers that mutate the book (AddResting, Cancel, and the matching
// primitive in internal/engine) must hold the write lock; callers that
// only read a snapshot (BBO, Depth) may hold the read lock instead.
type OrderBook struct {
	Symbol string

	mu         sync.RWMutex
	bids       *BookSide
	asks       *BookSide
	index      map[string]*common.Order
	lastUpdate time.Time
}

func New(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   newBids(),
		asks:   newAsks(),
		index:  make(map[string]*common.Order),
	}
}

// Lock and Unlock expose the book's gate to the engine, which owns the
// decision of how much work happens under one critical section (e.g. a
// full match-then-rest sequence for one incoming order).
func (b *OrderBook) Lock()    { b.mu.Lock() }
func (b *OrderBook) Unlock()  { b.mu.Unlock() }
func (b *OrderBook) RLock()   { b.mu.RLock() }
func (b *OrderBook) RUnlock() { b.mu.RUnlock() }

func (b *OrderBook) sideFor(side common.Side) *BookSide {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// contraSideFor returns the side opposite an order's own side — the
// side the matching primitive walks when that order is the taker.
func (b *OrderBook) contraSideFor(side common.Side) *BookSide {
	if side == common.Buy {
		return b.asks
	}
	return b.bids
}

// ContraSide is the exported form of contraSideFor, used by the
// matching primitive in internal/engine.
func (b *OrderBook) ContraSide(side common.Side) *BookSide {
	return b.contraSideFor(side)
}

// touch stamps last_update. Callers must already hold the write lock.
func (b *OrderBook) touch() {
	b.lastUpdate = time.Now().UTC()
}

// AddResting inserts order into the book on its own side at its own
// price. Precondition: order has a non-nil Price and a positive
// RemainingQuantity. Callers must hold the write lock.
func (b *OrderBook) AddResting(order *common.Order) {
	if order.Price == nil {
		panic("book: AddResting called with a nil price")
	}
	level := b.sideFor(order.Side).getOrCreate(*order.Price)
	level.enqueue(order)
	b.index[order.ID] = order
	b.touch()
}

// Deindex removes order from the id index without touching its price
// level. Used by the matching primitive once a maker's queue entry has
// already been popped.
func (b *OrderBook) Deindex(orderID string) {
	delete(b.index, orderID)
}

// Cancel removes order_id from the book entirely: its price level (and
// the level itself if it empties) and the id index. Returns the
// cancelled order and true, or (nil, false) if the id is unknown —
// either never resting or already removed, which the engine reports as
// "not found" rather than an error. Callers must hold the write lock.
func (b *OrderBook) Cancel(orderID string) (*common.Order, bool) {
	order, ok := b.index[orderID]
	if !ok {
		return nil, false
	}
	side := b.sideFor(order.Side)
	if level, ok := side.levelAt(*order.Price); ok {
		level.remove(orderID)
		if level.IsEmpty() {
			side.Delete(level)
		}
	}
	delete(b.index, orderID)
	order.Status = common.Cancelled
	b.touch()
	return order, true
}

// BestBid and BestAsk return the top-of-book price on each side.
// Callers must hold at least the read lock.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	level, ok := b.bids.Best()
	if !ok {
		return decimal.Zero, false
	}
	return level.Price, true
}

func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	level, ok := b.asks.Best()
	if !ok {
		return decimal.Zero, false
	}
	return level.Price, true
}

// BBO is the bid and the ask price, either of which may be absent.
type BBO struct {
	Symbol string           `json:"symbol"`
	Bid    *decimal.Decimal `json:"bid"`
	Ask    *decimal.Decimal `json:"ask"`
	Spread *decimal.Decimal `json:"spread"`
}

// Quote returns the current BBO. Callers must hold at least the read
// lock.
func (b *OrderBook) Quote() BBO {
	quote := BBO{Symbol: b.Symbol}
	bidLevel, bidOK := b.bids.Best()
	askLevel, askOK := b.asks.Best()
	if bidOK {
		quote.Bid = &bidLevel.Price
	}
	if askOK {
		quote.Ask = &askLevel.Price
	}
	if bidOK && askOK {
		spread := askLevel.Price.Sub(bidLevel.Price)
		quote.Spread = &spread
	}
	return quote
}

// DepthLevel is one row of a depth snapshot: a price and the aggregate
// quantity resting there. It marshals as a two-element [price, quantity]
// array of decimal strings, not an object, matching the wire shape of
// every other level in the book.
type DepthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

func (l DepthLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]decimal.Decimal{l.Price, l.Quantity})
}

func (l *DepthLevel) UnmarshalJSON(data []byte) error {
	var pair [2]decimal.Decimal
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	l.Price, l.Quantity = pair[0], pair[1]
	return nil
}

// DepthSnapshot is the top n levels of each side, bids descending and
// asks ascending.
type DepthSnapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Symbol    string       `json:"symbol"`
	Bids      []DepthLevel `json:"bids"`
	Asks      []DepthLevel `json:"asks"`
}

// Depth returns the top n levels of each side. Callers must hold at
// least the read lock.
func (b *OrderBook) Depth(n int) DepthSnapshot {
	toDepthLevels := func(levels []*PriceLevel) []DepthLevel {
		out := make([]DepthLevel, len(levels))
		for i, l := range levels {
			out[i] = DepthLevel{Price: l.Price, Quantity: l.TotalQuantity}
		}
		return out
	}

	return DepthSnapshot{
		Timestamp: b.lastUpdate,
		Symbol:    b.Symbol,
		Bids:      toDepthLevels(b.bids.top(n)),
		Asks:      toDepthLevels(b.asks.top(n)),
	}
}
