package engine

import (
	"sync"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

// MatchingEngine owns one OrderBook and one tradeLog per symbol and
// dispatches Submit/Cancel calls to the right book under that book's
// own lock — a sharded gate, one per symbol, rather than one lock for
// the whole engine. A short-lived global mutex guards only the books
// map itself, never the matching loop, so unrelated symbols never
// block each other.
type MatchingEngine struct {
	mu    sync.Mutex
	books map[string]*bookEntry
	clock monotonicClock

	tradeObservers []TradeObserver
	bookObservers  []BookObserver
}

// bookEntry pairs a symbol's book with its trade log. The OrderBook's
// own RWMutex (exposed via Lock/RLock) is the single per-symbol gate;
// the trade log is only written while that write lock is held (and only
// read under the read lock), so it needs no lock of its own.
type bookEntry struct {
	ob   *book.OrderBook
	logs *tradeLog
}

// New returns an empty MatchingEngine ready to accept Submit/Cancel
// calls for any symbol; books are created lazily on first use.
func New() *MatchingEngine {
	return &MatchingEngine{
		books: make(map[string]*bookEntry),
	}
}

func (e *MatchingEngine) entryFor(symbol string) *bookEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.books[symbol]
	if !ok {
		entry = &bookEntry{
			ob:   book.New(symbol),
			logs: newTradeLog(defaultTradeLogCapacity),
		}
		e.books[symbol] = entry
	}
	return entry
}

// existingEntry looks up a symbol's entry without creating one, for
// read-only and cancel paths that must report ErrUnknownSymbol instead
// of silently materializing an empty book.
func (e *MatchingEngine) existingEntry(symbol string) (*bookEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.books[symbol]
	return entry, ok
}

// ExecutionReport is the outcome of a Submit call: the order in its
// post-match state plus every trade it produced, in execution order.
type ExecutionReport struct {
	Order  *common.Order
	Trades []*common.Trade
}

// Submit validates req, then atomically runs the matching primitive
// appropriate to its order type against the symbol's book. Validation
// failures return before any book is touched or any entry is created.
func (e *MatchingEngine) Submit(req SubmitRequest) (ExecutionReport, error) {
	order, err := e.validate(req)
	if err != nil {
		return ExecutionReport{}, err
	}

	entry := e.entryFor(order.Symbol)

	entry.ob.Lock()
	var trades []*common.Trade
	var handleErr error
	switch order.Type {
	case common.Market:
		trades = handleMarket(entry.ob, order)
	case common.Limit:
		trades = handleLimit(entry.ob, order)
	case common.IOC:
		trades = handleIOC(entry.ob, order)
	case common.FOK:
		trades, handleErr = handleFOK(entry.ob, order)
	}
	for _, trade := range trades {
		entry.logs.append(trade)
	}
	// A FOK reject leaves the book untouched; every other outcome either
	// produced a trade or rested a residual, both real book mutations.
	bookChanged := handleErr == nil && (len(trades) > 0 || order.Status == common.Pending || order.Status == common.Partial)
	var depth book.DepthSnapshot
	if bookChanged {
		depth = entry.ob.Depth(bookUpdateDepth)
	}

	e.fireTrades(trades)
	if bookChanged {
		e.fireBookUpdate(order.Symbol, depth)
	}
	entry.ob.Unlock()

	if handleErr != nil {
		return ExecutionReport{Order: order.Snapshot(), Trades: trades}, handleErr
	}
	return ExecutionReport{Order: order.Snapshot(), Trades: trades}, nil
}

// Cancel removes a resting order from its book and marks it CANCELLED.
// It returns ErrUnknownSymbol if the symbol has never been submitted to
// and ErrOrderNotFound if the order doesn't exist or has already left
// the book (filled, cancelled, or never rested).
func (e *MatchingEngine) Cancel(symbol, orderID string) (*common.Order, error) {
	entry, ok := e.existingEntry(symbol)
	if !ok {
		return nil, ErrUnknownSymbol
	}

	entry.ob.Lock()
	order, ok := entry.ob.Cancel(orderID)
	var depth book.DepthSnapshot
	if ok {
		depth = entry.ob.Depth(bookUpdateDepth)
		e.fireBookUpdate(symbol, depth)
	}
	entry.ob.Unlock()

	if !ok {
		return nil, ErrOrderNotFound
	}
	return order.Snapshot(), nil
}

// Depth returns the top n levels of each side of symbol's book. An
// unknown symbol reports an empty, zero-valued book rather than an
// error, since "no orders yet" and "no book yet" are indistinguishable
// to a caller asking for a quote.
func (e *MatchingEngine) Depth(symbol string, n int) book.DepthSnapshot {
	entry, ok := e.existingEntry(symbol)
	if !ok {
		return book.DepthSnapshot{Symbol: symbol}
	}
	entry.ob.RLock()
	defer entry.ob.RUnlock()
	return entry.ob.Depth(n)
}

// BBO returns symbol's best bid/offer, zero-valued if the symbol is
// unknown.
func (e *MatchingEngine) BBO(symbol string) book.BBO {
	entry, ok := e.existingEntry(symbol)
	if !ok {
		return book.BBO{Symbol: symbol}
	}
	entry.ob.RLock()
	defer entry.ob.RUnlock()
	return entry.ob.Quote()
}

// RecentTrades returns up to limit of symbol's most recent trades, most
// recent first.
func (e *MatchingEngine) RecentTrades(symbol string, limit int) []*common.Trade {
	entry, ok := e.existingEntry(symbol)
	if !ok {
		return nil
	}
	entry.ob.RLock()
	defer entry.ob.RUnlock()
	return entry.logs.recent(limit)
}
