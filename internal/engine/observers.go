package engine

import (
	"github.com/rs/zerolog/log"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

const bookUpdateDepth = 20

// TradeObserver is notified once per trade, in price-time order, inside
// the per-symbol critical section that produced it.
type TradeObserver func(trade *common.Trade)

// BookObserver is notified once per Submit/Cancel call that changed a
// book, with a depth-20 snapshot, after all of that call's trades have
// already been dispatched to TradeObservers.
type BookObserver func(symbol string, depth book.DepthSnapshot)

// OnTrade registers a trade observer. Not safe to call concurrently
// with Submit/Cancel; register observers during startup.
func (e *MatchingEngine) OnTrade(obs TradeObserver) {
	e.tradeObservers = append(e.tradeObservers, obs)
}

// OnBookUpdate registers a book observer. Same registration-time
// restriction as OnTrade.
func (e *MatchingEngine) OnBookUpdate(obs BookObserver) {
	e.bookObservers = append(e.bookObservers, obs)
}

// fireTrades dispatches trades synchronously, isolating each observer
// with recover so a panicking callback cannot corrupt the matching loop
// or take down the engine.
func (e *MatchingEngine) fireTrades(trades []*common.Trade) {
	for _, trade := range trades {
		for _, obs := range e.tradeObservers {
			e.safeTradeCall(obs, trade)
		}
	}
}

func (e *MatchingEngine) safeTradeCall(obs TradeObserver, trade *common.Trade) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("trade_id", trade.ID).Msg("trade observer panicked")
		}
	}()
	obs(trade)
}

// fireBookUpdate dispatches a depth-20 snapshot to every book observer,
// same panic-isolation discipline as fireTrades.
func (e *MatchingEngine) fireBookUpdate(symbol string, depth book.DepthSnapshot) {
	for _, obs := range e.bookObservers {
		e.safeBookCall(obs, symbol, depth)
	}
}

func (e *MatchingEngine) safeBookCall(obs BookObserver, symbol string, depth book.DepthSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("symbol", symbol).Msg("book observer panicked")
		}
	}()
	obs(symbol, depth)
}
