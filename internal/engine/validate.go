package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fenrir/internal/common"
)

// SubmitRequest is the boundary-agnostic shape of an incoming order. The
// HTTP layer decodes its wire JSON into this before calling Submit.
type SubmitRequest struct {
	Symbol   string
	Type     common.OrderType
	Side     common.Side
	Quantity decimal.Decimal
	Price    *decimal.Decimal
}

// validate turns a SubmitRequest into a fresh Order, or reports why it
// can't. It never touches a book: validation failures never mutate
// state.
func (e *MatchingEngine) validate(req SubmitRequest) (*common.Order, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, ErrUnknownSymbol
	}
	if req.Quantity.IsZero() || req.Quantity.IsNegative() {
		return nil, ErrInvalidQuantity
	}

	switch req.Type {
	case common.Market:
		if req.Price != nil {
			return nil, ErrMarketPriceNotAllowed
		}
	case common.Limit, common.IOC, common.FOK:
		if req.Price == nil {
			return nil, ErrMissingPrice
		}
		if req.Price.IsZero() || req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
	default:
		return nil, ErrUnknownOrderType
	}

	if req.Side != common.Buy && req.Side != common.Sell {
		return nil, ErrUnknownSide
	}

	return &common.Order{
		ID:                uuid.New().String(),
		Symbol:            symbol,
		Type:              req.Type,
		Side:              req.Side,
		Quantity:          req.Quantity,
		Price:             req.Price,
		FilledQuantity:    decimal.Zero,
		RemainingQuantity: req.Quantity,
		Timestamp:         e.clock.now(),
		Status:            common.Pending,
	}, nil
}
