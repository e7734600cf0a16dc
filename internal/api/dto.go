package api

import (
	"github.com/shopspring/decimal"

	"fenrir/internal/common"
)

// submitRequestDTO is the wire shape of POST /v1/orders.
type submitRequestDTO struct {
	Symbol   string           `json:"symbol"`
	Type     common.OrderType `json:"order_type"`
	Side     common.Side      `json:"side"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// responseDTO is the envelope wrapping every boundary response: a
// success flag, a human-readable message (empty on success), and
// whichever of order/trades applies to the call that produced it.
type responseDTO struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Order   *common.Order   `json:"order,omitempty"`
	Trades  []*common.Trade `json:"trades,omitempty"`
}
