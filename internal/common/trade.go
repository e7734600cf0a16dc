package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade records a single execution between a resting maker order and the
// aggressing taker order that crossed it. Trades are immutable once
// created and are appended to an append-only log.
type Trade struct {
	ID            string          `json:"trade_id"`
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"` // Always the maker's resting price.
	Quantity      decimal.Decimal `json:"quantity"`
	Timestamp     time.Time       `json:"timestamp"`
	AggressorSide Side            `json:"aggressor_side"`
	MakerOrderID  string          `json:"maker_order_id"`
	TakerOrderID  string          `json:"taker_order_id"`
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`ID:            %s
Symbol:        %s
Price:         %s
Quantity:      %s
Timestamp:     %s
AggressorSide: %s
MakerOrderID:  %s
TakerOrderID:  %s`,
		t.ID,
		t.Symbol,
		t.Price.String(),
		t.Quantity.String(),
		t.Timestamp.UTC().Format(time.RFC3339Nano),
		t.AggressorSide,
		t.MakerOrderID,
		t.TakerOrderID,
	)
}
