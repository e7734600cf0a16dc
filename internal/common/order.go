package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the exchange's record of a single submission. It is created
// at ingestion, mutated only by the engine under the owning book's gate,
// and destroyed (dropped from the book) once fully filled or cancelled;
// it survives only by id inside any Trade it participated in.
type Order struct {
	ID                string           `json:"order_id"`
	Symbol            string           `json:"symbol"`
	Type              OrderType        `json:"order_type"`
	Side              Side             `json:"side"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Price             *decimal.Decimal `json:"price"`
	FilledQuantity    decimal.Decimal  `json:"filled_quantity"`
	RemainingQuantity decimal.Decimal  `json:"remaining_quantity"`
	Timestamp         time.Time        `json:"timestamp"`
	Status            Status           `json:"status"`
}

// Snapshot returns a shallow copy safe to hand to a reader outside the
// book's gate.
func (o *Order) Snapshot() *Order {
	s := *o
	return &s
}

func (o Order) String() string {
	price := "null"
	if o.Price != nil {
		price = o.Price.String()
	}
	return fmt.Sprintf(
		`ID:                %s
Symbol:            %s
Type:              %s
Side:              %s
Price:             %s
Quantity:          %s
FilledQuantity:    %s
RemainingQuantity: %s
Timestamp:         %s
Status:            %s`,
		o.ID,
		o.Symbol,
		o.Type,
		o.Side,
		price,
		o.Quantity.String(),
		o.FilledQuantity.String(),
		o.RemainingQuantity.String(),
		o.Timestamp.UTC().Format(time.RFC3339Nano),
		o.Status,
	)
}
