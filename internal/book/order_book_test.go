package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/common"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func restingOrder(side common.Side, price, qty string) *common.Order {
	p := dec(price)
	return &common.Order{
		ID:                p.String() + "-" + qty,
		Symbol:            "BTC-USD",
		Type:              common.Limit,
		Side:              side,
		Quantity:          dec(qty),
		Price:             &p,
		RemainingQuantity: dec(qty),
		Status:            common.Pending,
	}
}

func TestAddResting_OrdersByPricePriority(t *testing.T) {
	ob := New("BTC-USD")

	ob.AddResting(restingOrder(common.Buy, "99", "100"))
	ob.AddResting(restingOrder(common.Buy, "100", "50"))
	ob.AddResting(restingOrder(common.Sell, "101", "50"))
	ob.AddResting(restingOrder(common.Sell, "100.5", "25"))

	bids := ob.bids.Items()
	require.Len(t, bids, 2)
	assert.True(t, bids[0].Price.Equal(dec("100")), "best bid should be highest price first")
	assert.True(t, bids[1].Price.Equal(dec("99")))

	asks := ob.asks.Items()
	require.Len(t, asks, 2)
	assert.True(t, asks[0].Price.Equal(dec("100.5")), "best ask should be lowest price first")
	assert.True(t, asks[1].Price.Equal(dec("101")))
}

func TestAddResting_SamePriceQueuesByArrival(t *testing.T) {
	ob := New("BTC-USD")

	first := restingOrder(common.Buy, "100", "10")
	first.ID = "first"
	second := restingOrder(common.Buy, "100", "20")
	second.ID = "second"

	ob.AddResting(first)
	ob.AddResting(second)

	level, ok := ob.bids.Best()
	require.True(t, ok)
	require.Len(t, level.Orders, 2)
	assert.Equal(t, "first", level.Orders[0].ID, "earlier arrival keeps head of queue")
	assert.Equal(t, "second", level.Orders[1].ID)
	assert.True(t, level.TotalQuantity.Equal(dec("30")))
}

func TestCancel_RemovesOrderAndEmptiesLevel(t *testing.T) {
	ob := New("BTC-USD")
	order := restingOrder(common.Sell, "100", "10")
	ob.AddResting(order)

	cancelled, ok := ob.Cancel(order.ID)
	require.True(t, ok)
	assert.Equal(t, common.Cancelled, cancelled.Status)
	assert.Equal(t, 0, ob.asks.Len(), "level should be deleted once its last order is cancelled")

	_, ok = ob.Cancel(order.ID)
	assert.False(t, ok, "cancelling twice is a no-op reporting not-found")
}

func TestQuote_ReportsBidAskAndSpread(t *testing.T) {
	ob := New("BTC-USD")
	ob.AddResting(restingOrder(common.Buy, "99", "10"))
	ob.AddResting(restingOrder(common.Sell, "101", "10"))

	quote := ob.Quote()
	require.NotNil(t, quote.Bid)
	require.NotNil(t, quote.Ask)
	require.NotNil(t, quote.Spread)
	assert.True(t, quote.Bid.Equal(dec("99")))
	assert.True(t, quote.Ask.Equal(dec("101")))
	assert.True(t, quote.Spread.Equal(dec("2")))
}

func TestQuote_EmptyBookHasNoBidOrAsk(t *testing.T) {
	ob := New("BTC-USD")
	quote := ob.Quote()
	assert.Nil(t, quote.Bid)
	assert.Nil(t, quote.Ask)
	assert.Nil(t, quote.Spread)
}

func TestDepth_ReturnsTopNLevelsBestFirst(t *testing.T) {
	ob := New("BTC-USD")
	ob.AddResting(restingOrder(common.Buy, "99", "10"))
	ob.AddResting(restingOrder(common.Buy, "98", "10"))
	ob.AddResting(restingOrder(common.Buy, "97", "10"))

	depth := ob.Depth(2)
	require.Len(t, depth.Bids, 2)
	assert.True(t, depth.Bids[0].Price.Equal(dec("99")))
	assert.True(t, depth.Bids[1].Price.Equal(dec("98")))
}
