package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func limitReq(side common.Side, price, qty string) SubmitRequest {
	return SubmitRequest{Symbol: "BTC-USD", Type: common.Limit, Side: side, Quantity: dec(qty), Price: decPtr(price)}
}

func TestSubmit_SimpleCross(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Sell, "100", "10"))
	require.NoError(t, err)

	report, err := eng.Submit(limitReq(common.Buy, "100", "10"))
	require.NoError(t, err)

	require.Len(t, report.Trades, 1)
	trade := report.Trades[0]
	assert.True(t, trade.Price.Equal(dec("100")), "execution price is the maker's resting price")
	assert.True(t, trade.Quantity.Equal(dec("10")))
	assert.Equal(t, common.Filled, report.Order.Status)
}

func TestSubmit_PriceTimePriority(t *testing.T) {
	eng := New()

	first, err := eng.Submit(limitReq(common.Sell, "100", "5"))
	require.NoError(t, err)
	_, err = eng.Submit(limitReq(common.Sell, "100", "5"))
	require.NoError(t, err)

	taker, err := eng.Submit(limitReq(common.Buy, "100", "5"))
	require.NoError(t, err)

	require.Len(t, taker.Trades, 1)
	assert.Equal(t, first.Order.ID, taker.Trades[0].MakerOrderID, "the earlier-arrived resting order at the same price fills first")
}

func TestSubmit_IOCCancelsResidualWithoutResting(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Sell, "100", "5"))
	require.NoError(t, err)

	report, err := eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.IOC, Side: common.Buy, Quantity: dec("10"), Price: decPtr("100"),
	})
	require.NoError(t, err)

	require.Len(t, report.Trades, 1)
	assert.True(t, report.Trades[0].Quantity.Equal(dec("5")))
	assert.Equal(t, common.Cancelled, report.Order.Status, "IOC residual is always cancelled, never left partial")

	depth := eng.Depth("BTC-USD", 10)
	assert.Empty(t, depth.Bids, "IOC never rests")
}

func TestSubmit_FOKRejectsWhenInsufficientLiquidity(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Sell, "100", "5"))
	require.NoError(t, err)

	report, err := eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.FOK, Side: common.Buy, Quantity: dec("10"), Price: decPtr("100"),
	})
	require.ErrorIs(t, err, ErrInsufficientLiquidity)

	assert.Empty(t, report.Trades, "FOK reject is a no-op: zero trades")
	assert.Equal(t, common.Cancelled, report.Order.Status)

	depth := eng.Depth("BTC-USD", 10)
	require.Len(t, depth.Asks, 1)
	assert.True(t, depth.Asks[0].Quantity.Equal(dec("5")), "the book is untouched by a rejected FOK")
}

func TestSubmit_FOKFillsExactlyEnoughLiquidity(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Sell, "100", "10"))
	require.NoError(t, err)

	report, err := eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.FOK, Side: common.Buy, Quantity: dec("10"), Price: decPtr("100"),
	})
	require.NoError(t, err)

	require.Len(t, report.Trades, 1)
	assert.True(t, report.Trades[0].Quantity.Equal(dec("10")))
	assert.Equal(t, common.Filled, report.Order.Status)
}

func TestSubmit_FOKBoundaryOneUnitShort(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Sell, "100", "9.99999999"))
	require.NoError(t, err)

	report, err := eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.FOK, Side: common.Buy, Quantity: dec("10"), Price: decPtr("100"),
	})
	require.ErrorIs(t, err, ErrInsufficientLiquidity)
	assert.Empty(t, report.Trades)
	assert.Equal(t, common.Cancelled, report.Order.Status)
}

func TestSubmit_MarketOnEmptyBookCancelsImmediately(t *testing.T) {
	eng := New()

	report, err := eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.Market, Side: common.Buy, Quantity: dec("10"),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Trades)
	assert.Equal(t, common.Cancelled, report.Order.Status)
}

func TestSubmit_MarketOrderRejectsExplicitPrice(t *testing.T) {
	eng := New()
	_, err := eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.Market, Side: common.Buy, Quantity: dec("10"), Price: decPtr("100"),
	})
	assert.ErrorIs(t, err, ErrMarketPriceNotAllowed)
}

func TestSubmit_RejectsZeroAndNegativeQuantity(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Buy, "100", "0"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = eng.Submit(limitReq(common.Buy, "100", "-5"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSubmit_RejectsZeroAndNegativePrice(t *testing.T) {
	eng := New()

	_, err := eng.Submit(limitReq(common.Buy, "0", "10"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = eng.Submit(limitReq(common.Buy, "-1", "10"))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCancel_IsIdempotent(t *testing.T) {
	eng := New()

	report, err := eng.Submit(limitReq(common.Buy, "99", "10"))
	require.NoError(t, err)

	cancelled, err := eng.Cancel("BTC-USD", report.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, common.Cancelled, cancelled.Status)

	_, err = eng.Cancel("BTC-USD", report.Order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancel_UnknownSymbolReportsUnknownSymbol(t *testing.T) {
	eng := New()
	_, err := eng.Cancel("DOES-NOT-EXIST", "some-id")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestSubmit_TradeObserverFiresOncePerTrade(t *testing.T) {
	eng := New()
	var seen []*common.Trade
	eng.OnTrade(func(trade *common.Trade) {
		seen = append(seen, trade)
	})

	_, err := eng.Submit(limitReq(common.Sell, "100", "10"))
	require.NoError(t, err)
	_, err = eng.Submit(limitReq(common.Buy, "100", "10"))
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.True(t, seen[0].Quantity.Equal(dec("10")))
}

func TestSubmit_TradeObserverPanicDoesNotCorruptEngine(t *testing.T) {
	eng := New()
	eng.OnTrade(func(trade *common.Trade) {
		panic("boom")
	})

	_, err := eng.Submit(limitReq(common.Sell, "100", "10"))
	require.NoError(t, err)

	report, err := eng.Submit(limitReq(common.Buy, "100", "10"))
	require.NoError(t, err)
	require.Len(t, report.Trades, 1)
}

func TestSubmit_BookObserverFiresOnPassiveRestEvenWithoutATrade(t *testing.T) {
	eng := New()
	var updates int
	eng.OnBookUpdate(func(symbol string, depth book.DepthSnapshot) {
		updates++
	})

	_, err := eng.Submit(limitReq(common.Buy, "100", "10"))
	require.NoError(t, err)

	assert.Equal(t, 1, updates, "a resting limit order mutates the book even though it produced no trade")
}

func TestSubmit_BookObserverStaysSilentOnARejectedFOK(t *testing.T) {
	eng := New()
	_, err := eng.Submit(limitReq(common.Sell, "100", "5"))
	require.NoError(t, err)

	var updates int
	eng.OnBookUpdate(func(symbol string, depth book.DepthSnapshot) {
		updates++
	})

	_, err = eng.Submit(SubmitRequest{
		Symbol: "BTC-USD", Type: common.FOK, Side: common.Buy, Quantity: dec("10"), Price: decPtr("100"),
	})
	require.ErrorIs(t, err, ErrInsufficientLiquidity)

	assert.Zero(t, updates, "a rejected FOK leaves the book untouched, so no update fires")
}
