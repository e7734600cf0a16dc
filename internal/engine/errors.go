package engine

import (
	"errors"

	"fenrir/internal/common"
)

// Validation errors — reported synchronously, before any order is
// created or any book is touched. Submit returns no order snapshot with
// them, so no order ever carries the REJECTED status.
var (
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalidPrice          = errors.New("price must be positive")
	ErrMissingPrice          = errors.New("price is required for this order type")
	ErrMarketPriceNotAllowed = errors.New("market orders must not specify a price")
	ErrUnknownOrderType      = common.ErrUnknownOrderType
	ErrUnknownSide           = common.ErrUnknownSide
	ErrUnknownSymbol         = errors.New("symbol is empty or unknown")
	ErrInvalidDepth          = errors.New("depth must be between 1 and 100")
	ErrInvalidLimit          = errors.New("limit must be between 1 and 200")
)

// Business outcomes — expected non-success results, not failures.
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity to fill order")
)
