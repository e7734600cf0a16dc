package common

import "errors"

// Sentinel errors shared between the wire decoders and the engine's own
// validation pass (which re-exports them), so both report the same
// failure the same way.
var (
	ErrUnknownSide      = errors.New("unknown side")
	ErrUnknownOrderType = errors.New("unknown order type")
)
