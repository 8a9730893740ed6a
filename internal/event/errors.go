package event

import "errors"

// Errors returned by the bus.
var (
	ErrInvalidTopic  = errors.New("invalid topic")
	ErrNilHandler    = errors.New("nil handler")
	ErrBusClosed     = errors.New("bus is closed")
	ErrNotSubscribed = errors.New("subscription not found")
)
