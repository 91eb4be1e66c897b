package scx

import "errors"

// errors on resolving scheduler and mode inputs.
var (
	ErrInvalidScheduler = errors.New("invalid scheduler name")
	ErrInvalidMode      = errors.New("invalid scheduler mode")
)
