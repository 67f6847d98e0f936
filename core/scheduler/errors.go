package scheduler

import "errors"

var (
	// ErrNoResult marks a unit that finished without a value. The scheduler stores an
	// absent Result for it and continues with the rest of the batch.
	ErrNoResult = errors.New("scheduler: no result")

	// ErrNilUnit is returned when a nil unit is submitted.
	ErrNilUnit = errors.New("scheduler: nil unit")

	// ErrPanic wraps a value recovered from a panicking unit. It fails the batch.
	ErrPanic = errors.New("scheduler: unit panicked")
)
