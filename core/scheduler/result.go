package scheduler

import (
	"context"
	"fmt"
)

// Unit is one independently schedulable operation.
type Unit[T any] func(ctx context.Context) (T, error)

// Result occupies a unit's position in the output. OK is false for absent results.
type Result[T any] struct {
	Value T
	OK    bool
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.OK
}

// Present returns the values of all present results, in order.
func Present[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.OK {
			out = append(out, r.Value)
		}
	}
	return out
}

// Progress receives batch progress. Implementations must be safe for concurrent use.
type Progress interface {
	// Start is called once before the first unit with the expected total, or -1 if unknown.
	Start(total int)
	Add(n int)
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int) {}
func (noopProgress) Add(int)   {}
func (noopProgress) Finish()   {}

// call runs unit and converts a panic into an error wrapping ErrPanic.
func call[T any](ctx context.Context, unit Unit[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return unit(ctx)
}
