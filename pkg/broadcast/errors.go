package broadcast

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is the sentinel wrapped by every LengthError.
var ErrLengthMismatch = errors.New("broadcast: length mismatch")

// LengthError reports a per-item parameter whose length does not match the items it is aligned with.
type LengthError struct {
	Name string // Parameter name, e.g. "filenames"
	Want int    // Length of the base sequence
	Got  int    // Length of the parameter sequence
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: %s list has %d elements, expected %d (use a single value or a list of matching length)",
		ErrLengthMismatch.Error(), e.Name, e.Got, e.Want)
}

func (e *LengthError) Unwrap() error {
	return ErrLengthMismatch
}
