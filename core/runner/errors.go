package runner

import "errors"

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("runner: invalid config")
