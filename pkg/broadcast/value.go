package broadcast

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Sizer is the shape shared by all Values regardless of element type.
type Sizer interface {
	Len() int
	IsScalar() bool
}

// Value is either a single value repeated for every index or a sequence indexed positionally.
// The zero Value is a scalar holding the zero T.
type Value[T any] struct {
	scalar T
	seq    []T
	many   bool
}

// Scalar returns a Value that yields v for every index.
func Scalar[T any](v T) Value[T] {
	return Value[T]{scalar: v}
}

// Of returns a sequence-backed Value.
func Of[T any](vs ...T) Value[T] {
	return FromSlice(vs)
}

// FromSlice returns a sequence-backed Value holding a copy of vs.
// A nil or empty slice produces an empty sequence, not a scalar.
func FromSlice[T any](vs []T) Value[T] {
	return Value[T]{seq: slices.Clone(vs), many: true}
}

// Get returns the i-th element of a sequence or the scalar for any i >= 0.
// It panics when i is out of range for a sequence.
func (v Value[T]) Get(i int) T {
	if !v.many {
		if i < 0 {
			panic(fmt.Sprintf("broadcast: negative index %d", i))
		}
		return v.scalar
	}
	return v.seq[i]
}

// Lookup is Get without the panic: ok is false when i is out of range.
func (v Value[T]) Lookup(i int) (T, bool) {
	if i < 0 {
		var zero T
		return zero, false
	}
	if !v.many {
		return v.scalar, true
	}
	if i >= len(v.seq) {
		var zero T
		return zero, false
	}
	return v.seq[i], true
}

// Len returns the sequence length, or 1 for a scalar.
func (v Value[T]) Len() int {
	if v.many {
		return len(v.seq)
	}
	return 1
}

// IsScalar reports whether v was built from a single value.
func (v Value[T]) IsScalar() bool {
	return !v.many
}

// Compatible reports whether v and other can be indexed together.
func (v Value[T]) Compatible(other Sizer) bool {
	return Compatible(v, other)
}

// All yields the sequence elements in order, or the scalar once.
func (v Value[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if !v.many {
			yield(v.scalar)
			return
		}
		for _, e := range v.seq {
			if !yield(e) {
				return
			}
		}
	}
}

// Values returns a copy of the elements; a scalar yields a one-element slice.
func (v Value[T]) Values() []T {
	if !v.many {
		return []T{v.scalar}
	}
	return slices.Clone(v.seq)
}

// Map applies fn to every element, preserving the scalar or sequence form.
func Map[T, U any](v Value[T], fn func(T) U) Value[U] {
	if !v.many {
		return Scalar(fn(v.scalar))
	}
	out := make([]U, len(v.seq))
	for i, e := range v.seq {
		out[i] = fn(e)
	}
	return Value[U]{seq: out, many: true}
}

// Compatible reports whether a and b are length-compatible: either is a scalar,
// or both are sequences of equal length.
func Compatible(a, b Sizer) bool {
	if a.IsScalar() || b.IsScalar() {
		return true
	}
	return a.Len() == b.Len()
}

// Named pairs a parameter name with its Value for Validate.
type Named struct {
	Name  string
	Value Sizer
}

// Param is shorthand for Named{Name: name, Value: v}.
func Param(name string, v Sizer) Named {
	return Named{Name: name, Value: v}
}

// Validate checks every parameter against base and returns a *LengthError for the first mismatch.
// Parameters with a nil Value are treated as unset and skipped.
func Validate(base Sizer, params ...Named) error {
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		if !Compatible(base, p.Value) {
			return &LengthError{Name: p.Name, Want: base.Len(), Got: p.Value.Len()}
		}
	}
	return nil
}

// StringOption configures string normalisation in String and Strings.
type StringOption func(*stringOptions)

type stringOptions struct {
	trimFolder bool
}

// TrimFolder additionally strips trailing dots and path separators, so
// "images/" and "images." both become "images".
func TrimFolder() StringOption {
	return func(o *stringOptions) {
		o.trimFolder = true
	}
}

// String returns a scalar Value holding the normalised s.
func String(s string, opts ...StringOption) Value[string] {
	return Scalar(normalize(s, opts))
}

// Strings returns a sequence Value of normalised strings. Empty entries are kept as is.
func Strings(ss []string, opts ...StringOption) Value[string] {
	out := make([]string, len(ss))
	for i, s := range ss {
		if s == "" {
			continue
		}
		out[i] = normalize(s, opts)
	}
	return Value[string]{seq: out, many: true}
}

func normalize(s string, opts []StringOption) string {
	o := stringOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	s = strings.TrimSpace(s)
	if o.trimFolder {
		s = strings.TrimRight(s, `./\`)
	}
	return s
}
