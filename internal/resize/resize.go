// Package resize keeps stepper scratch buffers the same size as the state
// they are used with.
//
// A [Space] describes one container type: how to create an empty value,
// how to measure it and whether it can be resized at all. A [Resizer]
// decides when the size check runs. Together they implement the lazy
// protocol steppers use: buffers are created empty, sized on first use and
// reallocated only when a later state has a different cardinality.
package resize

import (
	"fmt"

	"github.com/san-kum/odestep/internal/dynamo"
)

// Resizeability tags a container type as resizeable or fixed-size.
type Resizeability uint8

const (
	FixedSize Resizeability = iota
	Resizeable
)

func (r Resizeability) String() string {
	switch r {
	case Resizeable:
		return "resizeable"
	case FixedSize:
		return "fixed"
	default:
		return fmt.Sprintf("Resizeability(%d)", uint8(r))
	}
}

// NeedsResize reports whether a buffer of bufLen elements must be
// reallocated to match a reference of refLen elements.
func NeedsResize(tag Resizeability, bufLen, refLen int) bool {
	return tag == Resizeable && bufLen != refLen
}

// Space is the capability set of a state container type S.
type Space[S any] interface {
	// New returns a default-constructed value. Resizeable spaces return an
	// empty container, fixed spaces a fully sized one.
	New() S
	Len(x S) int
	Resizeability() Resizeability
	// Resize reallocates *buf to n elements. Contents are unspecified.
	Resize(buf *S, n int) error
}

// Adjust resizes buf to match ref when the space allows it and the sizes
// differ. It reports whether buf was reallocated.
func Adjust[S any](sp Space[S], buf *S, ref S) (bool, error) {
	n := sp.Len(ref)
	if !NeedsResize(sp.Resizeability(), sp.Len(*buf), n) {
		return false, nil
	}
	if err := sp.Resize(buf, n); err != nil {
		return false, fmt.Errorf("%w: %w", dynamo.ErrResize, err)
	}
	return true, nil
}
