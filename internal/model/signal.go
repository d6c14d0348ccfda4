package model

import "math/rand"

// MaxSignalWidth bounds signal widths so every representable value fits in
// an int64 without overflow.
const MaxSignalWidth = 62

// Signal is a mutable, width-bounded sampled value. It is the boundary type
// coverage nets borrow for reading observations and writing proposed
// stimulus; the nets never own the signals they reference.
type Signal struct {
	width int
	value int64
}

// NewSignal creates a signal of the given bit width. Widths outside
// [1, MaxSignalWidth] are clamped.
func NewSignal(width int) *Signal {
	if width < 1 {
		width = 1
	}

	if width > MaxSignalWidth {
		width = MaxSignalWidth
	}

	return &Signal{width: width}
}

// Width returns the signal's bit width.
func (s *Signal) Width() int {
	return s.width
}

// Int returns the current value.
func (s *Signal) Int() int64 {
	return s.value
}

// Assign writes a value, masked to the signal's width.
func (s *Signal) Assign(v int64) {
	s.value = v & s.mask()
}

// Min returns the smallest representable value.
func (s *Signal) Min() int64 {
	return 0
}

// Max returns the largest representable value.
func (s *Signal) Max() int64 {
	return s.mask()
}

// Span returns the half-open interval [start, stop) of representable values.
func (s *Signal) Span() (int64, int64) {
	return 0, s.mask() + 1
}

// Randomize assigns a uniformly random representable value.
func (s *Signal) Randomize(rng *rand.Rand) {
	s.value = rng.Int63n(s.mask() + 1)
}

func (s *Signal) mask() int64 {
	return (int64(1) << s.width) - 1
}
