// Package model defines the data structures for coverage tracking.
package model

// Status represents the pass state of a coverage net or a whole run.
type Status int

const (
	// Passed indicates every bin met its goal.
	Passed Status = iota
	// Skipped indicates the net is bypassed and excluded from scoring.
	Skipped
	// Failed indicates at least one bin is below its goal.
	Failed
)

// String returns the report label for the status.
func (s Status) String() string {
	switch s {
	case Passed:
		return "PASSED"
	case Skipped:
		return "SKIPPED"
	case Failed:
		return "FAILED"
	}

	return "UNKNOWN"
}

// ToJSON maps the status onto the tri-state `met` field used in reports:
// true for passed, false for failed, and null for skipped.
func (s Status) ToJSON() *bool {
	switch s {
	case Passed:
		met := true
		return &met
	case Failed:
		met := false
		return &met
	}

	return nil
}

// Kind identifies the concrete coverage net variant. The set is closed;
// serialization dispatches on it exhaustively instead of inspecting types.
type Kind int

const (
	// KindPoint tracks a single boolean event.
	KindPoint Kind = iota
	// KindRange partitions a contiguous integer span into bins.
	KindRange
	// KindGroup partitions an enumerated value set into macro-bins.
	KindGroup
	// KindCross tracks the cartesian product of other nets' partitions.
	KindCross
)

// String returns the report type tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindRange:
		return "range"
	case KindGroup:
		return "group"
	case KindCross:
		return "cross"
	}

	return "net"
}
