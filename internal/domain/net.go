// Package domain contains the core coverage-tracking logic: the coverage
// net variants, their builders, and the session that aggregates them.
package domain

import (
	"fmt"

	"covnet.dev/pkg/covnet/internal/model"
)

// Value is a borrowed reference to an externally owned sampled value. A net
// reads values through it when checking coverage and writes through it when
// advancing coverage; it never owns the underlying storage.
type Value interface {
	Int() int64
	Assign(v int64)
}

// CheckFunc maps one observation (the sink values) onto the net's sample
// domain. It is the one-way checker transform.
type CheckFunc func(values ...int64) int64

// AdvanceFunc proposes the values to write to the source values to steer
// the next observation toward an unmet goal. It is the inverse of the
// checker transform.
type AdvanceFunc func(sources ...Value) []int64

// Net is the contract shared by every coverage net variant. A net is
// created by its builder's Apply call; afterwards only the hit counters and
// value logs mutate, via Check.
type Net interface {
	Name() string
	Kind() model.Kind
	Bypassed() bool

	// HasSink reports whether the net has signals to read for checking.
	HasSink() bool
	// HasSource reports whether the net has signals to write for advancing.
	HasSource() bool
	Sinks() []Value
	Sources() []Value

	// PartitionCount returns the number of partitions of the sample space.
	PartitionCount() int
	// Step returns the width of one partition in domain units.
	Step() int64
	// TotalGoalCount returns the total number of goal points of the net.
	TotalGoalCount() int
	// PointsMet returns the number of partitions that reached their goal.
	PointsMet() int
	// TotalPointsMet returns the total hits recorded across all partitions.
	TotalPointsMet() int

	// InSampleSpace reports whether the item belongs to the net's declared
	// sample space. Only cross nets can fail, on an arity mismatch.
	InSampleSpace(values ...int64) (bool, error)
	// Check records an observation. The return convention is kind
	// specific: point nets return the mapped boolean itself, every other
	// kind returns whether the hit bin was still below goal beforehand.
	// Out-of-space items return false without mutating any state.
	Check(values ...int64) (bool, error)
	// Advance proposes values that would make progress toward the goal,
	// or nil when the net is fully covered.
	Advance(randomize bool) ([]int64, error)

	Passed() bool
	Skipped() bool
	Status() model.Status

	// Log renders the net for the text report.
	Log(verbose bool) (string, error)
	// Snapshot renders the net for the structured report.
	Snapshot() model.NetReport
}

// netConfig accumulates the builder setters shared by every net kind until
// Apply validates them and freezes the derived structure.
type netConfig struct {
	name     string
	goal     int
	bypass   bool
	target   []Value
	source   []Value
	sink     []Value
	checker  CheckFunc
	advancer AdvanceFunc
}

func newNetConfig(name string) netConfig {
	return netConfig{
		name: name,
		goal: 1,
	}
}

// netCore holds the finalized shared state embedded by every net kind.
type netCore struct {
	name    string
	kind    model.Kind
	goal    int
	bypass  bool
	target  []Value
	source  []Value
	sink    []Value
	session *Session
}

// buildCore freezes the shared configuration. Source and sink default to
// the target when unset.
func buildCore(cfg netConfig, kind model.Kind) netCore {
	source := cfg.source
	if source == nil {
		source = cfg.target
	}

	sink := cfg.sink
	if sink == nil {
		sink = cfg.target
	}

	return netCore{
		name:   cfg.name,
		kind:   kind,
		goal:   cfg.goal,
		bypass: cfg.bypass,
		target: cfg.target,
		source: source,
		sink:   sink,
	}
}

func (c *netCore) Name() string {
	return c.name
}

func (c *netCore) Kind() model.Kind {
	return c.kind
}

func (c *netCore) Bypassed() bool {
	return c.bypass
}

// Skipped reports whether the net is exempt from pass/fail scoring.
func (c *netCore) Skipped() bool {
	return c.bypass
}

func (c *netCore) HasSink() bool {
	return len(c.sink) > 0
}

func (c *netCore) HasSource() bool {
	return len(c.source) > 0
}

func (c *netCore) Sinks() []Value {
	return c.sink
}

func (c *netCore) Sources() []Value {
	return c.source
}

// statusOf derives the report status from the pass state, honoring bypass.
func (c *netCore) statusOf(passed bool) model.Status {
	if c.bypass {
		return model.Skipped
	}

	if passed {
		return model.Passed
	}

	return model.Failed
}

// metJSON maps the pass state onto the tri-state bin/net `met` field:
// bypassed nets report null.
func (c *netCore) metJSON(passed bool) *bool {
	if c.bypass {
		return nil
	}

	met := passed
	return &met
}

// kindLabel returns the text-report label for a net kind.
func kindLabel(kind model.Kind) (string, error) {
	switch kind {
	case model.KindPoint:
		return "CoverPoint", nil
	case model.KindRange:
		return "CoverRange", nil
	case model.KindGroup:
		return "CoverGroup", nil
	case model.KindCross:
		return "CoverCross", nil
	}

	return "", fmt.Errorf("%w: %d", ErrUnsupportedKind, kind)
}

// renderLog assembles the one-line summary or the indented verbose form of
// a net for the text report.
func renderLog(kind model.Kind, name string, status model.Status, body string, verbose bool) (string, error) {
	label, err := kindLabel(kind)
	if err != nil {
		return "", err
	}

	if !verbose {
		return label + ": " + name + ": " + body + " ..." + status.String(), nil
	}

	return label + ": " + name + ": ..." + status.String() + "\n    " + body, nil
}

// padTo right-pads s with spaces to the given width.
func padTo(s string, width int) string {
	for len(s) < width {
		s += " "
	}

	return s
}

// longest returns the length of the longest string in items.
func longest(items []string) int {
	max := 0
	for _, item := range items {
		if len(item) > max {
			max = len(item)
		}
	}

	return max
}
