package domain

import (
	"fmt"

	"covnet.dev/pkg/covnet/internal/model"
)

// CrossBuilder accumulates the configuration of a cross net until Apply.
type CrossBuilder struct {
	cfg      netConfig
	nets     []Net
	maxSteps int
}

// NewCross creates a builder for a net tracking the cartesian product of
// other nets' partition spaces.
func NewCross(name string) *CrossBuilder {
	return &CrossBuilder{
		cfg:      newNetConfig(name),
		maxSteps: DefaultMaxSteps,
	}
}

// Nets sets the factor nets to cross, in declaration order.
func (b *CrossBuilder) Nets(nets ...Net) *CrossBuilder {
	b.nets = nets
	return b
}

// Goal sets the per-combination hit count required.
func (b *CrossBuilder) Goal(goal int) *CrossBuilder {
	b.cfg.goal = goal
	return b
}

// Bypass exempts the net from pass/fail scoring.
func (b *CrossBuilder) Bypass(bypass bool) *CrossBuilder {
	b.cfg.bypass = bypass
	return b
}

// MaxSteps caps the number of bins of the flattened index space.
func (b *CrossBuilder) MaxSteps(limit int) *CrossBuilder {
	b.maxSteps = limit
	return b
}

// Apply computes the flattened partition space, builds the synthetic inner
// range that performs all counting, and registers the cross in its place.
func (b *CrossBuilder) Apply(s *Session) (*Cross, error) {
	if len(b.nets) < 2 {
		return nil, fmt.Errorf("cross net %q: at least two factor nets are required, got %d", b.cfg.name, len(b.nets))
	}

	if b.cfg.goal < 1 {
		return nil, fmt.Errorf("cross net %q: goal must be positive, got %d", b.cfg.name, b.cfg.goal)
	}

	// Factors are stored in reverse declaration order; the flatten and
	// pack index math relies on this literally.
	factors := make([]Net, len(b.nets))
	for i, net := range b.nets {
		factors[len(b.nets)-1-i] = net
	}

	combinations := int64(1)
	for _, net := range factors {
		combinations *= int64(net.PartitionCount())
	}

	inner, err := NewRange(b.cfg.name).
		Span(0, combinations).
		Goal(b.cfg.goal).
		Bypass(b.cfg.bypass).
		MaxSteps(b.maxSteps).
		Apply(s)
	if err != nil {
		return nil, fmt.Errorf("cross net %q: %w", b.cfg.name, err)
	}

	// The inner range only counts on the cross's behalf; the cross is
	// tracked in its place.
	s.unregisterLast()

	c := &Cross{
		netCore: buildCore(b.cfg, model.KindCross),
		nets:    factors,
		inner:   inner,
		crosses: len(factors),
	}

	// End-to-end checking and advancing is only possible when every
	// factor exposes the needed signals.
	c.sink = gatherSignals(b.nets, Net.Sinks, Net.HasSink)
	c.source = gatherSignals(b.nets, Net.Sources, Net.HasSource)

	c.session = s
	s.register(c)

	return c, nil
}

func gatherSignals(nets []Net, get func(Net) []Value, has func(Net) bool) []Value {
	var all []Value

	for _, net := range nets {
		if !has(net) {
			return nil
		}

		all = append(all, get(net)...)
	}

	return all
}

// Cross tracks observed combinations of two or more nets' partitions by
// flattening the N-dimensional bin-index space into a single integer index
// and delegating all counting to an internally owned range net.
type Cross struct {
	netCore
	nets    []Net // reverse declaration order
	inner   *Range
	crosses int
}

// CrossCount returns the number of factor nets in the product.
func (c *Cross) CrossCount() int {
	return c.crosses
}

// factor returns the i-th factor in declaration order.
func (c *Cross) factor(i int) Net {
	return c.nets[c.crosses-1-i]
}

// Flatten encodes per-factor bin indices (in declaration order) into the
// flattened index. The first-declared factor is the least-significant
// mixed-radix digit.
func (c *Cross) Flatten(item []int64) (int64, error) {
	if len(item) != c.crosses {
		return 0, fmt.Errorf("%w: expected %d values, got %d", ErrCrossArity, c.crosses, len(item))
	}

	index := int64(0)
	weight := int64(1)

	for i, digit := range item {
		index += digit * weight
		weight *= int64(c.factor(i).PartitionCount())
	}

	return index, nil
}

// Pack decodes a flattened index back into per-factor bin indices in
// declaration order. It is the exact inverse of Flatten over
// [0, PartitionCount of the product).
func (c *Cross) Pack(index int64) []int64 {
	item := make([]int64, c.crosses)

	for i := range item {
		radix := int64(c.factor(i).PartitionCount())
		item[i] = index % radix
		index /= radix
	}

	return item
}

// InSampleSpace reports whether every element of the item belongs to its
// factor's sample space. A tuple of the wrong length is a caller contract
// violation.
func (c *Cross) InSampleSpace(values ...int64) (bool, error) {
	if len(values) != c.crosses {
		return false, fmt.Errorf("%w: expected %d values, got %d", ErrCrossArity, c.crosses, len(values))
	}

	for i, v := range values {
		ok, err := c.factor(i).InSampleSpace(v)
		if err != nil {
			return false, err
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

// Check records an observed combination. The item carries one raw value per
// factor, in declaration order; each is reduced to its factor's bin index
// and the tuple is flattened and counted by the inner range. Flatten already
// pairs each declaration-order digit with its own factor's radix, so the
// digits are passed through in the order they arrive.
func (c *Cross) Check(values ...int64) (bool, error) {
	ok, err := c.InSampleSpace(values...)
	if err != nil {
		return false, err
	}

	if !ok {
		return false, nil
	}

	digits := make([]int64, c.crosses)
	for i, v := range values {
		digits[i] = v / c.factor(i).Step()
	}

	index, err := c.Flatten(digits)
	if err != nil {
		return false, err
	}

	return c.inner.Check(index)
}

// Advance asks the inner range for a flattened index making progress,
// unpacks it, and expands each bin index into a representative raw value
// using that factor's element step. The tuple comes back in declaration
// order; nil means the cross is fully covered.
func (c *Cross) Advance(randomize bool) ([]int64, error) {
	flat, err := c.inner.Advance(randomize)
	if err != nil || flat == nil {
		return nil, err
	}

	item := c.Pack(flat[0])

	values := make([]int64, c.crosses)
	for i, digit := range item {
		values[i] = digit * c.factor(i).Step()
	}

	return values, nil
}

func (c *Cross) PartitionCount() int {
	return c.inner.PartitionCount()
}

func (c *Cross) Step() int64 {
	return c.inner.Step()
}

func (c *Cross) TotalGoalCount() int {
	return c.inner.TotalGoalCount()
}

func (c *Cross) PointsMet() int {
	return c.inner.PointsMet()
}

func (c *Cross) TotalPointsMet() int {
	return c.inner.TotalPointsMet()
}

func (c *Cross) Passed() bool {
	return c.inner.Passed()
}

func (c *Cross) Status() model.Status {
	return c.statusOf(c.Passed())
}

func (c *Cross) Log(verbose bool) (string, error) {
	return renderLog(c.kind, c.name, c.Status(), c.inner.describe(verbose), verbose)
}

func (c *Cross) Snapshot() model.NetReport {
	return model.NetReport{
		Name:  c.name,
		Type:  c.kind.String(),
		Met:   c.metJSON(c.Passed()),
		Count: c.inner.PointsMet(),
		Goal:  c.inner.TotalGoalCount(),
		Bins:  c.inner.binReports(),
	}
}
