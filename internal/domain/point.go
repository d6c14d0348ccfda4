package domain

import (
	"fmt"

	"covnet.dev/pkg/covnet/internal/model"
)

// PointBuilder accumulates the configuration of a point net until Apply.
type PointBuilder struct {
	cfg netConfig
}

// NewPoint creates a builder for a net tracking a single boolean event.
func NewPoint(name string) *PointBuilder {
	return &PointBuilder{cfg: newNetConfig(name)}
}

// Goal sets the number of true observations required.
func (b *PointBuilder) Goal(goal int) *PointBuilder {
	b.cfg.goal = goal
	return b
}

// Bypass exempts the net from pass/fail scoring.
func (b *PointBuilder) Bypass(bypass bool) *PointBuilder {
	b.cfg.bypass = bypass
	return b
}

// Target sets the signals used for both checking and advancing.
func (b *PointBuilder) Target(values ...Value) *PointBuilder {
	b.cfg.target = values
	return b
}

// Source sets the signals written when advancing coverage.
func (b *PointBuilder) Source(values ...Value) *PointBuilder {
	b.cfg.source = values
	return b
}

// Sink sets the signals read when checking coverage.
func (b *PointBuilder) Sink(values ...Value) *PointBuilder {
	b.cfg.sink = values
	return b
}

// Checker sets the transform mapping sink values onto {0, 1}.
func (b *PointBuilder) Checker(fn CheckFunc) *PointBuilder {
	b.cfg.checker = fn
	return b
}

// Advancer sets the transform proposing source writes that trigger the event.
func (b *PointBuilder) Advancer(fn AdvanceFunc) *PointBuilder {
	b.cfg.advancer = fn
	return b
}

// Apply validates the configuration, freezes the net, and registers it with
// the session.
func (b *PointBuilder) Apply(s *Session) (*Point, error) {
	if b.cfg.goal < 1 {
		return nil, fmt.Errorf("point net %q: goal must be positive, got %d", b.cfg.name, b.cfg.goal)
	}

	p := &Point{
		netCore:  buildCore(b.cfg, model.KindPoint),
		checker:  b.cfg.checker,
		advancer: b.cfg.advancer,
	}
	p.session = s
	s.register(p)

	return p, nil
}

// Point tracks how many times a single event was observed true.
type Point struct {
	netCore
	count    int
	checker  CheckFunc
	advancer AdvanceFunc
}

func (p *Point) transform(values ...int64) int64 {
	if p.checker == nil {
		if len(values) == 0 {
			return 0
		}

		return values[0]
	}

	return p.checker(values...)
}

// InSampleSpace reports whether the transformed observation maps to 0 or 1.
func (p *Point) InSampleSpace(values ...int64) (bool, error) {
	mapped := p.transform(values...)
	return mapped >= 0 && mapped < 2, nil
}

// Check records an observation and returns the mapped boolean itself. This
// differs from the other kinds, which signal new progress instead; callers
// rely on the distinction.
func (p *Point) Check(values ...int64) (bool, error) {
	ok, _ := p.InSampleSpace(values...)
	if !ok {
		return false, nil
	}

	cond := p.transform(values...) != 0
	if cond {
		p.count++
	}

	return cond, nil
}

// Advance proposes the fixed truthy value, or defers to the advancer when
// one was configured.
func (p *Point) Advance(_ bool) ([]int64, error) {
	if p.advancer == nil {
		return []int64{1}, nil
	}

	return p.advancer(p.source...), nil
}

func (p *Point) PartitionCount() int {
	return 2
}

func (p *Point) Step() int64 {
	return 1
}

func (p *Point) TotalGoalCount() int {
	return p.goal
}

func (p *Point) PointsMet() int {
	if p.count >= p.goal {
		return 1
	}

	return 0
}

func (p *Point) TotalPointsMet() int {
	return p.count
}

func (p *Point) Passed() bool {
	return p.count >= p.goal
}

func (p *Point) Status() model.Status {
	return p.statusOf(p.Passed())
}

func (p *Point) Log(verbose bool) (string, error) {
	body := fmt.Sprintf("%d/%d", p.count, p.goal)
	return renderLog(p.kind, p.name, p.Status(), body, verbose)
}

// Snapshot renders the point for the structured report. Point nets carry no
// bins array, only the raw count against the goal.
func (p *Point) Snapshot() model.NetReport {
	return model.NetReport{
		Name:  p.name,
		Type:  p.kind.String(),
		Met:   p.metJSON(p.Passed()),
		Count: p.count,
		Goal:  p.goal,
	}
}
