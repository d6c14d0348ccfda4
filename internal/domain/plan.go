package domain

import (
	"fmt"
	"math/rand"

	"covnet.dev/pkg/covnet/internal/model"
)

// Design is the set of sampled values a coverage plan declares for the
// design under test.
type Design struct {
	signals map[string]*model.Signal
	names   []string
}

// Signal looks up a declared signal by name.
func (d *Design) Signal(name string) (*model.Signal, bool) {
	sig, ok := d.signals[name]
	return sig, ok
}

// Signals returns every declared signal in declaration order.
func (d *Design) Signals() []*model.Signal {
	signals := make([]*model.Signal, 0, len(d.names))
	for _, name := range d.names {
		signals = append(signals, d.signals[name])
	}

	return signals
}

// Names returns the declared signal names in declaration order.
func (d *Design) Names() []string {
	return d.names
}

// Randomize assigns a uniformly random value to every signal.
func (d *Design) Randomize(rng *rand.Rand) {
	for _, name := range d.names {
		d.signals[name].Randomize(rng)
	}
}

// BuildPlan materializes a coverage plan: it creates the declared signals
// and registers one net per declaration with the session, preserving plan
// order. Cross declarations may only reference nets declared before them.
func BuildPlan(s *Session, plan model.Plan) (*Design, error) {
	design := &Design{signals: make(map[string]*model.Signal, len(plan.Signals))}

	for _, sp := range plan.Signals {
		if sp.Name == "" {
			return nil, fmt.Errorf("plan: signal with empty name")
		}

		if _, ok := design.signals[sp.Name]; ok {
			return nil, fmt.Errorf("plan: duplicate signal %q", sp.Name)
		}

		width := sp.Width
		if width == 0 {
			width = 1
		}

		design.signals[sp.Name] = model.NewSignal(width)
		design.names = append(design.names, sp.Name)
	}

	byName := make(map[string]Net, len(plan.Nets))

	for _, np := range plan.Nets {
		net, err := buildPlanNet(s, design, byName, np)
		if err != nil {
			return nil, err
		}

		byName[np.Name] = net
	}

	return design, nil
}

func buildPlanNet(s *Session, design *Design, byName map[string]Net, np model.NetPlan) (Net, error) {
	switch np.Kind {
	case "point":
		return buildPlanPoint(s, design, np)
	case "range":
		return buildPlanRange(s, design, np)
	case "group":
		return buildPlanGroup(s, design, np)
	case "cross":
		return buildPlanCross(s, byName, np)
	}

	return nil, fmt.Errorf("plan: net %q: unknown kind %q", np.Name, np.Kind)
}

// wiring holds the resolved target/source/sink signal references of one
// net declaration.
type wiring struct {
	target []Value
	source []Value
	sink   []Value
}

func resolveWiring(design *Design, np model.NetPlan) (wiring, error) {
	var w wiring
	var err error

	if w.target, err = resolveSignals(design, np.Name, np.Target); err != nil {
		return wiring{}, err
	}

	if w.source, err = resolveSignals(design, np.Name, np.Source); err != nil {
		return wiring{}, err
	}

	if w.sink, err = resolveSignals(design, np.Name, np.Sink); err != nil {
		return wiring{}, err
	}

	return w, nil
}

func resolveSignals(design *Design, netName string, names []string) ([]Value, error) {
	if len(names) == 0 {
		return nil, nil
	}

	values := make([]Value, 0, len(names))

	for _, name := range names {
		sig, ok := design.Signal(name)
		if !ok {
			return nil, fmt.Errorf("plan: net %q: unknown signal %q", netName, name)
		}

		values = append(values, sig)
	}

	return values, nil
}

func buildPlanPoint(s *Session, design *Design, np model.NetPlan) (Net, error) {
	b := NewPoint(np.Name)
	if np.Goal > 0 {
		b.Goal(np.Goal)
	}

	b.Bypass(np.Bypass)

	w, err := resolveWiring(design, np)
	if err != nil {
		return nil, err
	}

	if w.target != nil {
		b.Target(w.target...)
	}

	if w.source != nil {
		b.Source(w.source...)
	}

	if w.sink != nil {
		b.Sink(w.sink...)
	}

	return b.Apply(s)
}

func buildPlanRange(s *Session, design *Design, np model.NetPlan) (Net, error) {
	b := NewRange(np.Name)
	if np.Goal > 0 {
		b.Goal(np.Goal)
	}

	if np.MaxSteps > 0 {
		b.MaxSteps(np.MaxSteps)
	}

	b.Bypass(np.Bypass)

	w, err := resolveWiring(design, np)
	if err != nil {
		return nil, err
	}

	if w.target != nil {
		b.Target(w.target...)
	}

	if w.source != nil {
		b.Source(w.source...)
	}

	if w.sink != nil {
		b.Sink(w.sink...)
	}

	if np.Span != nil {
		b.Span(np.Span.Start, np.Span.Stop)
	} else {
		// Without an explicit span, cover the full range of the first
		// target signal.
		if len(np.Target) == 0 {
			return nil, fmt.Errorf("plan: range net %q: a span or a target signal is required", np.Name)
		}

		sig, ok := design.Signal(np.Target[0])
		if !ok {
			return nil, fmt.Errorf("plan: range net %q: unknown signal %q", np.Name, np.Target[0])
		}

		start, stop := sig.Span()
		b.Span(start, stop)
	}

	return b.Apply(s)
}

func buildPlanGroup(s *Session, design *Design, np model.NetPlan) (Net, error) {
	b := NewGroup(np.Name).Bins(np.Bins)
	if np.Goal > 0 {
		b.Goal(np.Goal)
	}

	if np.MaxBins > 0 {
		b.MaxBins(np.MaxBins)
	}

	b.Bypass(np.Bypass)

	w, err := resolveWiring(design, np)
	if err != nil {
		return nil, err
	}

	if w.target != nil {
		b.Target(w.target...)
	}

	if w.source != nil {
		b.Source(w.source...)
	}

	if w.sink != nil {
		b.Sink(w.sink...)
	}

	return b.Apply(s)
}

func buildPlanCross(s *Session, byName map[string]Net, np model.NetPlan) (Net, error) {
	factors := make([]Net, 0, len(np.Nets))

	for _, name := range np.Nets {
		factor, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("plan: cross net %q: unknown factor net %q", np.Name, name)
		}

		factors = append(factors, factor)
	}

	b := NewCross(np.Name).Nets(factors...)
	if np.Goal > 0 {
		b.Goal(np.Goal)
	}

	if np.MaxSteps > 0 {
		b.MaxSteps(np.MaxSteps)
	}

	b.Bypass(np.Bypass)

	return b.Apply(s)
}
