package domain

import (
	"fmt"
	"sort"
	"strconv"

	"covnet.dev/pkg/covnet/internal/model"
	"covnet.dev/pkg/covnet/pkg"
)

// DefaultMaxSteps caps how many bins a range (or cross) net may allocate
// when no explicit limit is configured.
const DefaultMaxSteps = 64

// RangeBuilder accumulates the configuration of a range net until Apply.
type RangeBuilder struct {
	cfg      netConfig
	start    int64
	stop     int64
	hasSpan  bool
	maxSteps int
}

// NewRange creates a builder for a net partitioning a contiguous integer
// span into bins.
func NewRange(name string) *RangeBuilder {
	return &RangeBuilder{
		cfg:      newNetConfig(name),
		maxSteps: DefaultMaxSteps,
	}
}

// Span sets the half-open domain [start, stop) to cover.
func (b *RangeBuilder) Span(start, stop int64) *RangeBuilder {
	b.start = start
	b.stop = stop
	b.hasSpan = true

	return b
}

// MaxSteps caps the number of bins the span is divided into.
func (b *RangeBuilder) MaxSteps(limit int) *RangeBuilder {
	b.maxSteps = limit
	return b
}

// Goal sets the per-bin hit count required.
func (b *RangeBuilder) Goal(goal int) *RangeBuilder {
	b.cfg.goal = goal
	return b
}

// Bypass exempts the net from pass/fail scoring.
func (b *RangeBuilder) Bypass(bypass bool) *RangeBuilder {
	b.cfg.bypass = bypass
	return b
}

// Target sets the signals used for both checking and advancing.
func (b *RangeBuilder) Target(values ...Value) *RangeBuilder {
	b.cfg.target = values
	return b
}

// Source sets the signals written when advancing coverage.
func (b *RangeBuilder) Source(values ...Value) *RangeBuilder {
	b.cfg.source = values
	return b
}

// Sink sets the signals read when checking coverage.
func (b *RangeBuilder) Sink(values ...Value) *RangeBuilder {
	b.cfg.sink = values
	return b
}

// Checker sets the transform mapping sink values onto the domain.
func (b *RangeBuilder) Checker(fn CheckFunc) *RangeBuilder {
	b.cfg.checker = fn
	return b
}

// Advancer sets the inverse transform proposing source writes.
func (b *RangeBuilder) Advancer(fn AdvanceFunc) *RangeBuilder {
	b.cfg.advancer = fn
	return b
}

// Apply validates the configuration, computes the fixed bin partition, and
// registers the net with the session.
func (b *RangeBuilder) Apply(s *Session) (*Range, error) {
	if !b.hasSpan {
		return nil, fmt.Errorf("range net %q: a span is required", b.cfg.name)
	}

	if b.stop <= b.start {
		return nil, fmt.Errorf("range net %q: empty span [%d, %d)", b.cfg.name, b.start, b.stop)
	}

	if b.maxSteps < 1 {
		return nil, fmt.Errorf("range net %q: max steps must be positive, got %d", b.cfg.name, b.maxSteps)
	}

	if b.cfg.goal < 1 {
		return nil, fmt.Errorf("range net %q: goal must be positive, got %d", b.cfg.name, b.cfg.goal)
	}

	length := b.stop - b.start

	binCount := int(length)
	stepSize := int64(1)

	if int64(b.maxSteps) < length {
		binCount = b.maxSteps
		stepSize = (length + int64(b.maxSteps) - 1) / int64(b.maxSteps)
	}

	r := &Range{
		netCore:  buildCore(b.cfg, model.KindRange),
		start:    b.start,
		stop:     b.stop,
		stepSize: stepSize,
		counts:   make([]int, binCount),
		hits:     make([]pkg.Tally[int64], binCount),
		checker:  b.cfg.checker,
		advancer: b.cfg.advancer,
	}
	for i := range r.hits {
		r.hits[i] = pkg.NewTally[int64]()
	}

	r.session = s
	s.register(r)

	return r, nil
}

// Range tracks per-bin hit counts over a contiguous integer span divided
// into equal-width bins.
type Range struct {
	netCore
	start    int64
	stop     int64
	stepSize int64
	counts   []int
	hits     []pkg.Tally[int64]
	checker  CheckFunc
	advancer AdvanceFunc
}

func (r *Range) transform(values ...int64) int64 {
	if r.checker == nil {
		if len(values) == 0 {
			return r.stop // out of domain
		}

		return values[0]
	}

	return r.checker(values...)
}

// InSampleSpace reports whether the transformed observation falls in
// [start, stop).
func (r *Range) InSampleSpace(values ...int64) (bool, error) {
	mapped := r.transform(values...)
	return mapped >= r.start && mapped < r.stop, nil
}

// Check records an observation. It returns whether the hit bin was still
// below its goal before the increment, i.e. whether the observation is new
// progress. Out-of-domain samples are dropped without mutation.
func (r *Range) Check(values ...int64) (bool, error) {
	ok, _ := r.InSampleSpace(values...)
	if !ok {
		return false, nil
	}

	mapped := r.transform(values...)

	index := mapped / r.stepSize
	if index < 0 || index >= int64(len(r.counts)) {
		return false, nil
	}

	isProgress := r.counts[index] < r.goal
	r.counts[index]++
	r.hits[index].Add(mapped)

	return isProgress, nil
}

// Advance picks an unmet bin (the first one, or a random one when randomize
// is set) and returns a uniformly random value from its span. It returns
// nil once every bin met its goal.
func (r *Range) Advance(randomize bool) ([]int64, error) {
	if r.checker != nil && r.advancer == nil {
		return nil, ErrMissingInverseMapping
	}

	if r.advancer != nil {
		return r.advancer(r.source...), nil
	}

	var available []int

	for i, count := range r.counts {
		if count < r.goal {
			available = append(available, i)
		}
	}

	if len(available) == 0 {
		return nil, nil
	}

	rng := r.session.Rng()

	j := available[0]
	if randomize {
		j = available[rng.Intn(len(available))]
	}

	return []int64{int64(j)*r.stepSize + rng.Int63n(r.stepSize)}, nil
}

func (r *Range) PartitionCount() int {
	return len(r.counts)
}

// Step returns the width of one bin in domain units.
func (r *Range) Step() int64 {
	return r.stepSize
}

func (r *Range) TotalGoalCount() int {
	return r.goal * len(r.counts)
}

func (r *Range) PointsMet() int {
	met := 0

	for _, count := range r.counts {
		if count >= r.goal {
			met++
		}
	}

	return met
}

func (r *Range) TotalPointsMet() int {
	total := 0
	for _, count := range r.counts {
		total += count
	}

	return total
}

func (r *Range) Passed() bool {
	for _, count := range r.counts {
		if count < r.goal {
			return false
		}
	}

	return true
}

func (r *Range) Status() model.Status {
	return r.statusOf(r.Passed())
}

func (r *Range) binName(i int) string {
	if r.stepSize > 1 {
		lo := int64(i) * r.stepSize
		hi := int64(i+1)*r.stepSize - 1

		return strconv.FormatInt(lo, 10) + "..=" + strconv.FormatInt(hi, 10)
	}

	return strconv.Itoa(i)
}

// sortedHits returns a bin's recorded values in ascending order.
func (r *Range) sortedHits(i int) []int64 {
	values := r.hits[i].Items()
	sort.Slice(values, func(a, b int) bool { return values[a] < values[b] })

	return values
}

func (r *Range) describe(verbose bool) string {
	if !verbose {
		return fmt.Sprintf("%d/%d", r.PointsMet(), len(r.counts))
	}

	names := make([]string, len(r.counts))
	for i := range r.counts {
		names[i] = r.binName(i)
	}

	width := longest(names)

	result := ""

	for i, count := range r.counts {
		if i > 0 {
			result += "\n    "
		}

		result += padTo(names[i]+": ", width+2) + fmt.Sprintf("%d/%d", count, r.goal)

		// Raw values are only informative once multiple values share a bin.
		if r.stepSize > 1 && r.hits[i].Len() > 0 {
			values := r.sortedHits(i)

			valueNames := make([]string, len(values))
			for j, v := range values {
				valueNames[j] = strconv.FormatInt(v, 10)
			}

			subWidth := longest(valueNames)

			for j, v := range values {
				result += "\n        "
				result += padTo(valueNames[j]+": ", subWidth+2) + strconv.Itoa(r.hits[i].Count(v))
			}
		}
	}

	return result
}

func (r *Range) Log(verbose bool) (string, error) {
	return renderLog(r.kind, r.name, r.Status(), r.describe(verbose), verbose)
}

func (r *Range) binReports() []model.BinReport {
	bins := make([]model.BinReport, 0, len(r.counts))

	for i, count := range r.counts {
		hits := make([]model.HitReport, 0)

		if r.stepSize > 1 {
			for _, v := range r.sortedHits(i) {
				hits = append(hits, model.HitReport{
					Value: strconv.FormatInt(v, 10),
					Count: r.hits[i].Count(v),
				})
			}
		}

		bins = append(bins, model.BinReport{
			Name:  r.binName(i),
			Met:   r.metJSON(count >= r.goal),
			Count: count,
			Goal:  r.goal,
			Hits:  hits,
		})
	}

	return bins
}

func (r *Range) Snapshot() model.NetReport {
	return model.NetReport{
		Name:  r.name,
		Type:  r.kind.String(),
		Met:   r.metJSON(r.Passed()),
		Count: r.PointsMet(),
		Goal:  r.TotalGoalCount(),
		Bins:  r.binReports(),
	}
}
