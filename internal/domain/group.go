package domain

import (
	"fmt"
	"sort"
	"strconv"

	"covnet.dev/pkg/covnet/internal/model"
	"covnet.dev/pkg/covnet/pkg"
)

// DefaultMaxBins caps how many macro-bins a group net may allocate when no
// explicit limit is configured.
const DefaultMaxBins = 64

// GroupBuilder accumulates the configuration of a group net until Apply.
type GroupBuilder struct {
	cfg     netConfig
	bins    []int64
	maxBins int
}

// NewGroup creates a builder for a net partitioning an explicit set of
// representative values into macro-bins.
func NewGroup(name string) *GroupBuilder {
	return &GroupBuilder{
		cfg:     newNetConfig(name),
		maxBins: DefaultMaxBins,
	}
}

// Bins sets the enumerated values to cover. Duplicates are collapsed,
// keeping the first occurrence's position.
func (b *GroupBuilder) Bins(bins []int64) *GroupBuilder {
	b.bins = bins
	return b
}

// MaxBins caps the number of macro-bins the values are grouped into.
func (b *GroupBuilder) MaxBins(limit int) *GroupBuilder {
	b.maxBins = limit
	return b
}

// Goal sets the per-macro-bin hit count required.
func (b *GroupBuilder) Goal(goal int) *GroupBuilder {
	b.cfg.goal = goal
	return b
}

// Bypass exempts the net from pass/fail scoring.
func (b *GroupBuilder) Bypass(bypass bool) *GroupBuilder {
	b.cfg.bypass = bypass
	return b
}

// Target sets the signals used for both checking and advancing.
func (b *GroupBuilder) Target(values ...Value) *GroupBuilder {
	b.cfg.target = values
	return b
}

// Source sets the signals written when advancing coverage.
func (b *GroupBuilder) Source(values ...Value) *GroupBuilder {
	b.cfg.source = values
	return b
}

// Sink sets the signals read when checking coverage.
func (b *GroupBuilder) Sink(values ...Value) *GroupBuilder {
	b.cfg.sink = values
	return b
}

// Checker sets the transform mapping sink values onto the enumerated set.
func (b *GroupBuilder) Checker(fn CheckFunc) *GroupBuilder {
	b.cfg.checker = fn
	return b
}

// Advancer sets the inverse transform proposing source writes.
func (b *GroupBuilder) Advancer(fn AdvanceFunc) *GroupBuilder {
	b.cfg.advancer = fn
	return b
}

// Apply validates the configuration, forms the macro-bins, and registers
// the net with the session.
func (b *GroupBuilder) Apply(s *Session) (*Group, error) {
	if len(b.bins) == 0 {
		return nil, fmt.Errorf("group net %q: a bin set is required", b.cfg.name)
	}

	if b.maxBins < 1 {
		return nil, fmt.Errorf("group net %q: max bins must be positive, got %d", b.cfg.name, b.maxBins)
	}

	if b.cfg.goal < 1 {
		return nil, fmt.Errorf("group net %q: goal must be positive, got %d", b.cfg.name, b.cfg.goal)
	}

	// Collapse duplicates, keeping the enumeration order stable.
	seen := make(map[int64]bool, len(b.bins))
	items := make([]int64, 0, len(b.bins))

	for _, item := range b.bins {
		if seen[item] {
			continue
		}

		seen[item] = true
		items = append(items, item)
	}

	itemsPerBin := len(items) / b.maxBins
	if itemsPerBin < 1 {
		itemsPerBin = 1
	}

	g := &Group{
		netCore:     buildCore(b.cfg, model.KindGroup),
		itemsPerBin: itemsPerBin,
		lookup:      make(map[int64]int, len(items)),
		itemCounts:  pkg.NewTally[int64](),
		checker:     b.cfg.checker,
		advancer:    b.cfg.advancer,
	}

	for i, item := range items {
		g.lookup[item] = i

		iMacro := i / itemsPerBin
		if len(g.macroBins) <= iMacro {
			g.macroBins = append(g.macroBins, nil)
			g.counts = append(g.counts, 0)
			g.hits = append(g.hits, pkg.NewTally[int64]())
		}

		g.macroBins[iMacro] = append(g.macroBins[iMacro], item)
	}

	g.session = s
	s.register(g)

	return g, nil
}

// Group tracks per-macro-bin and per-value hit counts over an explicit,
// enumerated value set.
type Group struct {
	netCore
	itemsPerBin int
	macroBins   [][]int64
	lookup      map[int64]int
	counts      []int
	itemCounts  pkg.Tally[int64]
	hits        []pkg.Tally[int64]
	checker     CheckFunc
	advancer    AdvanceFunc
}

func (g *Group) transform(values ...int64) int64 {
	if g.checker == nil {
		if len(values) == 0 {
			return 0
		}

		return values[0]
	}

	return g.checker(values...)
}

// InSampleSpace reports whether the transformed observation is one of the
// enumerated values.
func (g *Group) InSampleSpace(values ...int64) (bool, error) {
	_, ok := g.lookup[g.transform(values...)]
	return ok, nil
}

func (g *Group) macroIndex(item int64) int {
	return g.lookup[item] / g.itemsPerBin
}

// Check records an observation. It returns whether the containing macro-bin
// was still below its goal before the increment. Values outside the
// enumerated set are dropped without mutation.
func (g *Group) Check(values ...int64) (bool, error) {
	ok, _ := g.InSampleSpace(values...)
	if !ok {
		return false, nil
	}

	mapped := g.transform(values...)
	iMacro := g.macroIndex(mapped)

	isProgress := g.counts[iMacro] < g.goal
	g.counts[iMacro]++

	// Raw mapped values are only worth reporting when a transform hides
	// them from the bin labels.
	if g.checker != nil {
		g.hits[iMacro].Add(mapped)
	}

	g.itemCounts.Add(mapped)

	return isProgress, nil
}

// Advance picks an unmet macro-bin (the first one, or a random one when
// randomize is set) and returns one of its member values. It returns nil
// once every macro-bin met its goal.
func (g *Group) Advance(randomize bool) ([]int64, error) {
	if g.checker != nil && g.advancer == nil {
		return nil, ErrMissingInverseMapping
	}

	if g.advancer != nil {
		return g.advancer(g.source...), nil
	}

	var available []int

	for i, count := range g.counts {
		if count < g.goal {
			available = append(available, i)
		}
	}

	if len(available) == 0 {
		return nil, nil
	}

	if randomize {
		rng := g.session.Rng()
		members := g.macroBins[available[rng.Intn(len(available))]]

		return []int64{members[rng.Intn(len(members))]}, nil
	}

	return []int64{g.macroBins[available[0]][0]}, nil
}

func (g *Group) PartitionCount() int {
	return len(g.macroBins)
}

// Step returns the number of enumerated values per macro-bin.
func (g *Group) Step() int64 {
	return int64(g.itemsPerBin)
}

func (g *Group) TotalGoalCount() int {
	return g.goal * len(g.counts)
}

func (g *Group) PointsMet() int {
	met := 0

	for _, count := range g.counts {
		if count >= g.goal {
			met++
		}
	}

	return met
}

func (g *Group) TotalPointsMet() int {
	total := 0
	for _, count := range g.counts {
		total += count
	}

	return total
}

func (g *Group) Passed() bool {
	for _, count := range g.counts {
		if count < g.goal {
			return false
		}
	}

	return true
}

func (g *Group) Status() model.Status {
	return g.statusOf(g.Passed())
}

// macroName renders a macro-bin label listing up to eight member values.
func (g *Group) macroName(i int) string {
	items := g.macroBins[i]

	result := "["

	for j := 0; j < len(items); j++ {
		result += strconv.FormatInt(items[j], 10)

		if j < len(items)-1 {
			result += ", "
		}

		if j >= 7 {
			result += "..."
			break
		}
	}

	return result + "]"
}

func (g *Group) sortedHits(i int) []int64 {
	values := g.hits[i].Items()
	sort.Slice(values, func(a, b int) bool { return values[a] < values[b] })

	return values
}

func (g *Group) describe(verbose bool) string {
	if !verbose {
		return fmt.Sprintf("%d/%d", g.PointsMet(), len(g.counts))
	}

	names := make([]string, len(g.macroBins))
	for i := range g.macroBins {
		names[i] = g.macroName(i)
	}

	width := longest(names)

	result := ""

	for i, count := range g.counts {
		if i > 0 {
			result += "\n    "
		}

		result += padTo(names[i]+": ", width+2) + fmt.Sprintf("%d/%d", count, g.goal)

		if g.checker != nil && g.itemsPerBin > 1 && g.hits[i].Len() > 0 {
			values := g.sortedHits(i)

			valueNames := make([]string, len(values))
			for j, v := range values {
				valueNames[j] = strconv.FormatInt(v, 10)
			}

			subWidth := longest(valueNames)

			for j, v := range values {
				result += "\n        "
				result += padTo(valueNames[j]+": ", subWidth+2) + strconv.Itoa(g.hits[i].Count(v))
			}
		}
	}

	return result
}

func (g *Group) Log(verbose bool) (string, error) {
	return renderLog(g.kind, g.name, g.Status(), g.describe(verbose), verbose)
}

func (g *Group) Snapshot() model.NetReport {
	bins := make([]model.BinReport, 0, len(g.macroBins))

	for i, count := range g.counts {
		hits := make([]model.HitReport, 0)

		for _, item := range g.macroBins[i] {
			if !g.itemCounts.Has(item) {
				continue
			}

			hits = append(hits, model.HitReport{
				Value: strconv.FormatInt(item, 10),
				Count: g.itemCounts.Count(item),
			})
		}

		bins = append(bins, model.BinReport{
			Name:  g.macroName(i),
			Met:   g.metJSON(count >= g.goal),
			Count: count,
			Goal:  g.goal,
			Hits:  hits,
		})
	}

	return model.NetReport{
		Name:  g.name,
		Type:  g.kind.String(),
		Met:   g.metJSON(g.Passed()),
		Count: g.PointsMet(),
		// The group's goal field counts macro-bins, not goal points.
		Goal: len(g.counts),
		Bins: bins,
	}
}
