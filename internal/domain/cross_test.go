package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"covnet.dev/pkg/covnet/internal/model"
)

// twoByFour builds a cross of two 4-bin range factors.
func twoByFour(t *testing.T, s *Session) *Cross {
	t.Helper()

	a, err := NewRange("a").Span(0, 4).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 4).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("a cross b").Nets(a, b).Apply(s)
	require.NoError(t, err)

	return c
}

func TestCross_Apply_Validation(t *testing.T) {
	s := newTestSession()

	a, err := NewRange("a").Span(0, 4).Apply(s)
	require.NoError(t, err)

	_, err = NewCross("too few").Nets(a).Apply(s)
	require.Error(t, err)

	_, err = NewCross("bad goal").Nets(a, a).Goal(0).Apply(s)
	require.Error(t, err)
}

func TestCross_Apply_SubstitutesInnerRange(t *testing.T) {
	s := newTestSession()

	c := twoByFour(t, s)

	// The registry holds the two factors and the cross itself; the synthetic
	// inner range never appears.
	nets := s.Nets()
	require.Len(t, nets, 3)
	require.Same(t, Net(c), nets[2])

	require.Equal(t, 16, c.PartitionCount())
	require.Equal(t, 16, c.TotalGoalCount())
}

func TestCross_Flatten_TwoFactors(t *testing.T) {
	s := newTestSession()

	c := twoByFour(t, s)

	// The first-declared factor is the least-significant digit.
	tests := []struct {
		item []int64
		want int64
	}{
		{[]int64{0, 0}, 0},
		{[]int64{3, 0}, 3},
		{[]int64{0, 1}, 4},
		{[]int64{1, 1}, 5},
		{[]int64{3, 3}, 15},
	}

	for _, tt := range tests {
		got, err := c.Flatten(tt.item)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "item %v", tt.item)
	}
}

func TestCross_Flatten_ThreeFactors(t *testing.T) {
	s := newTestSession()

	a, err := NewRange("a").Span(0, 2).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 3).Apply(s)
	require.NoError(t, err)

	d, err := NewRange("d").Span(0, 4).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("abd").Nets(a, b, d).Apply(s)
	require.NoError(t, err)

	require.Equal(t, 24, c.PartitionCount())

	got, err := c.Flatten([]int64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, int64(23), got)

	got, err = c.Flatten([]int64{1, 0, 0})
	require.NoError(t, err)
	require.Equal(t, int64(1), got)

	got, err = c.Flatten([]int64{0, 1, 0})
	require.NoError(t, err)
	require.Equal(t, int64(2), got)

	got, err = c.Flatten([]int64{0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, int64(6), got)
}

func TestCross_PackInvertsFlatten(t *testing.T) {
	s := newTestSession()

	a, err := NewRange("a").Span(0, 2).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 3).Apply(s)
	require.NoError(t, err)

	d, err := NewRange("d").Span(0, 4).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("abd").Nets(a, b, d).Apply(s)
	require.NoError(t, err)

	for index := int64(0); index < int64(c.PartitionCount()); index++ {
		item := c.Pack(index)

		back, err := c.Flatten(item)
		require.NoError(t, err)
		require.Equal(t, index, back, "index %d packed to %v", index, item)
	}
}

func TestCross_Flatten_ArityMismatch(t *testing.T) {
	s := newTestSession()

	c := twoByFour(t, s)

	_, err := c.Flatten([]int64{1})
	require.ErrorIs(t, err, ErrCrossArity)

	_, err = c.Flatten([]int64{1, 2, 3})
	require.ErrorIs(t, err, ErrCrossArity)

	_, err = c.InSampleSpace(int64(1))
	require.ErrorIs(t, err, ErrCrossArity)
}

func TestCross_InSampleSpace_DelegatesToFactors(t *testing.T) {
	s := newTestSession()

	c := twoByFour(t, s)

	ok, err := c.InSampleSpace(0, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.InSampleSpace(0, 4)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCross_Check_ProgressSemantics(t *testing.T) {
	s := newTestSession()

	c := twoByFour(t, s)

	progress, err := c.Check(1, 2)
	require.NoError(t, err)
	require.True(t, progress)

	progress, err = c.Check(1, 2)
	require.NoError(t, err)
	require.False(t, progress)

	require.Equal(t, 1, c.PointsMet())
	require.Equal(t, 2, c.TotalPointsMet())
	require.False(t, c.Passed())

	// Out-of-space combinations are dropped without mutation.
	progress, err = c.Check(9, 0)
	require.NoError(t, err)
	require.False(t, progress)
	require.Equal(t, 2, c.TotalPointsMet())
}

func TestCross_Check_AsymmetricFactorsSweepPasses(t *testing.T) {
	s := newTestSession()

	a, err := NewRange("a").Span(0, 2).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 3).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("ab").Nets(a, b).Apply(s)
	require.NoError(t, err)

	// Every combination hits its own bin exactly once.
	for va := int64(0); va < 2; va++ {
		for vb := int64(0); vb < 3; vb++ {
			progress, err := c.Check(va, vb)
			require.NoError(t, err)
			require.True(t, progress, "(%d, %d)", va, vb)
		}
	}

	require.Equal(t, 6, c.PointsMet())
	require.True(t, c.Passed())
}

func TestCross_CheckCreditsAdvanceProposal(t *testing.T) {
	s := newTestSession()

	a, err := NewRange("a").Span(0, 2).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 3).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("ab").Nets(a, b).Apply(s)
	require.NoError(t, err)

	// A pure Advance/Check loop covers the cross in exactly one pass.
	for i := 0; i < 6; i++ {
		values, err := c.Advance(false)
		require.NoError(t, err)
		require.NotNil(t, values)

		progress, err := c.Check(values...)
		require.NoError(t, err)
		require.True(t, progress, "iteration %d proposed %v", i, values)
	}

	require.True(t, c.Passed())

	values, err := c.Advance(false)
	require.NoError(t, err)
	require.Nil(t, values)
}

func TestCross_Advance_ProposesMissingCombination(t *testing.T) {
	s := newTestSession()

	a, err := NewRange("a").Span(0, 2).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 2).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("ab").Nets(a, b).Apply(s)
	require.NoError(t, err)

	for _, item := range [][]int64{{0, 0}, {0, 1}, {1, 0}} {
		_, err = c.Check(item[0], item[1])
		require.NoError(t, err)
	}

	values, err := c.Advance(false)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 1}, values)

	_, err = c.Check(values[0], values[1])
	require.NoError(t, err)
	require.True(t, c.Passed())

	values, err = c.Advance(false)
	require.NoError(t, err)
	require.Nil(t, values)
}

func TestCross_DelegatesCountingToInner(t *testing.T) {
	s := newTestSession()

	c := twoByFour(t, s)

	_, err := c.Check(0, 0)
	require.NoError(t, err)

	snap := c.Snapshot()
	require.Equal(t, "cross", snap.Type)
	require.Equal(t, 1, snap.Count)
	require.Equal(t, 16, snap.Goal)
	require.Len(t, snap.Bins, 16)

	line, err := c.Log(false)
	require.NoError(t, err)
	require.Equal(t, "CoverCross: a cross b: 1/16 ...FAILED", line)
}

func TestCross_SignalsGatheredFromFactors(t *testing.T) {
	s := newTestSession()

	in0 := model.NewSignal(4)
	in1 := model.NewSignal(4)

	a, err := NewRange("a").Span(0, 16).Target(in0).Apply(s)
	require.NoError(t, err)

	b, err := NewRange("b").Span(0, 16).Target(in1).Apply(s)
	require.NoError(t, err)

	c, err := NewCross("ab").Nets(a, b).Apply(s)
	require.NoError(t, err)

	require.True(t, c.HasSink())
	require.True(t, c.HasSource())
	require.Len(t, c.Sinks(), 2)

	// A factor without signals leaves the cross unwired.
	s2 := newTestSession()

	a2, err := NewRange("a").Span(0, 16).Apply(s2)
	require.NoError(t, err)

	b2, err := NewRange("b").Span(0, 16).Target(model.NewSignal(4)).Apply(s2)
	require.NoError(t, err)

	c2, err := NewCross("ab").Nets(a2, b2).Apply(s2)
	require.NoError(t, err)

	require.False(t, c2.HasSink())
	require.False(t, c2.HasSource())
}
