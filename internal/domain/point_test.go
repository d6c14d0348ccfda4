package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"covnet.dev/pkg/covnet/internal/model"
)

func newTestSession() *Session {
	return NewSession(SessionConfig{Seed: 1})
}

func TestPoint_Apply_RejectsNonPositiveGoal(t *testing.T) {
	s := newTestSession()

	_, err := NewPoint("bad").Goal(0).Apply(s)
	require.Error(t, err)
	require.Empty(t, s.Nets())
}

func TestPoint_Check_ReturnsMappedBoolean(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("event").Goal(2).Apply(s)
	require.NoError(t, err)

	// Check returns the observed condition, not progress.
	hit, err := p.Check(1)
	require.NoError(t, err)
	require.True(t, hit)

	miss, err := p.Check(0)
	require.NoError(t, err)
	require.False(t, miss)

	require.Equal(t, 1, p.TotalPointsMet())
	require.False(t, p.Passed())

	hit, err = p.Check(1)
	require.NoError(t, err)
	require.True(t, hit)

	require.True(t, p.Passed())
	require.Equal(t, model.Passed, p.Status())
}

func TestPoint_Check_StillReportsTrueAfterGoal(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("event").Goal(1).Apply(s)
	require.NoError(t, err)

	_, err = p.Check(1)
	require.NoError(t, err)

	// The mapped boolean keeps coming back even though no progress is left.
	hit, err := p.Check(1)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 2, p.TotalPointsMet())
}

func TestPoint_Check_OutOfSampleSpaceDropped(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("event").Apply(s)
	require.NoError(t, err)

	hit, err := p.Check(7)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, 0, p.TotalPointsMet())
}

func TestPoint_Checker_MapsObservations(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("both zero").
		Goal(1).
		Checker(func(values ...int64) int64 {
			if values[0] == 0 && values[1] == 0 {
				return 1
			}

			return 0
		}).
		Apply(s)
	require.NoError(t, err)

	hit, err := p.Check(3, 0)
	require.NoError(t, err)
	require.False(t, hit)

	hit, err = p.Check(0, 0)
	require.NoError(t, err)
	require.True(t, hit)
	require.True(t, p.Passed())
}

func TestPoint_Advance_DefaultsToTruthyValue(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("event").Apply(s)
	require.NoError(t, err)

	values, err := p.Advance(false)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, values)
}

func TestPoint_Advance_UsesAdvancer(t *testing.T) {
	s := newTestSession()

	in0 := model.NewSignal(8)
	in1 := model.NewSignal(8)

	p, err := NewPoint("maxed").
		Target(in0, in1).
		Advancer(func(_ ...Value) []int64 {
			return []int64{in0.Max(), in1.Max()}
		}).
		Checker(func(values ...int64) int64 {
			if values[0] == in0.Max() && values[1] == in1.Max() {
				return 1
			}

			return 0
		}).
		Apply(s)
	require.NoError(t, err)

	values, err := p.Advance(true)
	require.NoError(t, err)
	require.Equal(t, []int64{255, 255}, values)
}

func TestPoint_SourceAndSinkDefaultToTarget(t *testing.T) {
	s := newTestSession()

	sig := model.NewSignal(4)

	p, err := NewPoint("event").Target(sig).Apply(s)
	require.NoError(t, err)

	require.True(t, p.HasSource())
	require.True(t, p.HasSink())
	require.Len(t, p.Sources(), 1)
	require.Len(t, p.Sinks(), 1)
}

func TestPoint_Bypass_Skips(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("event").Bypass(true).Apply(s)
	require.NoError(t, err)

	require.True(t, p.Skipped())
	require.Equal(t, model.Skipped, p.Status())
	require.Nil(t, p.Snapshot().Met)
}

func TestPoint_Log_Format(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("cin asserted").Goal(2).Apply(s)
	require.NoError(t, err)

	_, err = p.Check(1)
	require.NoError(t, err)

	line, err := p.Log(false)
	require.NoError(t, err)
	require.Equal(t, "CoverPoint: cin asserted: 1/2 ...FAILED", line)

	verbose, err := p.Log(true)
	require.NoError(t, err)
	require.Equal(t, "CoverPoint: cin asserted: ...FAILED\n    1/2", verbose)
}

func TestPoint_Snapshot_HasNoBins(t *testing.T) {
	s := newTestSession()

	p, err := NewPoint("event").Goal(3).Apply(s)
	require.NoError(t, err)

	_, err = p.Check(1)
	require.NoError(t, err)

	snap := p.Snapshot()
	require.Equal(t, "event", snap.Name)
	require.Equal(t, "point", snap.Type)
	require.NotNil(t, snap.Met)
	require.False(t, *snap.Met)
	require.Equal(t, 1, snap.Count)
	require.Equal(t, 3, snap.Goal)
	require.Nil(t, snap.Bins)
}
