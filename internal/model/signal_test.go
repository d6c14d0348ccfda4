package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSignal_ClampsWidth(t *testing.T) {
	require.Equal(t, 1, NewSignal(0).Width())
	require.Equal(t, 1, NewSignal(-3).Width())
	require.Equal(t, MaxSignalWidth, NewSignal(100).Width())
	require.Equal(t, 8, NewSignal(8).Width())
}

func TestSignal_AssignMasksToWidth(t *testing.T) {
	sig := NewSignal(4)

	sig.Assign(5)
	require.Equal(t, int64(5), sig.Int())

	sig.Assign(16)
	require.Equal(t, int64(0), sig.Int())

	sig.Assign(255)
	require.Equal(t, int64(15), sig.Int())
}

func TestSignal_Bounds(t *testing.T) {
	sig := NewSignal(8)

	require.Equal(t, int64(0), sig.Min())
	require.Equal(t, int64(255), sig.Max())

	start, stop := sig.Span()
	require.Equal(t, int64(0), start)
	require.Equal(t, int64(256), stop)
}

func TestSignal_RandomizeStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sig := NewSignal(3)

	seen := make(map[int64]bool)

	for i := 0; i < 200; i++ {
		sig.Randomize(rng)
		require.GreaterOrEqual(t, sig.Int(), int64(0))
		require.LessOrEqual(t, sig.Int(), int64(7))
		seen[sig.Int()] = true
	}

	require.Len(t, seen, 8)
}
