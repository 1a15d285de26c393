package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/ops"
)

func prepared(t *testing.T, n int, list ...ops.Operation) []complex128 {
	t.Helper()
	vec := NewState(n)
	_, err := Evolve(vec, list)
	require.NoError(t, err)
	return vec
}

func TestSampleDeterministicState(t *testing.T) {
	vec := prepared(t, 1, ops.MustNew(ops.X, []int{0}))
	s := NewSampler(NewConfig(), 1)
	out, err := s.Sample(vec, []int{0}, 10000, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"1": 10000}, out.Counts)
	assert.Nil(t, out.State)
}

func TestSampleConvergesToBornRule(t *testing.T) {
	// RX(π/3)|0⟩: P(0) = 0.75.
	vec := prepared(t, 1, ops.MustNew(ops.RX, []int{0}, math.Pi/3))
	const n = 10000
	out, err := NewSampler(NewConfig(), 7).Sample(vec, []int{0}, n, LayoutDeclared, false)
	require.NoError(t, err)

	twoSigma := 2 * math.Sqrt(n*0.75*0.25)
	assert.Equal(t, n, out.Counts.Total())
	assert.InDelta(t, 0.75*n, float64(out.Counts["0"]), twoSigma)
	assert.Equal(t, "0", out.Counts.MostCommon(1)[0].Key)
}

func TestSampleParallelIsSeededAndComplete(t *testing.T) {
	vec := prepared(t, 2, ops.MustNew(ops.H, []int{0}), ops.MustNew(ops.H, []int{1}))
	cfg := NewConfig(WithWorkers(4), WithParallelShots(100))

	a, err := NewSampler(cfg, 99).Sample(vec, []int{0, 1}, 5003, LayoutDeclared, false)
	require.NoError(t, err)
	b, err := NewSampler(cfg, 99).Sample(vec, []int{0, 1}, 5003, LayoutDeclared, false)
	require.NoError(t, err)

	assert.Equal(t, 5003, a.Counts.Total())
	assert.Equal(t, a.Counts, b.Counts)
	assert.Len(t, a.Counts, 4)
}

func TestSampleBitOrderFollowsCaller(t *testing.T) {
	// X on qubit 0 of two qubits.
	vec := prepared(t, 2, ops.MustNew(ops.X, []int{0}))
	s := NewSampler(NewConfig(), 3)

	out, err := s.Sample(vec, []int{1, 0}, 100, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"01": 100}, out.Counts)

	out, err = s.Sample(vec, []int{0, 1}, 100, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"10": 100}, out.Counts)

	out, err = s.Sample(vec, []int{0, 0}, 10, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"11": 10}, out.Counts)
}

func TestSampleRegisterLayoutLeavesUnmeasuredAtZero(t *testing.T) {
	vec := prepared(t, 2, ops.MustNew(ops.X, []int{0}))
	out, err := NewSampler(NewConfig(), 3).Sample(vec, []int{1}, 1000, LayoutRegister, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"00": 1000}, out.Counts)

	out, err = NewSampler(NewConfig(), 3).Sample(vec, []int{1, 0}, 1000, LayoutRegister, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"10": 1000}, out.Counts)
}

func TestSampleCollapsedStateReproducesShot(t *testing.T) {
	vec := prepared(t, 2, ops.MustNew(ops.H, []int{0}), ops.MustNew(ops.CX, []int{0, 1}))
	for seed := range uint64(20) {
		out, err := NewSampler(NewConfig(), seed).Sample(vec, []int{0}, 1, LayoutDeclared, true)
		require.NoError(t, err)
		require.Len(t, out.State, 4)

		key := out.Counts.MostCommon(1)[0].Key
		again, err := NewSampler(NewConfig(), seed+100).Sample(out.State, []int{0, 1}, 50, LayoutDeclared, false)
		require.NoError(t, err)
		assert.Equal(t, Counts{key + key: 50}, again.Counts)
	}
}

func TestRunImplicitlyMeasuresEverything(t *testing.T) {
	vec := prepared(t, 2, ops.MustNew(ops.H, []int{0}), ops.MustNew(ops.CX, []int{0, 1}))
	out, err := NewSampler(NewConfig(), 11).Run(vec, nil, 2000, LayoutDeclared, false)
	require.NoError(t, err)
	for k := range out.Counts {
		assert.Contains(t, []string{"00", "11"}, k)
	}
	assert.Equal(t, 2000, out.Counts.Total())
}

func TestTrajectoriesHandleMidCircuitMeasurement(t *testing.T) {
	// Measure q0 of |+⟩, then copy it onto q1: both bits always agree.
	vec := prepared(t, 2, ops.MustNew(ops.H, []int{0}))
	tail := []ops.Operation{
		ops.MustNew(ops.Measure, []int{0}),
		ops.MustNew(ops.CX, []int{0, 1}),
		ops.MustNew(ops.Measure, []int{1}),
	}
	out, err := NewSampler(NewConfig(), 5).Run(vec, tail, 4000, LayoutDeclared, true)
	require.NoError(t, err)
	assert.Equal(t, 4000, out.Counts["00"]+out.Counts["11"])
	assert.InDelta(t, 2000, float64(out.Counts["00"]), 2*math.Sqrt(4000*0.25))
	assert.InDelta(t, 1.0, Norm(out.State), 1e-12)
}

func TestTrajectoriesReset(t *testing.T) {
	vec := prepared(t, 1, ops.MustNew(ops.H, []int{0}))
	tail := []ops.Operation{
		ops.MustNew(ops.Reset, []int{0}),
		ops.MustNew(ops.Measure, []int{0}),
	}
	out, err := NewSampler(NewConfig(), 5).Run(vec, tail, 500, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"0": 500}, out.Counts)
}

func TestSampleErrors(t *testing.T) {
	s := NewSampler(NewConfig(), 1)
	_, err := s.Sample(make([]complex128, 2), []int{0}, 1, LayoutDeclared, false)
	assert.ErrorIs(t, err, ErrZeroNorm)

	_, err = s.Sample(NewState(1), []int{1}, 1, LayoutDeclared, false)
	assert.ErrorIs(t, err, ops.ErrInvalidQubitIndex)

	out, err := s.Sample(NewState(1), []int{0}, 0, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Empty(t, out.Counts)
}

func TestSampleToleratesUnnormalisedState(t *testing.T) {
	vec := []complex128{0, complex(1+1e-9, 0)}
	out, err := NewSampler(NewConfig(), 1).Sample(vec, []int{0}, 100, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"1": 100}, out.Counts)
}

func TestCollapse(t *testing.T) {
	s := NewSampler(NewConfig(), 1)
	vec := prepared(t, 1, ops.MustNew(ops.H, []int{0}))
	b, err := s.Collapse(vec, 0, 0.99)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b)
	assert.True(t, Same(vec, []complex128{1, 0}, 1e-24))

	_, err = s.Collapse(vec, 3, 0.5)
	assert.ErrorIs(t, err, ops.ErrInvalidQubitIndex)
}

func TestEpsilonFloorsRoundOff(t *testing.T) {
	// P(1) = 1e-20 is round-off: never observed, even for r = 0.
	residue := []complex128{1, 1e-10}

	vec := Clone(residue)
	b, err := NewSampler(NewConfig(), 1).Collapse(vec, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b)
	assert.True(t, Same(vec, []complex128{1, 0}, DefaultEpsilon))

	vec = Clone(residue)
	b, err = NewSampler(NewConfig(WithEpsilon(0)), 1).Collapse(vec, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(1), b)

	// A floor above every outcome leaves nothing to sample.
	_, err = NewSampler(NewConfig(WithEpsilon(1)), 1).Sample([]complex128{0.6, 0.8}, []int{0}, 10, LayoutDeclared, false)
	assert.ErrorIs(t, err, ErrZeroNorm)

	out, err := NewSampler(NewConfig(WithEpsilon(0.5)), 1).Sample([]complex128{0.6, 0.8}, []int{0}, 100, LayoutDeclared, false)
	require.NoError(t, err)
	assert.Equal(t, Counts{"1": 100}, out.Counts)

	assert.Panics(t, func() { WithEpsilon(-1) })
}

func TestCountsHelpers(t *testing.T) {
	c := Counts{"01": 3, "10": 5, "00": 3}
	assert.Equal(t, 11, c.Total())
	assert.Equal(t, []KeyCount{{"10", 5}, {"00", 3}}, c.MostCommon(2))
	assert.InDelta(t, 5.0/11, c.Frequency("10"), 1e-12)
	assert.Zero(t, Counts{}.Frequency("0"))
}
