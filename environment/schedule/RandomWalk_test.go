package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/foraging/environment"
)

// generate runs a schedule for numTrials trials and returns the
// generated reward probabilities
func generate(t *testing.T, s environment.Schedule, seed uint64, numArms,
	numTrials int) [][]float64 {
	t.Helper()

	src := rand.NewSource(seed)
	p, err := s.Initialize(src, numArms)
	require.NoError(t, err)

	history := [][]float64{p}
	for len(history) < numTrials {
		p, err = s.Advance(src, history)
		require.NoError(t, err)
		require.Len(t, p, numArms)
		history = append(history, p)
	}
	return history
}

func TestRandomWalkStaysWithinBounds(t *testing.T) {
	pMin := []float64{0.1, 0.2}
	pMax := []float64{0.9, 0.5}
	walk := NewRandomWalk(pMin, pMax, []float64{10}, nil)

	history := generate(t, walk, 1, 2, 500)

	hitMin, hitMax := false, false
	for _, p := range history {
		for arm, prob := range p {
			assert.GreaterOrEqual(t, prob, pMin[arm])
			assert.LessOrEqual(t, prob, pMax[arm])
			hitMin = hitMin || prob == pMin[arm]
			hitMax = hitMax || prob == pMax[arm]
		}
	}
	assert.True(t, hitMin, "large steps should be absorbed at p_min")
	assert.True(t, hitMax, "large steps should be absorbed at p_max")
}

func TestRandomWalkDrift(t *testing.T) {
	walk := NewRandomWalk([]float64{0}, []float64{1}, []float64{0},
		[]float64{0.1})

	history := generate(t, walk, 3, 1, 20)
	for i := 1; i < len(history); i++ {
		want := history[i-1][0] + 0.1
		if want > 1 {
			want = 1
		}
		assert.InDelta(t, want, history[i][0], 1e-12)
	}
	assert.Equal(t, 1.0, history[len(history)-1][0])
}

func TestRandomWalkHold(t *testing.T) {
	walk := NewRandomWalk([]float64{0}, []float64{1}, []float64{0.2}, nil)
	src := rand.NewSource(7)

	p, err := walk.Initialize(src, 2)
	require.NoError(t, err)
	history := [][]float64{p}

	walk.Hold(true)
	assert.True(t, walk.Held())
	for i := 0; i < 5; i++ {
		next, err := walk.Advance(src, history)
		require.NoError(t, err)
		assert.Equal(t, p, next)
		history = append(history, next)
	}

	_, err = walk.Initialize(src, 2)
	require.NoError(t, err)
	assert.False(t, walk.Held(), "initialize should release holds")
}

func TestRandomWalkDeterministic(t *testing.T) {
	newWalk := func() *RandomWalk {
		return NewRandomWalk([]float64{0, 0.1}, []float64{1, 0.9},
			[]float64{0.15}, []float64{0, 0.01})
	}

	first := generate(t, newWalk(), 42, 2, 200)
	second := generate(t, newWalk(), 42, 2, 200)
	assert.Equal(t, first, second)

	other := generate(t, newWalk(), 43, 2, 200)
	assert.NotEqual(t, first, other)
}

func TestRandomWalkBroadcastBounds(t *testing.T) {
	walk := NewRandomWalk([]float64{0.2}, []float64{0.6}, []float64{0.1}, nil)

	bounds := walk.Bounds(3)
	require.Len(t, bounds, 3)
	for _, b := range bounds {
		assert.Equal(t, 0.2, b.Min)
		assert.Equal(t, 0.6, b.Max)
	}
}

func TestRandomWalkValidate(t *testing.T) {
	tests := []struct {
		name string
		walk *RandomWalk
		arms int
	}{
		{"no arms", NewRandomWalk([]float64{0}, []float64{1},
			[]float64{0.1}, nil), 0},
		{"wrong length", NewRandomWalk([]float64{0, 0, 0}, []float64{1},
			[]float64{0.1}, nil), 2},
		{"unordered bounds", NewRandomWalk([]float64{0.8}, []float64{0.2},
			[]float64{0.1}, nil), 2},
		{"out of unit interval", NewRandomWalk([]float64{0}, []float64{1.2},
			[]float64{0.1}, nil), 2},
		{"negative sigma", NewRandomWalk([]float64{0}, []float64{1},
			[]float64{-0.1}, nil), 2},
		{"wrong mean length", NewRandomWalk([]float64{0}, []float64{1},
			[]float64{0.1}, []float64{0, 0, 0}), 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.walk.Validate(test.arms)
			assert.ErrorIs(t, err, environment.ErrInvalidConfig)
		})
	}
}

func TestRandomWalkAdvanceBeforeInitialize(t *testing.T) {
	walk := NewRandomWalk([]float64{0}, []float64{1}, []float64{0.1}, nil)
	src := rand.NewSource(1)

	_, err := walk.Advance(src, [][]float64{{0.5}})
	assert.Error(t, err)

	_, err = walk.Advance(src, nil)
	assert.Error(t, err)
}

func TestBase(t *testing.T) {
	var b Base
	src := rand.NewSource(1)

	assert.ErrorIs(t, b.Validate(2), environment.ErrUnimplementedSchedule)

	_, err := b.Initialize(src, 2)
	assert.ErrorIs(t, err, environment.ErrUnimplementedSchedule)

	_, err = b.Advance(src, [][]float64{{0.5, 0.5}})
	assert.ErrorIs(t, err, environment.ErrUnimplementedSchedule)

	for _, bound := range b.Bounds(2) {
		assert.Equal(t, 0.0, bound.Min)
		assert.Equal(t, 1.0, bound.Max)
	}
}
