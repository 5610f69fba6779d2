package foraging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/environment/schedule"
)

// constant returns a random walk schedule whose reward probabilities
// are always p
func constant(p float64) *schedule.RandomWalk {
	return schedule.NewRandomWalk([]float64{p}, []float64{p}, []float64{0},
		nil)
}

func newTask(t *testing.T, s environment.Schedule, numArms int,
	allowIgnore bool, numTrials int) *Task {
	t.Helper()

	task, err := New(s, numArms, allowIgnore, numTrials)
	require.NoError(t, err)
	return task
}

// run resets the task with seed and then takes actions in order until
// the session terminates
func run(t *testing.T, task *Task, seed uint64, actions func(int) int) {
	t.Helper()

	step, _, err := task.Reset(seed)
	require.NoError(t, err)
	for !step.Last() {
		step, _, err = task.Step(actions(step.Number))
		require.NoError(t, err)
	}
}

func alternate(trial int) int { return trial % 2 }

func TestNewInvalid(t *testing.T) {
	_, err := New(nil, 2, false, 10)
	assert.ErrorIs(t, err, environment.ErrInvalidConfig)

	_, err = New(schedule.NewDefaultCoupledBlock(), 0, false, 10)
	assert.ErrorIs(t, err, environment.ErrInvalidConfig)

	_, err = New(schedule.NewDefaultCoupledBlock(), 2, false, 0)
	assert.ErrorIs(t, err, environment.ErrInvalidConfig)

	_, err = New(schedule.NewCoupledBlock(10, 5, 1, nil), 2, false, 10)
	assert.ErrorIs(t, err, environment.ErrInvalidConfig)

	_, err = New(schedule.Base{}, 2, false, 10)
	assert.ErrorIs(t, err, environment.ErrUnimplementedSchedule)
}

func TestStepBeforeReset(t *testing.T) {
	task := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, 10)
	assert.Equal(t, -1, task.Trial())

	_, _, err := task.Step(Left)
	assert.ErrorIs(t, err, environment.ErrNotInitialized)

	rows, cols := task.PReward().Dims()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestSession(t *testing.T) {
	const numTrials = 100
	task := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, numTrials)

	step, info, err := task.Reset(42)
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, 0, step.Number)
	assert.Equal(t, 0, info.Trial)
	assert.Equal(t, 2, info.Task.NumArms())

	_, cols := task.PReward().Dims()
	assert.Equal(t, 1, cols)

	for i := 0; i < numTrials; i++ {
		var done bool
		step, done, err = task.Step(alternate(i))
		require.NoError(t, err)

		assert.Len(t, task.ChoiceHistory(), i+1)
		assert.Len(t, task.RewardHistory(), i+1)
		assert.Contains(t, []float64{0, 1}, step.Reward)
		assert.False(t, step.Truncated())

		rows, cols := task.PReward().Dims()
		assert.Equal(t, 2, rows)
		if i < numTrials-1 {
			assert.False(t, done)
			assert.True(t, step.Mid())
			assert.Equal(t, i+1, step.Number)
			assert.Equal(t, task.Trial()+1, cols)
		} else {
			assert.True(t, done)
			assert.True(t, step.Last())
			assert.Equal(t, numTrials-1, step.Number)
			assert.Equal(t, numTrials, cols)
		}
	}

	assert.True(t, task.Terminated())
	assert.Equal(t, numTrials-1, task.Trial())

	_, done, err := task.Step(Left)
	assert.ErrorIs(t, err, environment.ErrEpisodeTerminated)
	assert.True(t, done)
	assert.Len(t, task.ChoiceHistory(), numTrials)
}

func TestProbabilitiesWithinBounds(t *testing.T) {
	walk := schedule.NewRandomWalk([]float64{0.1, 0.3}, []float64{0.6, 0.9},
		[]float64{0.5}, nil)
	task := newTask(t, walk, 2, false, 300)
	run(t, task, 1, alternate)

	bounds := walk.Bounds(2)
	p := task.PReward()
	_, cols := p.Dims()
	for arm, bound := range bounds {
		for trial := 0; trial < cols; trial++ {
			assert.GreaterOrEqual(t, p.At(arm, trial), bound.Min)
			assert.LessOrEqual(t, p.At(arm, trial), bound.Max)
		}
	}
}

func TestSingleTrial(t *testing.T) {
	task := newTask(t, constant(0.5), 2, false, 1)
	_, _, err := task.Reset(3)
	require.NoError(t, err)

	step, done, err := task.Step(Right)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, step.Last())
	assert.Equal(t, 0, step.Number)

	_, cols := task.PReward().Dims()
	assert.Equal(t, 1, cols)
}

func TestInvalidActionLeavesHistoryUnchanged(t *testing.T) {
	task := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, 10)
	_, _, err := task.Reset(1)
	require.NoError(t, err)
	_, _, err = task.Step(Left)
	require.NoError(t, err)

	for _, action := range []int{-1, 2, 5} {
		_, _, err := task.Step(action)

		var invalid *environment.InvalidActionError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, action, invalid.Action)
		assert.Equal(t, 2, invalid.NumActions)

		assert.Equal(t, []int{Left}, task.ChoiceHistory())
		assert.Len(t, task.RewardHistory(), 1)
		assert.Equal(t, 1, task.Trial())
		_, cols := task.PReward().Dims()
		assert.Equal(t, 2, cols)
	}
}

func TestIgnore(t *testing.T) {
	task := newTask(t, constant(1), 2, true, 20)
	assert.Equal(t, 3, task.NumActions())
	assert.Equal(t, 2, task.IgnoreAction())

	_, _, err := task.Reset(1)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		step, _, err := task.Step(task.IgnoreAction())
		require.NoError(t, err)
		assert.Equal(t, 0.0, step.Reward, "ignored trials are never rewarded")

		step, _, err = task.Step(Left)
		require.NoError(t, err)
		assert.Equal(t, 1.0, step.Reward)
	}

	noIgnore := newTask(t, constant(1), 2, false, 20)
	assert.Equal(t, -1, noIgnore.IgnoreAction())
	assert.Equal(t, 2, noIgnore.NumActions())
}

func TestNeverRewarded(t *testing.T) {
	task := newTask(t, constant(0), 2, false, 50)
	run(t, task, 8, alternate)

	for _, r := range task.RewardHistory() {
		assert.Equal(t, 0, r)
	}
}

func TestDeterministic(t *testing.T) {
	first := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, 500)
	second := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, 500)
	run(t, first, 42, alternate)
	run(t, second, 42, alternate)

	assert.Equal(t, first.ChoiceHistory(), second.ChoiceHistory())
	assert.Equal(t, first.RewardHistory(), second.RewardHistory())
	assert.True(t, mat.Equal(first.PReward(), second.PReward()))

	firstStarts, ok := first.BlockStarts()
	require.True(t, ok)
	secondStarts, _ := second.BlockStarts()
	assert.Equal(t, firstStarts, secondStarts)
}

func TestResetStartsNewSession(t *testing.T) {
	task := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, 200)
	run(t, task, 7, alternate)
	rewards := task.RewardHistory()
	p := task.PReward()

	step, _, err := task.Reset(7)
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, 0, task.Trial())
	assert.False(t, task.Terminated())
	assert.Empty(t, task.ChoiceHistory())
	assert.Empty(t, task.RewardHistory())
	_, cols := task.PReward().Dims()
	assert.Equal(t, 1, cols)

	run(t, task, 7, alternate)
	assert.Equal(t, rewards, task.RewardHistory())
	assert.True(t, mat.Equal(p, task.PReward()))
}

func TestHistoryIsCopied(t *testing.T) {
	task := newTask(t, constant(1), 2, false, 10)
	run(t, task, 1, alternate)

	choices := task.ChoiceHistory()
	choices[0] = 5
	assert.Equal(t, Left, task.ChoiceHistory()[0])

	p := task.PReward()
	p.Set(0, 0, -1)
	assert.Equal(t, 1.0, task.PReward().At(0, 0))
}

func TestBlockStarts(t *testing.T) {
	task := newTask(t, schedule.NewDefaultCoupledBlock(), 2, false, 500)
	run(t, task, 3, alternate)

	starts, ok := task.BlockStarts()
	require.True(t, ok)
	assert.Equal(t, 0, starts[0])
	for i := 1; i < len(starts); i++ {
		assert.Greater(t, starts[i], starts[i-1])
		assert.Less(t, starts[i], 500)
	}

	walk := newTask(t, constant(0.5), 2, false, 10)
	_, ok = walk.BlockStarts()
	assert.False(t, ok)
}

func TestSpecs(t *testing.T) {
	task := newTask(t, constant(0.5), 2, true, 10)

	action := task.ActionSpec()
	assert.Equal(t, 1, action.Shape.Len())
	assert.Equal(t, 0.0, action.LowerBound.AtVec(0))
	assert.Equal(t, 2.0, action.UpperBound.AtVec(0))

	step, _, err := task.Reset(1)
	require.NoError(t, err)
	assert.True(t, task.ObservationSpec().Contains(step.Observation))
}

// failing is a schedule whose Advance fails after a number of calls
type failing struct {
	*schedule.RandomWalk
	failAfter int
	calls     int
}

func (f *failing) Advance(src rand.Source, history [][]float64) ([]float64,
	error) {
	f.calls++
	if f.calls > f.failAfter {
		return nil, errors.New("advance failed")
	}
	return f.RandomWalk.Advance(src, history)
}

func TestScheduleFailureRollsBack(t *testing.T) {
	task := newTask(t, &failing{RandomWalk: constant(0.5), failAfter: 2}, 2,
		false, 10)
	_, _, err := task.Reset(1)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = task.Step(Left)
		require.NoError(t, err)
	}

	_, _, err = task.Step(Right)
	require.Error(t, err)
	assert.Equal(t, []int{Left, Left}, task.ChoiceHistory())
	assert.Len(t, task.RewardHistory(), 2)
	assert.Equal(t, 2, task.Trial())
	_, cols := task.PReward().Dims()
	assert.Equal(t, 3, cols)
}

func TestScheduleFailureRestoresSource(t *testing.T) {
	const numTrials = 200
	s := &failing{RandomWalk: constant(0.5), failAfter: 3}
	task := newTask(t, s, 2, false, numTrials)
	_, _, err := task.Reset(7)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = task.Step(Left)
		require.NoError(t, err)
	}
	_, _, err = task.Step(Left)
	require.Error(t, err)

	// Retrying after the schedule recovers must give the session that
	// never failed
	s.failAfter = numTrials
	step, _, err := task.Step(Left)
	require.NoError(t, err)
	for !step.Last() {
		step, _, err = task.Step(Left)
		require.NoError(t, err)
	}

	reference := newTask(t, constant(0.5), 2, false, numTrials)
	run(t, reference, 7, func(int) int { return Left })

	assert.Equal(t, reference.RewardHistory(), task.RewardHistory())
	assert.True(t, mat.Equal(reference.PReward(), task.PReward()))
}

// recording is a schedule that records the actions it observes
type recording struct {
	*schedule.RandomWalk
	actions []int
}

func (r *recording) ObserveAction(action int) {
	r.actions = append(r.actions, action)
}

func TestActionObserver(t *testing.T) {
	s := &recording{RandomWalk: constant(0.5)}
	task := newTask(t, s, 2, false, 6)
	run(t, task, 1, alternate)

	// The terminal step does not advance the schedule
	assert.Equal(t, []int{0, 1, 0, 1, 0}, s.actions)
}

func BenchmarkTaskStep(b *testing.B) {
	task, err := New(schedule.NewDefaultCoupledBlock(), 2, true, b.N+1)
	if err != nil {
		b.Fatal(err)
	}
	if _, _, err := task.Reset(1); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := task.Step(i % 3); err != nil {
			b.Error(err)
		}
	}
}
