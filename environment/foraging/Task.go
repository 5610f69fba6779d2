// Package foraging implements the dynamic foraging task environment.
//
// A foraging Task runs a session of a fixed number of trials. On each
// trial the agent chooses one of the arms, or ignores the trial if
// ignoring is allowed, and receives a binary reward. The reward
// probability of each arm is hidden from the agent and is generated
// trial by trial by an environment.Schedule:
//
//	task, _ := foraging.New(schedule.NewDefaultCoupledBlock(), 2, false, 1000)
//	step, _, _ := task.Reset(seed)
//
//	for !step.Last() {
//		action, _ := agent.Act(step.Observation)
//		step, _, _ = task.Step(action)
//	}
//
// After or during a session, the Task's ChoiceHistory, RewardHistory,
// and PReward methods give the full trial-by-trial history.
package foraging

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/spec"
	ts "github.com/samuelfneumann/foraging/timestep"
)

const (
	// Actions for two-armed tasks
	Left  int = 0
	Right int = 1
)

// state is a state of the Task's session lifecycle
type state int

const (
	uninitialized state = iota
	running
	terminated
)

func (s state) String() string {
	switch s {
	case uninitialized:
		return "Uninitialized"
	case running:
		return "Running"
	default:
		return "Terminated"
	}
}

// Task implements a dynamic foraging bandit task.
//
// Legal actions are in [0, NumActions()). Actions [0, NumArms()) choose
// an arm. If ignoring is allowed, the action NumArms() ignores the
// trial, which is never rewarded.
//
// The observation of each timestep is the index of the current trial
// as a 1-dimensional vector. Use the wrappers package to observe the
// task differently.
//
// Task implements the environment.Environment and environment.History
// interfaces. A Task is not safe for concurrent use.
type Task struct {
	schedule    environment.Schedule
	numArms     int
	allowIgnore bool
	numTrials   int

	src     *rand.PCGSource
	uniform distuv.Uniform
	state   state
	trial   int

	pReward [][]float64
	actions []int
	rewards []int
}

// New returns a new Task with numArms arms that runs sessions of
// numTrials trials. The reward probabilities of each trial are
// generated by schedule. The Task must be Reset before it is stepped.
func New(schedule environment.Schedule, numArms int, allowIgnore bool,
	numTrials int) (*Task, error) {
	if schedule == nil {
		return nil, fmt.Errorf("new: %w: nil schedule",
			environment.ErrInvalidConfig)
	}
	if numArms < 1 {
		return nil, fmt.Errorf("new: %w: need at least one arm, got %v",
			environment.ErrInvalidConfig, numArms)
	}
	if numTrials < 1 {
		return nil, fmt.Errorf("new: %w: need at least one trial, got %v",
			environment.ErrInvalidConfig, numTrials)
	}
	if err := schedule.Validate(numArms); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &Task{
		schedule:    schedule,
		numArms:     numArms,
		allowIgnore: allowIgnore,
		numTrials:   numTrials,
		trial:       -1,
	}, nil
}

// Reset starts a new session. The random source of the Task is seeded
// with seed, all history is discarded, and the reward probabilities of
// trial 0 are generated. Resetting twice with the same seed produces
// the same session.
func (t *Task) Reset(seed uint64) (ts.TimeStep, environment.Info, error) {
	src := &rand.PCGSource{}
	src.Seed(seed)

	p, err := t.schedule.Initialize(src, t.numArms)
	if err != nil {
		return ts.TimeStep{}, environment.Info{}, fmt.Errorf("reset: %w", err)
	}
	if len(p) != t.numArms {
		return ts.TimeStep{}, environment.Info{}, fmt.Errorf("reset: "+
			"schedule generated %v probabilities for %v arms", len(p),
			t.numArms)
	}

	t.src = src
	t.uniform = distuv.Uniform{Min: 0, Max: 1, Src: src}
	t.pReward = [][]float64{p}
	t.actions = []int{}
	t.rewards = []int{}
	t.trial = 0
	t.state = running

	step := ts.New(ts.First, 0, t.observe(), t.trial)
	return step, t.Info(), nil
}

// Step takes one step in the environment given an action and returns
// the next timestep and whether the session has terminated. An action
// outside of [0, NumActions()) returns an *environment.InvalidActionError
// and leaves the session unchanged.
//
// If the schedule fails to generate the next trial, the error is
// returned and the history and random source are restored to their
// state before the call. A schedule that implements
// environment.ActionObserver has still observed the action.
//
// The session terminates on the step taken on the last trial. That
// step does not generate reward probabilities for a further trial, so
// the returned timestep keeps the index of the last trial.
func (t *Task) Step(action int) (ts.TimeStep, bool, error) {
	switch t.state {
	case uninitialized:
		return ts.TimeStep{}, false, fmt.Errorf("step: %w",
			environment.ErrNotInitialized)
	case terminated:
		return ts.TimeStep{}, true, fmt.Errorf("step: %w",
			environment.ErrEpisodeTerminated)
	}

	if action < 0 || action >= t.NumActions() {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w",
			&environment.InvalidActionError{
				Action:     action,
				NumActions: t.NumActions(),
			})
	}

	saved := *t.src
	reward := t.reward(action)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)

	// Decide termination before moving to the next trial
	done := t.trial == t.numTrials-1

	if !done {
		if observer, ok := t.schedule.(environment.ActionObserver); ok {
			observer.ObserveAction(action)
		}

		p, err := t.schedule.Advance(t.src, t.pReward)
		if err == nil && len(p) != t.numArms {
			err = fmt.Errorf("schedule generated %v probabilities for %v "+
				"arms", len(p), t.numArms)
		}
		if err != nil {
			t.actions = t.actions[:len(t.actions)-1]
			t.rewards = t.rewards[:len(t.rewards)-1]
			*t.src = saved
			return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
		}

		t.pReward = append(t.pReward, p)
		t.trial++
	}

	stepType := ts.Mid
	if done {
		stepType = ts.Last
		t.state = terminated
	}

	step := ts.New(stepType, float64(reward), t.observe(), t.trial)
	return step, done, nil
}

// reward samples the reward for taking action on the current trial.
// Ignoring a trial is never rewarded and uses no random draw.
func (t *Task) reward(action int) int {
	if t.allowIgnore && action == t.IgnoreAction() {
		return 0
	}
	if t.uniform.Rand() < t.pReward[t.trial][action] {
		return 1
	}
	return 0
}

// observe returns the current trial index as an observation
func (t *Task) observe() *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(t.trial)})
}

// Info returns information about the environment that the agent is
// not supposed to know
func (t *Task) Info() environment.Info {
	return environment.Info{Trial: t.trial, Task: t}
}

// Schedule returns the reward schedule of the Task
func (t *Task) Schedule() environment.Schedule {
	return t.schedule
}

// NumTrials returns the number of trials in a session
func (t *Task) NumTrials() int {
	return t.numTrials
}

// AllowIgnore returns whether trials can be ignored
func (t *Task) AllowIgnore() bool {
	return t.allowIgnore
}

// IgnoreAction returns the action that ignores a trial, or -1 if
// ignoring is not allowed
func (t *Task) IgnoreAction() int {
	if !t.allowIgnore {
		return -1
	}
	return t.numArms
}

// Terminated returns whether the current session has ended
func (t *Task) Terminated() bool {
	return t.state == terminated
}

// ActionSpec returns the action specification of the environment
func (t *Task) ActionSpec() spec.Environment {
	return spec.Uniform(1, spec.Action, 0, float64(t.NumActions()-1),
		spec.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (t *Task) ObservationSpec() spec.Environment {
	return spec.Uniform(1, spec.Observation, 0, float64(t.numTrials-1),
		spec.Discrete)
}

func (t *Task) String() string {
	msg := "Foraging  |  State: %v  |  Trial: %v/%v  |  Arms: %v  |  " +
		"Ignore: %v"
	return fmt.Sprintf(msg, t.state, t.trial, t.numTrials, t.numArms,
		t.allowIgnore)
}
