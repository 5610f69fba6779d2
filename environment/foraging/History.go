package foraging

import (
	"gonum.org/v1/gonum/mat"
)

// blockStarter is a schedule that tracks the trials at which blocks
// of trials start
type blockStarter interface {
	BlockStarts() []int
}

// Trial returns the index of the current trial, or -1 if the Task has
// never been reset
func (t *Task) Trial() int {
	return t.trial
}

// NumArms returns the number of arms
func (t *Task) NumArms() int {
	return t.numArms
}

// NumActions returns the number of legal actions
func (t *Task) NumActions() int {
	if t.allowIgnore {
		return t.numArms + 1
	}
	return t.numArms
}

// ChoiceHistory returns the actions taken so far in the session
func (t *Task) ChoiceHistory() []int {
	return append([]int(nil), t.actions...)
}

// RewardHistory returns the rewards received so far in the session
func (t *Task) RewardHistory() []int {
	return append([]int(nil), t.rewards...)
}

// PReward returns the reward probability history of the session with
// one row per arm and one column per generated trial. Mid-session, the
// matrix has one more column than there are choices, since the
// probabilities of the current trial are generated before the agent
// chooses. Before the first Reset the matrix is empty.
func (t *Task) PReward() *mat.Dense {
	if len(t.pReward) == 0 {
		return &mat.Dense{}
	}

	p := mat.NewDense(t.numArms, len(t.pReward), nil)
	for trial, probs := range t.pReward {
		p.SetCol(trial, probs)
	}
	return p
}

// BlockStarts returns the trials at which each block of the session
// started. The boolean return value is false if the Task's schedule
// does not generate blocks.
func (t *Task) BlockStarts() ([]int, bool) {
	blocks, ok := t.schedule.(blockStarter)
	if !ok {
		return nil, false
	}
	return blocks.BlockStarts(), true
}
