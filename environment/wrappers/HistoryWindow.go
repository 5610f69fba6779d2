package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/spec"
)

// HistoryWindow uses the recent (action, reward) history of a session
// as the observation. Observations are flattened vectors of length
// 2 * Length:
//
//	[a(t), r(t), a(t-1), r(t-1), ..., a(t-Length+1), r(t-Length+1)]
//
// where t is the most recently completed trial. If fewer than Length
// trials have been completed, the remaining (action, reward) pairs
// are (0, 0).
//
// The window is sliced from the full session history each time an
// observation is constructed, so observations stay consistent with
// the history across resets.
type HistoryWindow struct {
	Length int
}

// NewHistoryWindow returns a new HistoryWindow observer of length
// (action, reward) pairs
func NewHistoryWindow(length int) (HistoryWindow, error) {
	if length < 1 {
		return HistoryWindow{}, fmt.Errorf("newHistoryWindow: %w: history "+
			"length %v < 1", environment.ErrInvalidConfig, length)
	}
	return HistoryWindow{Length: length}, nil
}

// Observe implements the environment.Observer interface
func (w HistoryWindow) Observe(h environment.History) *mat.VecDense {
	choices := h.ChoiceHistory()
	rewards := h.RewardHistory()

	obs := mat.NewVecDense(2*w.Length, nil)
	for i := 0; i < w.Length; i++ {
		trial := len(choices) - 1 - i
		if trial < 0 {
			break
		}
		obs.SetVec(2*i, float64(choices[trial]))
		obs.SetVec(2*i+1, float64(rewards[trial]))
	}
	return obs
}

// ObservationSpec implements the environment.Observer interface
func (w HistoryWindow) ObservationSpec(numActions, _ int) spec.Environment {
	lower := make([]float64, 2*w.Length)
	upper := make([]float64, 2*w.Length)
	for i := 0; i < w.Length; i++ {
		upper[2*i] = float64(numActions - 1)
		upper[2*i+1] = 1
	}

	return spec.NewEnvironment(mat.NewVecDense(2*w.Length, nil),
		spec.Observation, mat.NewVecDense(2*w.Length, lower),
		mat.NewVecDense(2*w.Length, upper), spec.Discrete)
}
