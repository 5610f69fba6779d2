package schedule

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/foraging/environment"
	"github.com/samuelfneumann/foraging/utils/floatutils"
)

// RandomWalk generates reward probabilities that take an independent
// Gaussian random walk on each arm (see Miller et al. 2021,
// https://www.biorxiv.org/content/10.1101/461129v3.full.pdf).
//
// On trial 0 the reward probability of arm i is sampled uniformly from
// [PMin[i], PMax[i]]. On every later trial the probability of arm i is
//
//	p(t) = clip(p(t-1) + N(Mean[i], Sigma[i]), PMin[i], PMax[i])
//
// so that the walk is absorbed at the boundaries of each arm.
//
// Each of PMin, PMax, Sigma, and Mean may hold either one value per
// arm, or a single value that is shared by all arms. A nil Mean is a
// walk without drift.
type RandomWalk struct {
	PMin  []float64
	PMax  []float64
	Sigma []float64
	Mean  []float64

	bounds []r1.Interval
	sigma  []float64
	mean   []float64
	hold   bool
}

// param is a named per-arm parameter checked by Validate
type param struct {
	name   string
	values []float64
}

// NewRandomWalk returns a new RandomWalk schedule
func NewRandomWalk(pMin, pMax, sigma, mean []float64) *RandomWalk {
	return &RandomWalk{
		PMin:  pMin,
		PMax:  pMax,
		Sigma: sigma,
		Mean:  mean,
	}
}

// Validate implements the environment.Schedule interface
func (r *RandomWalk) Validate(numArms int) error {
	if numArms < 1 {
		return fmt.Errorf("validate: %w: need at least one arm, got %v",
			environment.ErrInvalidConfig, numArms)
	}

	params := []param{{"p_min", r.PMin}, {"p_max", r.PMax}, {"sigma", r.Sigma}}
	if r.Mean != nil {
		params = append(params, param{"mean", r.Mean})
	}
	for _, param := range params {
		if n := len(param.values); n != 1 && n != numArms {
			return fmt.Errorf("validate: %w: %v should have 1 or %v "+
				"values, got %v", environment.ErrInvalidConfig, param.name,
				numArms, n)
		}
	}

	pMin := floatutils.Broadcast(r.PMin, numArms)
	pMax := floatutils.Broadcast(r.PMax, numArms)
	sigma := floatutils.Broadcast(r.Sigma, numArms)
	for i := 0; i < numArms; i++ {
		if pMin[i] < 0 || pMax[i] > 1 || pMin[i] > pMax[i] {
			return fmt.Errorf("validate: %w: arm %v bounds [%v, %v] must "+
				"be ordered and lie in [0, 1]", environment.ErrInvalidConfig,
				i, pMin[i], pMax[i])
		}
		if sigma[i] < 0 {
			return fmt.Errorf("validate: %w: arm %v sigma %v < 0",
				environment.ErrInvalidConfig, i, sigma[i])
		}
	}
	return nil
}

// Bounds implements the environment.Schedule interface
func (r *RandomWalk) Bounds(numArms int) []r1.Interval {
	pMin := floatutils.Broadcast(r.PMin, numArms)
	pMax := floatutils.Broadcast(r.PMax, numArms)

	bounds := make([]r1.Interval, numArms)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: pMin[i], Max: pMax[i]}
	}
	return bounds
}

// Hold freezes the random walk while hold is true, so that each new
// trial repeats the reward probabilities of the previous trial. Holds
// are released on Initialize.
func (r *RandomWalk) Hold(hold bool) {
	r.hold = hold
}

// Held returns whether the random walk is currently frozen
func (r *RandomWalk) Held() bool {
	return r.hold
}

// Initialize implements the environment.Schedule interface
func (r *RandomWalk) Initialize(src rand.Source, numArms int) ([]float64,
	error) {
	if err := r.Validate(numArms); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	r.bounds = r.Bounds(numArms)
	r.sigma = floatutils.Broadcast(r.Sigma, numArms)
	if r.Mean == nil {
		r.mean = make([]float64, numArms)
	} else {
		r.mean = floatutils.Broadcast(r.Mean, numArms)
	}
	r.hold = false

	p := make([]float64, numArms)
	for i, bound := range r.bounds {
		p[i] = distuv.Uniform{Min: bound.Min, Max: bound.Max, Src: src}.Rand()
	}
	return p, nil
}

// Advance implements the environment.Schedule interface
func (r *RandomWalk) Advance(src rand.Source, history [][]float64) ([]float64,
	error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("advance: no previous trial to walk from")
	}
	if r.bounds == nil {
		return nil, fmt.Errorf("advance: schedule not initialized")
	}

	last := history[len(history)-1]
	next := make([]float64, len(last))
	if r.hold {
		copy(next, last)
		return next, nil
	}

	for i := range last {
		step := distuv.Normal{Mu: r.mean[i], Sigma: r.sigma[i], Src: src}
		next[i] = floatutils.ClipInterval(last[i]+step.Rand(), r.bounds[i])
	}
	return next, nil
}
