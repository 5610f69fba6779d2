package schedule

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/foraging/environment"
)

// Default CoupledBlock parameters
const (
	DefaultBlockMin  int     = 40
	DefaultBlockMax  int     = 80
	DefaultBlockBeta float64 = 20

	// MaxBlockBeta is the largest mean block length offset accepted by
	// Validate
	MaxBlockBeta float64 = 1e4
)

// DefaultPRewardPairs are the reward probability pairs of the 8:1, 6:1,
// and 3:1 reward ratios with a total reward probability of 0.45
var DefaultPRewardPairs = [][2]float64{
	{0.05, 0.4},
	{0.0643, 0.3857},
	{0.1125, 0.3375},
}

// CoupledBlock generates reward probabilities in blocks of trials. In
// each block a single favored arm has a high reward probability and
// all other arms share a low reward probability. The arms are coupled:
// when a block ends, the favored arm changes.
//
// Block lengths are sampled as
//
//	length = BlockMin + floor(Exponential(mean = BlockBeta))
//
// and resampled until length <= BlockMax. Each block draws its
// (low, high) reward probabilities uniformly from PRewardPairs, and its
// favored arm uniformly from all arms except the previous block's
// favored arm. With a single arm, that arm is always favored.
type CoupledBlock struct {
	BlockMin     int
	BlockMax     int
	BlockBeta    float64
	PRewardPairs [][2]float64

	numArms     int
	trial       int
	blockTrial  int
	blockLen    int
	current     []float64
	blockStarts []int
	blockLens   []int
	favored     []int
}

// NewCoupledBlock returns a new CoupledBlock schedule. Each reward
// pair is stored sorted in ascending order.
func NewCoupledBlock(blockMin, blockMax int, blockBeta float64,
	pRewardPairs [][2]float64) *CoupledBlock {
	pairs := make([][2]float64, len(pRewardPairs))
	for i, pair := range pRewardPairs {
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		pairs[i] = pair
	}

	return &CoupledBlock{
		BlockMin:     blockMin,
		BlockMax:     blockMax,
		BlockBeta:    blockBeta,
		PRewardPairs: pairs,
	}
}

// NewDefaultCoupledBlock returns a CoupledBlock schedule with the
// default parameters
func NewDefaultCoupledBlock() *CoupledBlock {
	return NewCoupledBlock(DefaultBlockMin, DefaultBlockMax, DefaultBlockBeta,
		DefaultPRewardPairs)
}

// Validate implements the environment.Schedule interface
func (c *CoupledBlock) Validate(numArms int) error {
	if numArms < 1 {
		return fmt.Errorf("validate: %w: need at least one arm, got %v",
			environment.ErrInvalidConfig, numArms)
	}
	if c.BlockMin < 1 || c.BlockMax < c.BlockMin {
		return fmt.Errorf("validate: %w: block length bounds [%v, %v] "+
			"must satisfy 1 <= block_min <= block_max",
			environment.ErrInvalidConfig, c.BlockMin, c.BlockMax)
	}
	if !(c.BlockBeta > 0) || c.BlockBeta > MaxBlockBeta {
		return fmt.Errorf("validate: %w: block_beta %v must lie in (0, %v]",
			environment.ErrInvalidConfig, c.BlockBeta, MaxBlockBeta)
	}
	if len(c.PRewardPairs) == 0 {
		return fmt.Errorf("validate: %w: no reward probability pairs",
			environment.ErrInvalidConfig)
	}
	for _, pair := range c.PRewardPairs {
		if pair[0] < 0 || pair[1] > 1 || pair[0] > pair[1] {
			return fmt.Errorf("validate: %w: reward pair %v must be sorted "+
				"and lie in [0, 1]", environment.ErrInvalidConfig, pair)
		}
	}
	return nil
}

// Bounds implements the environment.Schedule interface. Every arm is
// bounded by the smallest and largest reward probability of all pairs.
func (c *CoupledBlock) Bounds(numArms int) []r1.Interval {
	bound := r1.Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, pair := range c.PRewardPairs {
		bound.Min = math.Min(bound.Min, pair[0])
		bound.Max = math.Max(bound.Max, pair[1])
	}

	bounds := make([]r1.Interval, numArms)
	for i := range bounds {
		bounds[i] = bound
	}
	return bounds
}

// Initialize implements the environment.Schedule interface
func (c *CoupledBlock) Initialize(src rand.Source, numArms int) ([]float64,
	error) {
	if err := c.Validate(numArms); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	c.numArms = numArms
	c.trial = 0
	c.blockStarts = nil
	c.blockLens = nil
	c.favored = nil
	c.newBlock(src)

	return append([]float64(nil), c.current...), nil
}

// Advance implements the environment.Schedule interface
func (c *CoupledBlock) Advance(src rand.Source, history [][]float64) ([]float64,
	error) {
	if c.current == nil {
		return nil, fmt.Errorf("advance: schedule not initialized")
	}
	if len(history) != c.trial+1 {
		return nil, fmt.Errorf("advance: history of %v trials does not "+
			"follow trial %v", len(history), c.trial)
	}

	c.trial++
	c.blockTrial++
	if c.blockTrial >= c.blockLen {
		c.newBlock(src)
	}

	return append([]float64(nil), c.current...), nil
}

// newBlock starts a new block on the current trial
func (c *CoupledBlock) newBlock(src rand.Source) {
	rng := rand.New(src)

	c.blockLen = c.sampleBlockLen(src)
	c.blockTrial = 0

	pair := c.PRewardPairs[rng.Intn(len(c.PRewardPairs))]

	favored := 0
	if n := len(c.favored); n == 0 {
		favored = rng.Intn(c.numArms)
	} else if c.numArms > 1 {
		// Sample among all arms except the previously favored arm
		prev := c.favored[n-1]
		favored = rng.Intn(c.numArms - 1)
		if favored >= prev {
			favored++
		}
	}

	c.current = make([]float64, c.numArms)
	for i := range c.current {
		c.current[i] = pair[0]
	}
	c.current[favored] = pair[1]

	c.blockStarts = append(c.blockStarts, c.trial)
	c.blockLens = append(c.blockLens, c.blockLen)
	c.favored = append(c.favored, favored)
}

// sampleBlockLen samples a block length from the truncated, shifted
// exponential distribution. The offset is compared as a float so that
// large draws cannot overflow the length.
func (c *CoupledBlock) sampleBlockLen(src rand.Source) int {
	exp := distuv.Exponential{Rate: 1 / c.BlockBeta, Src: src}
	width := float64(c.BlockMax - c.BlockMin + 1)
	for {
		if x := exp.Rand(); x < width {
			return c.BlockMin + int(x)
		}
	}
}

// BlockStarts returns the trial indices at which each block started.
// The first block always starts at trial 0.
func (c *CoupledBlock) BlockStarts() []int {
	return append([]int(nil), c.blockStarts...)
}

// BlockLengths returns the sampled length of each block. The last
// block may be cut short by the end of the session.
func (c *CoupledBlock) BlockLengths() []int {
	return append([]int(nil), c.blockLens...)
}

// FavoredArms returns the favored arm of each block
func (c *CoupledBlock) FavoredArms() []int {
	return append([]int(nil), c.favored...)
}

// BlockAt returns the index of the block that trial belongs to, or -1
// if the trial has not been generated
func (c *CoupledBlock) BlockAt(trial int) int {
	if trial < 0 || trial > c.trial {
		return -1
	}
	return sort.SearchInts(c.blockStarts, trial+1) - 1
}
