package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/foraging/environment"
)

// Record holds the history of a single session, in the layout that
// analysis and plotting code expects:
//
//	Choices[i], Rewards[i]	the action and reward of trial i
//	PReward[arm][i]		the reward probability of arm on trial i
//	BlockStarts		the trials at which blocks start (block
//				schedules only)
type Record struct {
	ID          string      `json:"id"`
	Seed        uint64      `json:"seed"`
	NumArms     int         `json:"num_arms"`
	NumTrials   int         `json:"num_trials"`
	Choices     []int       `json:"choice_history"`
	Rewards     []int       `json:"reward_history"`
	PReward     [][]float64 `json:"p_reward"`
	BlockStarts []int       `json:"block_starts,omitempty"`
	Created     time.Time   `json:"created"`
}

// blockStarter is a History that can report where blocks start
type blockStarter interface {
	BlockStarts() ([]int, bool)
}

// NewRecord returns a new Record of the current state of a session,
// identified by a new random ID
func NewRecord(h environment.History, seed uint64) Record {
	p := h.PReward()
	rows, cols := p.Dims()

	pReward := make([][]float64, rows)
	for arm := range pReward {
		pReward[arm] = mat.Row(nil, arm, p)
	}

	r := Record{
		ID:        uuid.NewString(),
		Seed:      seed,
		NumArms:   h.NumArms(),
		NumTrials: cols,
		Choices:   h.ChoiceHistory(),
		Rewards:   h.RewardHistory(),
		PReward:   pReward,
		Created:   time.Now().UTC(),
	}
	if b, ok := h.(blockStarter); ok {
		r.BlockStarts, _ = b.BlockStarts()
	}
	return r
}

// Matrix returns the reward probability history as a matrix of one
// row per arm and one column per trial
func (r Record) Matrix() *mat.Dense {
	if len(r.PReward) == 0 || len(r.PReward[0]) == 0 {
		return &mat.Dense{}
	}

	p := mat.NewDense(len(r.PReward), len(r.PReward[0]), nil)
	for arm, row := range r.PReward {
		p.SetRow(arm, row)
	}
	return p
}

// TotalReward returns the number of rewarded trials
func (r Record) TotalReward() int {
	total := 0
	for _, reward := range r.Rewards {
		total += reward
	}
	return total
}

// Validate returns an error if the histories of the Record are not
// aligned
func (r Record) Validate() error {
	if len(r.Choices) != len(r.Rewards) {
		return fmt.Errorf("validate: %v choices but %v rewards",
			len(r.Choices), len(r.Rewards))
	}
	if len(r.PReward) != r.NumArms {
		return fmt.Errorf("validate: reward probabilities for %v arms, "+
			"want %v", len(r.PReward), r.NumArms)
	}
	for arm, row := range r.PReward {
		if len(row) != r.NumTrials {
			return fmt.Errorf("validate: arm %v has %v trials, want %v",
				arm, len(row), r.NumTrials)
		}
	}
	if n := len(r.Choices); n != r.NumTrials && n != r.NumTrials-1 {
		return fmt.Errorf("validate: %v choices for %v trials", n,
			r.NumTrials)
	}
	return nil
}

// SaveRecords gob-encodes records to filename
func SaveRecords(filename string, records []Record) error {
	if err := saveData(filename, records); err != nil {
		return fmt.Errorf("saveRecords: %w", err)
	}
	return nil
}

// LoadRecords loads records saved by SaveRecords
func LoadRecords(filename string) ([]Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadRecords: could not open data file: %w",
			err)
	}
	defer file.Close()

	var records []Record
	if err := gob.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("loadRecords: could not decode data: %w",
			err)
	}
	return records, nil
}
