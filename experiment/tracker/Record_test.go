package tracker

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/foraging/environment/foraging"
	"github.com/samuelfneumann/foraging/environment/schedule"
)

// session runs a full session of numTrials trials that alternates
// between arms
func session(t *testing.T, numTrials int) *foraging.Task {
	t.Helper()

	task, err := foraging.New(schedule.NewDefaultCoupledBlock(), 2, false,
		numTrials)
	require.NoError(t, err)

	step, _, err := task.Reset(3)
	require.NoError(t, err)
	for !step.Last() {
		step, _, err = task.Step(step.Number % 2)
		require.NoError(t, err)
	}
	return task
}

func TestNewRecord(t *testing.T) {
	task := session(t, 200)
	r := NewRecord(task, 3)

	require.NoError(t, r.Validate())
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, uint64(3), r.Seed)
	assert.Equal(t, 2, r.NumArms)
	assert.Equal(t, 200, r.NumTrials)
	assert.Equal(t, task.ChoiceHistory(), r.Choices)
	assert.Equal(t, task.RewardHistory(), r.Rewards)
	assert.True(t, mat.Equal(task.PReward(), r.Matrix()))

	starts, _ := task.BlockStarts()
	assert.Equal(t, starts, r.BlockStarts)

	total := 0
	for _, reward := range r.Rewards {
		total += reward
	}
	assert.Equal(t, total, r.TotalReward())

	assert.NotEqual(t, r.ID, NewRecord(task, 3).ID)
}

func TestRecordValidate(t *testing.T) {
	valid := Record{
		NumArms:   2,
		NumTrials: 2,
		Choices:   []int{0, 1},
		Rewards:   []int{1, 0},
		PReward:   [][]float64{{0.1, 0.1}, {0.4, 0.4}},
	}
	require.NoError(t, valid.Validate())

	misaligned := valid
	misaligned.Rewards = []int{1}
	assert.Error(t, misaligned.Validate())

	arms := valid
	arms.NumArms = 3
	assert.Error(t, arms.Validate())

	trials := valid
	trials.PReward = [][]float64{{0.1, 0.1}, {0.4}}
	assert.Error(t, trials.Validate())

	choices := valid
	choices.NumTrials = 4
	choices.PReward = [][]float64{{0, 0, 0, 0}, {0, 0, 0, 0}}
	assert.Error(t, choices.Validate())
}

func TestEmptyRecordMatrix(t *testing.T) {
	rows, cols := Record{}.Matrix().Dims()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestSaveLoadRecords(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "records.bin")
	records := []Record{NewRecord(session(t, 50), 3), NewRecord(session(t, 60), 3)}

	require.NoError(t, SaveRecords(filename, records))
	loaded, err := LoadRecords(filename)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for i, r := range records {
		assert.Equal(t, r.ID, loaded[i].ID)
		assert.Equal(t, r.Choices, loaded[i].Choices)
		assert.Equal(t, r.Rewards, loaded[i].Rewards)
		assert.Equal(t, r.PReward, loaded[i].PReward)
		assert.Equal(t, r.BlockStarts, loaded[i].BlockStarts)
		assert.True(t, r.Created.Equal(loaded[i].Created))
	}
}
