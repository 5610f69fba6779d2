package experiment

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/foraging/agent"
	_ "github.com/samuelfneumann/foraging/agent/egreedy"
	"github.com/samuelfneumann/foraging/experiment/store"
	"github.com/samuelfneumann/foraging/experiment/tracker"
)

func smallBatch(sessions, workers int) Config {
	c := DefaultConfig()
	c.Sessions = sessions
	c.Workers = workers
	c.Seed = 100
	c.Env.NumTrials = 50
	return c
}

func TestBatchRun(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Init(ctx))

	batch, err := NewBatch(smallBatch(4, 2), s, nil)
	require.NoError(t, err)

	var finished int32
	batch.OnSession(func(tracker.Record) { atomic.AddInt32(&finished, 1) })

	records, err := batch.Run(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, int32(4), atomic.LoadInt32(&finished))

	for i, r := range records {
		assert.Equal(t, uint64(100+i), r.Seed)
		assert.Len(t, r.Choices, 50)
		require.NoError(t, r.Validate())
	}

	stored, err := s.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	for i, r := range stored {
		assert.Equal(t, records[i].ID, r.ID)
	}
}

func TestBatchIndependentOfWorkers(t *testing.T) {
	run := func(workers int) []tracker.Record {
		batch, err := NewBatch(smallBatch(6, workers), nil, nil)
		require.NoError(t, err)
		records, err := batch.Run(context.Background())
		require.NoError(t, err)
		return records
	}

	serial, parallel := run(1), run(3)
	for i := range serial {
		assert.Equal(t, serial[i].Choices, parallel[i].Choices)
		assert.Equal(t, serial[i].Rewards, parallel[i].Rewards)
		assert.Equal(t, serial[i].PReward, parallel[i].PReward)
	}
}

func TestBatchCancelled(t *testing.T) {
	batch, err := NewBatch(smallBatch(3, 1), nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = batch.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	c := DefaultConfig()
	c.Sessions = 0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Workers = 0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Env.NumArms = 0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Agent = agent.TypedConfig{}
	assert.Error(t, c.Validate())

	_, err := NewBatch(c, nil, nil)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	data := []byte(`
name: egreedy
sessions: 3
seed: 7
environment:
  num_trials: 30
  schedule: random_walk
agent:
  type: EGreedy
  config:
    epsilon: 0.1
    learning_rate: 0.2
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "egreedy", c.Name)
	assert.Equal(t, 3, c.Sessions)
	assert.Equal(t, uint64(7), c.Seed)
	assert.Equal(t, DefaultConfig().Workers, c.Workers)
	assert.Equal(t, 30, c.Env.NumTrials)
	assert.Equal(t, agent.EGreedy, c.Agent.Type)

	batch, err := NewBatch(c, nil, nil)
	require.NoError(t, err)
	records, err := batch.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
