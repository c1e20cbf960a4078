package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LogBatch(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	err = s.LogBatch(run.Info.RunID,
		[]BatchMetric{{Key: "loss", Value: "0.5", Timestamp: 100, Step: 0}},
		[]Param{{Key: "lr", Value: "0.01"}},
		Tags{{Key: "stage", Value: "dev"}},
	)
	require.NoError(t, err)

	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Data.Metrics["loss"])
	assert.Equal(t, "0.01", got.Data.Params["lr"])
	assert.Equal(t, "dev", got.Data.Tags["stage"])
}

// TestStore_LogBatch_DuplicateParamKeys exercises S5: duplicate param
// keys within a single call are rejected before anything is written.
func TestStore_LogBatch_DuplicateParamKeys(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	err = s.LogBatch(run.Info.RunID, nil,
		[]Param{{Key: "a", Value: "1"}, {Key: "a", Value: "2"}},
		nil,
	)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))

	_, found, err := s.GetParam(run.Info.RunID, "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_LogBatch_DuplicateTagKeysLastWins(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	err = s.LogBatch(run.Info.RunID, nil, nil, Tags{
		{Key: "stage", Value: "dev"},
		{Key: "stage", Value: "prod"},
	})
	require.NoError(t, err)

	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, "prod", got.Data.Tags["stage"])
}

func TestStore_LogBatch_NonNumericMetricRejected(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	err = s.LogBatch(run.Info.RunID, []BatchMetric{{Key: "loss", Value: "not-a-number"}}, nil, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}

func TestStore_LogBatch_IdempotentReplay(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	batch := func() error {
		return s.LogBatch(run.Info.RunID, nil,
			[]Param{{Key: "lr", Value: "0.01"}},
			Tags{{Key: "stage", Value: "dev"}},
		)
	}
	require.NoError(t, batch())
	require.NoError(t, batch())
}

func TestStore_LogBatch_RequiresActiveRun(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(run.Info.RunID))

	err = s.LogBatch(run.Info.RunID, nil, []Param{{Key: "lr", Value: "0.01"}}, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}
