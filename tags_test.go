package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetAndDeleteRunTag(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.SetTag(run.Info.RunID, "stage", "dev"))
	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, "dev", got.Data.Tags["stage"])

	require.NoError(t, s.DeleteTag(run.Info.RunID, "stage"))
	got, err = s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	_, ok := got.Data.Tags["stage"]
	assert.False(t, ok)
}

func TestStore_DeleteTag_MissingErrors(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	err = s.DeleteTag(run.Info.RunID, "does-not-exist")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}

func TestStore_SetTag_UnicodeAndMultiline(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	value := "line one\nline two éè"
	require.NoError(t, s.SetTag(run.Info.RunID, "notes", value))
	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, value, got.Data.Tags["notes"])
}

func TestStore_SetTag_OnDeletedRunFails(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(run.Info.RunID))

	err = s.SetTag(run.Info.RunID, "stage", "dev")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}
