package filestore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetAndGetParam(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.SetParam(run.Info.RunID, "lr", "0.01"))
	v, found, err := s.GetParam(run.Info.RunID, "lr")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "0.01", v)
}

func TestStore_SetParam_RepeatedIdenticalValueIsNoop(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.SetParam(run.Info.RunID, "lr", "0.01"))
	require.NoError(t, s.SetParam(run.Info.RunID, "lr", "0.01"))
	v, _, err := s.GetParam(run.Info.RunID, "lr")
	require.NoError(t, err)
	assert.Equal(t, "0.01", v)
}

func TestStore_SetParam_ChangingValueFails(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.SetParam(run.Info.RunID, "lr", "0.01"))
	err = s.SetParam(run.Info.RunID, "lr", "0.02")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))

	v, _, err := s.GetParam(run.Info.RunID, "lr")
	require.NoError(t, err)
	assert.Equal(t, "0.01", v)
}

func TestStore_SetParam_LengthBoundary(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	ok := strings.Repeat("a", 500)
	require.NoError(t, s.SetParam(run.Info.RunID, "ok", ok))

	tooLong := strings.Repeat("a", 1000)
	err = s.SetParam(run.Info.RunID, "too-long", tooLong)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}

func TestStore_SetParam_KeyWithSlashes(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	key := "this is/a weird/but valid param"
	require.NoError(t, s.SetParam(run.Info.RunID, key, "value"))
	v, found, err := s.GetParam(run.Info.RunID, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", v)
}

func TestStore_SetParam_RejectsPathEscape(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	err = s.SetParam(run.Info.RunID, "../escape", "value")
	require.Error(t, err)
}
