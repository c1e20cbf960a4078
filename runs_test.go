package filestore

import (
	"fmt"
	"os"
	"testing"

	ipath "github.com/mlflow-go/filestore/internal/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateRun(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 1000, nil, "")
	require.NoError(t, err)
	assert.Len(t, run.Info.RunID, 32)
	assert.NotEmpty(t, run.Info.RunName)
	assert.Equal(t, run.Info.RunName, run.Data.Tags[ReservedRunNameTag])
	assert.Contains(t, run.Info.ArtifactURI, run.Info.RunID)
	assert.Equal(t, RunStatusRunning, run.Info.Status)
}

func TestStore_CreateRun_RequiresActiveExperiment(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateExperiment("inactive", "", nil)
	require.NoError(t, err)
	require.NoError(t, s.DeleteExperiment(id))

	_, err = s.CreateRun(id, "alice", 0, nil, "")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}

func TestStore_CreateRun_NameTagMismatch(t *testing.T) {
	s := newTestStore(t)
	tags := Tags{{Key: ReservedRunNameTag, Value: "other"}}
	_, err := s.CreateRun(DefaultExperimentID, "alice", 0, tags, "first")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidParameterValue))
}

// TestStore_RunNameSync exercises S4: run_name and mlflow.runName stay
// in sync across update_run_info and set_tag.
func TestStore_RunNameSync(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "first")
	require.NoError(t, err)
	assert.Equal(t, "first", run.Info.RunName)

	// update_run_info(run_name=nil) keeps the existing name.
	info, err := s.UpdateRunInfo(run.Info.RunID, RunStatusFinished, 42, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", info.RunName)
	assert.Equal(t, RunStatusFinished, info.Status)
	assert.Equal(t, int64(42), info.EndTime)

	require.NoError(t, s.SetTag(run.Info.RunID, ReservedRunNameTag, "other"))
	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, "other", got.Info.RunName)
	assert.Equal(t, "other", got.Data.Tags[ReservedRunNameTag])
}

func TestStore_DeleteAndRestoreRun(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(run.Info.RunID))
	require.NoError(t, s.DeleteRun(run.Info.RunID)) // idempotent

	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, LifecycleStageDeleted, got.Info.LifecycleStage)
	assert.NotNil(t, got.Info.DeletedTime)

	require.NoError(t, s.RestoreRun(run.Info.RunID))
	require.NoError(t, s.RestoreRun(run.Info.RunID)) // idempotent
	got, err = s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, LifecycleStageActive, got.Info.LifecycleStage)
	assert.Nil(t, got.Info.DeletedTime)
}

func TestStore_HardDeleteRun(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.HardDeleteRun(run.Info.RunID))
	_, err = s.GetRun(run.Info.RunID)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeResourceDoesNotExist))
}

// TestStore_RunName_LegacyMetadataFallsBackToTag exercises the
// MLflow <= 1.29.0 compatibility case: a meta.yaml predating the
// run_name field still resolves attributes.run_name (and search on it)
// from the mlflow.runName tag.
func TestStore_RunName_LegacyMetadataFallsBackToTag(t *testing.T) {
	s := newTestStore(t)
	run, err := s.CreateRun(DefaultExperimentID, "alice", 0, nil, "legacy-name")
	require.NoError(t, err)
	require.Equal(t, "legacy-name", run.Data.Tags[ReservedRunNameTag])

	metaFile := ipath.RunMetaFile(s.Root(), DefaultExperimentID, run.Info.RunID)
	legacyDoc := fmt.Sprintf("run_uuid: %s\nrun_id: %s\nexperiment_id: %q\nstatus: RUNNING\nlifecycle_stage: active\n",
		run.Info.RunID, run.Info.RunID, DefaultExperimentID)
	require.NoError(t, os.WriteFile(metaFile, []byte(legacyDoc), 0o644))

	got, err := s.GetRun(run.Info.RunID)
	require.NoError(t, err)
	assert.Equal(t, "legacy-name", got.Info.RunName)
	assert.Equal(t, "legacy-name", got.Data.Tags[ReservedRunNameTag])

	n := 100
	page, err := s.SearchRuns([]string{DefaultExperimentID}, `attributes.run_name = 'legacy-name'`, ViewTypeActiveOnly, &n, nil, nil)
	require.NoError(t, err)
	require.Len(t, page.Runs, 1)
	assert.Equal(t, run.Info.RunID, page.Runs[0].Info.RunID)

	page, err = s.SearchRuns([]string{DefaultExperimentID}, `tags."mlflow.runName" = 'legacy-name'`, ViewTypeActiveOnly, &n, nil, nil)
	require.NoError(t, err)
	require.Len(t, page.Runs, 1)
	assert.Equal(t, run.Info.RunID, page.Runs[0].Info.RunID)
}

func TestStore_GetRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("0000000000000000000000000000beef")
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeResourceDoesNotExist))
}
