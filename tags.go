package filestore

import (
	ipath "github.com/mlflow-go/filestore/internal/path"
)

// SetTag sets (overwriting if present) a tag on runID. Setting
// ReservedRunNameTag also updates the run's run_name field, keeping the
// two in sync per the invariant in §3.
func (s *Store) SetTag(runID, key, value string) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage != LifecycleStageActive {
		return errInvalid("Cannot set tag on run %s in non-active lifecycle stage", runID)
	}
	if err := writeLeafFile(ipath.TagsDir(s.root, info.ExperimentID, runID), key, value); err != nil {
		return errInternal(err, "failed to set tag %s on run %s", key, runID)
	}
	if key == ReservedRunNameTag && info.RunName != value {
		info.RunName = value
		if err := s.writeRunMeta(info); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTag removes a tag from runID. The run must be active and the
// tag must exist.
func (s *Store) DeleteTag(runID, key string) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage != LifecycleStageActive {
		return errInvalid("No tag with name: %s for run id %s in non-active lifecycle stage", key, runID)
	}
	existed, err := deleteLeafFile(ipath.TagsDir(s.root, info.ExperimentID, runID), key)
	if err != nil {
		return errInternal(err, "failed to delete tag %s on run %s", key, runID)
	}
	if !existed {
		return errInvalid("No tag with name: %s for run id %s", key, runID)
	}
	return nil
}

func (s *Store) listTags(experimentID, runID string) (map[string]string, error) {
	files, err := listLeafFiles(ipath.TagsDir(s.root, experimentID, runID))
	if err != nil {
		return nil, errInternal(err, "failed to read tags for run %s", runID)
	}
	return files, nil
}
