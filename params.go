package filestore

import (
	ipath "github.com/mlflow-go/filestore/internal/path"
)

// maxParamValueLength is the length past which a param value is
// rejected: 500 characters is accepted, 1000 is rejected.
const maxParamValueLength = 500

// SetParam writes key=value on runID. Param values are immutable: a
// second call with the same value is a no-op; a second call with a
// different value fails without mutating the stored value.
func (s *Store) SetParam(runID, key, value string) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage != LifecycleStageActive {
		return errInvalid("Cannot set param on run %s in non-active lifecycle stage", runID)
	}
	if len(value) > maxParamValueLength {
		return errInvalid("Param value %q for key %q exceeded length limit of %d characters", truncateForMessage(value), key, maxParamValueLength)
	}

	dir := ipath.ParamsDir(s.root, info.ExperimentID, runID)
	existing, found, err := readLeafFile(dir, key)
	if err != nil {
		return errInternal(err, "failed to read param %s on run %s", key, runID)
	}
	if found {
		if existing == value {
			return nil
		}
		return errInvalid("Changing param values is not allowed. Param with key=%q was already logged with value=%q for run ID=%q. Attempted logging new value=%q", key, existing, runID, value)
	}
	if err := writeLeafFile(dir, key, value); err != nil {
		return errInternal(err, "failed to set param %s on run %s", key, runID)
	}
	return nil
}

// GetParam returns the value of key on runID, and whether it is set.
func (s *Store) GetParam(runID, key string) (string, bool, error) {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return "", false, err
	}
	return readLeafFile(ipath.ParamsDir(s.root, info.ExperimentID, runID), key)
}

func (s *Store) listParams(experimentID, runID string) (map[string]string, error) {
	files, err := listLeafFiles(ipath.ParamsDir(s.root, experimentID, runID))
	if err != nil {
		return nil, errInternal(err, "failed to read params for run %s", runID)
	}
	return files, nil
}

func truncateForMessage(s string) string {
	const max = 50
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
