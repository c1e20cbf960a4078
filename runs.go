package filestore

import (
	ipath "github.com/mlflow-go/filestore/internal/path"
)

// CreateRun creates a new run under experimentID, which must be active.
// If runName is empty, one is synthesized. If tags already carries
// ReservedRunNameTag with a value different from a non-empty runName,
// the call fails rather than silently picking one.
func (s *Store) CreateRun(experimentID, userID string, startTime int64, tags Tags, runName string) (*Run, error) {
	exp, err := s.readExperiment(experimentID)
	if err != nil {
		return nil, err
	}
	if exp.LifecycleStage != LifecycleStageActive {
		return nil, errInvalid("Cannot create run under non-active experiment %s", experimentID)
	}

	if reserved := tags.Get(ReservedRunNameTag); reserved != "" {
		if runName != "" && runName != reserved {
			return nil, errInvalid("Both 'run_name' argument and 'mlflow.runName' tag are specified, but with different values: %q != %q", runName, reserved)
		}
		runName = reserved
	}
	if runName == "" {
		runName = generateRunName()
	}

	runID := newRunID()
	artifactURI := BuildRunArtifactURI(exp.ArtifactLocation, runID)

	info := &RunInfo{
		RunID:          runID,
		RunUUID:        runID,
		RunName:        runName,
		ExperimentID:   experimentID,
		UserID:         userID,
		Status:         RunStatusRunning,
		StartTime:      startTime,
		ArtifactURI:    artifactURI,
		LifecycleStage: LifecycleStageActive,
	}

	if err := s.writeRun(info); err != nil {
		return nil, err
	}

	run := &Run{Info: *info, Data: RunData{Metrics: map[string]float64{}, Params: map[string]string{}, Tags: map[string]string{}}}
	for _, t := range tags {
		if t.Key == ReservedRunNameTag {
			continue
		}
		if err := s.SetTag(runID, t.Key, t.Value); err != nil {
			return nil, err
		}
		run.Data.Tags[t.Key] = t.Value
	}
	if err := s.SetTag(runID, ReservedRunNameTag, runName); err != nil {
		return nil, err
	}
	run.Data.Tags[ReservedRunNameTag] = runName
	return run, nil
}

func (s *Store) writeRun(info *RunInfo) error {
	dir := ipath.RunDir(s.root, info.ExperimentID, info.RunID)
	if err := ensureDir(dir); err != nil {
		return errInternal(err, "failed to create run directory %s", dir)
	}
	for _, sub := range []string{
		ipath.ParamsDir(s.root, info.ExperimentID, info.RunID),
		ipath.TagsDir(s.root, info.ExperimentID, info.RunID),
		ipath.MetricsDir(s.root, info.ExperimentID, info.RunID),
	} {
		if err := ensureDir(sub); err != nil {
			return errInternal(err, "failed to create run subdirectory %s", sub)
		}
	}
	if err := s.meta.Write(ipath.RunMetaFile(s.root, info.ExperimentID, info.RunID), runInfoToDoc(info)); err != nil {
		return errInternal(err, "failed to write run metadata for %s", info.RunID)
	}
	return nil
}

// findRunDir locates runID under root, searching every experiment
// directory, and returns the id of the first experiment directory that
// holds a directory named runID. It does not read the run's document.
func (s *Store) findRunDir(runID string) (experimentID string, err error) {
	expIDs, err := ipath.ListExperimentDirs(s.root)
	if err != nil {
		return "", errInternal(err, "failed to list experiments")
	}
	for _, expID := range expIDs {
		dir := ipath.RunDir(s.root, expID, runID)
		if ipath.Exists(dir) {
			return expID, nil
		}
	}
	return "", errNotFound("Run with id=%s not found", runID)
}

// readRunInfo reads and parses runID's metadata document, without
// loading params/tags/metrics. It cross-checks the path-derived
// experiment id against the document's recorded experiment_id and
// reports corruption on mismatch.
func (s *Store) readRunInfo(runID string) (*RunInfo, error) {
	experimentID, err := s.findRunDir(runID)
	if err != nil {
		return nil, err
	}
	var doc runDoc
	if err := s.meta.Read(ipath.RunMetaFile(s.root, experimentID, runID), &doc); err != nil {
		return nil, errMissingConfig(err, "Run %s metadata is missing or malformed", runID)
	}
	info := doc.toRunInfo()
	if info.ExperimentID != "" && info.ExperimentID != experimentID {
		return nil, errInternal(nil, "Run %s is stored under experiment %s but its document records experiment_id %s", runID, experimentID, info.ExperimentID)
	}
	info.ExperimentID = experimentID
	if info.RunID == "" {
		info.RunID = runID
	}
	if info.RunName == "" {
		if name, ok, err := readLeafFile(ipath.TagsDir(s.root, experimentID, runID), ReservedRunNameTag); err != nil {
			return nil, errInternal(err, "failed to read run name tag for run %s", runID)
		} else if ok {
			info.RunName = name
		}
	}
	return &info, nil
}

// GetRun returns the run with the given id, including its params, tags,
// and the latest value of every metric.
func (s *Store) GetRun(runID string) (*Run, error) {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return nil, err
	}
	params, err := s.listParams(info.ExperimentID, runID)
	if err != nil {
		return nil, err
	}
	tags, err := s.listTags(info.ExperimentID, runID)
	if err != nil {
		return nil, err
	}
	metrics, err := s.listLatestMetrics(info.ExperimentID, runID)
	if err != nil {
		return nil, err
	}
	return &Run{
		Info: *info,
		Data: RunData{Metrics: metrics, Params: params, Tags: tags},
	}, nil
}

// UpdateRunInfo updates status and end_time on runID. If runName is
// non-nil and non-empty, the field and the reserved tag are both
// updated; otherwise the name is left unchanged.
func (s *Store) UpdateRunInfo(runID string, status RunStatus, endTime int64, runName *string) (*RunInfo, error) {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return nil, err
	}
	if status != "" {
		info.Status = status
	}
	if endTime != 0 {
		info.EndTime = endTime
	}
	if runName != nil && *runName != "" {
		info.RunName = *runName
	}
	if err := s.writeRunMeta(info); err != nil {
		return nil, err
	}
	if runName != nil && *runName != "" {
		if err := s.SetTag(runID, ReservedRunNameTag, *runName); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func (s *Store) writeRunMeta(info *RunInfo) error {
	if err := s.meta.Write(ipath.RunMetaFile(s.root, info.ExperimentID, info.RunID), runInfoToDoc(info)); err != nil {
		return errInternal(err, "failed to write run metadata for %s", info.RunID)
	}
	return nil
}

// DeleteRun flips runID to the deleted lifecycle stage, recording
// deleted_time. Deleting an already-deleted run is a no-op.
func (s *Store) DeleteRun(runID string) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage == LifecycleStageDeleted {
		return nil
	}
	info.LifecycleStage = LifecycleStageDeleted
	info.DeletedTime = int64Ptr(nowMillis())
	return s.writeRunMeta(info)
}

// RestoreRun flips runID back to the active lifecycle stage, clearing
// deleted_time. Restoring an already-active run is a no-op.
func (s *Store) RestoreRun(runID string) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage == LifecycleStageActive {
		return nil
	}
	info.LifecycleStage = LifecycleStageActive
	info.DeletedTime = nil
	return s.writeRunMeta(info)
}

// HardDeleteRun removes runID's directory entirely. Subsequent reads
// raise ResourceDoesNotExist.
func (s *Store) HardDeleteRun(runID string) error {
	experimentID, err := s.findRunDir(runID)
	if err != nil {
		return err
	}
	dir := ipath.RunDir(s.root, experimentID, runID)
	if err := removeAll(dir); err != nil {
		return errInternal(err, "failed to remove run directory %s", dir)
	}
	return nil
}
