package filestore

import (
	ipath "github.com/mlflow-go/filestore/internal/path"
)

// ensureDefaultExperiment creates DEFAULT_EXPERIMENT_ID if it does not
// already exist. It is idempotent and called once from NewStore.
func (s *Store) ensureDefaultExperiment() error {
	dir := ipath.ExperimentDir(s.root, DefaultExperimentID)
	if ipath.Exists(dir) {
		return nil
	}
	now := nowMillis()
	exp := &Experiment{
		ExperimentID:     DefaultExperimentID,
		Name:             "Default",
		ArtifactLocation: s.artifactRootFor(DefaultExperimentID),
		CreationTime:     int64Ptr(now),
		LastUpdateTime:   int64Ptr(now),
		LifecycleStage:   LifecycleStageActive,
	}
	return s.writeExperiment(exp)
}

func (s *Store) writeExperiment(e *Experiment) error {
	dir := ipath.ExperimentDir(s.root, e.ExperimentID)
	if err := ensureDir(dir); err != nil {
		return errInternal(err, "failed to create experiment directory %s", dir)
	}
	if err := ensureDir(ipath.ExperimentTagsDir(s.root, e.ExperimentID)); err != nil {
		return errInternal(err, "failed to create experiment tags directory")
	}
	if err := s.meta.Write(ipath.ExperimentMetaFile(s.root, e.ExperimentID), experimentToDoc(e)); err != nil {
		return errInternal(err, "failed to write experiment metadata for %s", e.ExperimentID)
	}
	return nil
}

// CreateExperiment creates a new experiment with the given name,
// artifact location (defaulted from the store's root artifact URI when
// empty), and initial tags. It returns the new experiment's id.
func (s *Store) CreateExperiment(name, artifactLocation string, tags Tags) (string, error) {
	if name == "" {
		return "", errInvalid("Experiment name cannot be empty")
	}

	if existing, err := s.GetExperimentByName(name); err == nil && existing != nil {
		return "", errInvalid("Experiment %q already exists.", name)
	} else if err != nil && !IsCode(err, CodeResourceDoesNotExist) {
		return "", err
	}

	s.idMu.Lock()
	defer s.idMu.Unlock()

	var id string
	for {
		id = newExperimentID()
		if !ipath.Exists(ipath.ExperimentDir(s.root, id)) {
			break
		}
	}

	if artifactLocation == "" {
		artifactLocation = s.artifactRootFor(id)
	}

	now := nowMillis()
	exp := &Experiment{
		ExperimentID:     id,
		Name:             name,
		ArtifactLocation: artifactLocation,
		CreationTime:     int64Ptr(now),
		LastUpdateTime:   int64Ptr(now),
		LifecycleStage:   LifecycleStageActive,
	}
	if err := s.writeExperiment(exp); err != nil {
		return "", err
	}
	for _, tag := range tags {
		if err := s.SetExperimentTag(id, tag.Key, tag.Value); err != nil {
			return "", err
		}
	}
	return id, nil
}

// readExperiment reads and parses experimentID's metadata document,
// without loading tags. It returns MissingConfig if the directory
// exists but the document is absent/corrupt, and ResourceDoesNotExist
// if the directory itself is absent.
func (s *Store) readExperiment(experimentID string) (*Experiment, error) {
	dir := ipath.ExperimentDir(s.root, experimentID)
	if !ipath.Exists(dir) {
		return nil, errNotFound("Could not find experiment with ID %s", experimentID)
	}
	var doc experimentDoc
	if err := s.meta.Read(ipath.ExperimentMetaFile(s.root, experimentID), &doc); err != nil {
		return nil, errMissingConfig(err, "Experiment %s metadata is missing or malformed", experimentID)
	}
	exp := doc.toExperiment()
	if exp.ExperimentID == "" {
		exp.ExperimentID = experimentID
	}
	return exp, nil
}

// GetExperiment returns the experiment with the given id, including its
// tags.
func (s *Store) GetExperiment(experimentID string) (*Experiment, error) {
	exp, err := s.readExperiment(experimentID)
	if err != nil {
		return nil, err
	}
	tags, err := s.readExperimentTags(experimentID)
	if err != nil {
		return nil, err
	}
	exp.Tags = tags
	return exp, nil
}

// GetExperimentByName returns the active experiment with the given
// name, or a ResourceDoesNotExist error if none exists. Deleted
// experiments never collide on name and are never returned here.
func (s *Store) GetExperimentByName(name string) (*Experiment, error) {
	ids, err := ipath.ListExperimentDirs(s.root)
	if err != nil {
		return nil, errInternal(err, "failed to list experiments")
	}
	for _, id := range ids {
		exp, err := s.readExperiment(id)
		if err != nil {
			continue // malformed entries are silently excluded
		}
		if exp.LifecycleStage == LifecycleStageActive && exp.Name == name {
			tags, err := s.readExperimentTags(id)
			if err != nil {
				return nil, err
			}
			exp.Tags = tags
			return exp, nil
		}
	}
	return nil, errNotFound("Could not find experiment with name %s", name)
}

func (s *Store) readExperimentTags(experimentID string) (Tags, error) {
	files, err := listLeafFiles(ipath.ExperimentTagsDir(s.root, experimentID))
	if err != nil {
		return nil, errInternal(err, "failed to read tags for experiment %s", experimentID)
	}
	tags := make(Tags, 0, len(files))
	for k, v := range files {
		tags = append(tags, Tag{Key: k, Value: v})
	}
	return tags, nil
}

// DeleteExperiment flips experimentID to the deleted lifecycle stage.
// The default experiment can never be deleted. Deleting an
// already-deleted experiment is a no-op (idempotent, no time bump).
func (s *Store) DeleteExperiment(experimentID string) error {
	if experimentID == DefaultExperimentID {
		return errInvalid("Cannot delete the default experiment")
	}
	exp, err := s.readExperiment(experimentID)
	if err != nil {
		return err
	}
	if exp.LifecycleStage == LifecycleStageDeleted {
		return nil
	}
	exp.LifecycleStage = LifecycleStageDeleted
	exp.LastUpdateTime = int64Ptr(nowMillis())
	return s.writeExperiment(exp)
}

// RestoreExperiment flips experimentID back to the active lifecycle
// stage. Restoring an already-active experiment is a no-op.
func (s *Store) RestoreExperiment(experimentID string) error {
	exp, err := s.readExperiment(experimentID)
	if err != nil {
		return err
	}
	if exp.LifecycleStage == LifecycleStageActive {
		return nil
	}
	exp.LifecycleStage = LifecycleStageActive
	exp.LastUpdateTime = int64Ptr(nowMillis())
	return s.writeExperiment(exp)
}

// RenameExperiment updates experimentID's name. The experiment must be
// active, and newName must not collide with another active experiment.
func (s *Store) RenameExperiment(experimentID, newName string) error {
	if newName == "" {
		return errInvalid("Experiment name cannot be empty")
	}
	exp, err := s.readExperiment(experimentID)
	if err != nil {
		return err
	}
	if exp.LifecycleStage != LifecycleStageActive {
		return errInvalid("Cannot rename experiment in non-active lifecycle stage: %s", exp.LifecycleStage)
	}
	if existing, err := s.GetExperimentByName(newName); err == nil && existing.ExperimentID != experimentID {
		return errInvalid("Experiment %q already exists.", newName)
	} else if err != nil && !IsCode(err, CodeResourceDoesNotExist) {
		return err
	}
	exp.Name = newName
	exp.LastUpdateTime = int64Ptr(nowMillis())
	return s.writeExperiment(exp)
}

// SetExperimentTag sets (overwriting if present) a tag on experimentID.
func (s *Store) SetExperimentTag(experimentID, key, value string) error {
	if _, err := s.readExperiment(experimentID); err != nil {
		return err
	}
	if err := writeLeafFile(ipath.ExperimentTagsDir(s.root, experimentID), key, value); err != nil {
		return errInternal(err, "failed to set tag %s on experiment %s", key, experimentID)
	}
	return nil
}

// DeleteExperimentTag removes a tag from experimentID. The experiment
// must be active and the tag must exist.
func (s *Store) DeleteExperimentTag(experimentID, key string) error {
	exp, err := s.readExperiment(experimentID)
	if err != nil {
		return err
	}
	if exp.LifecycleStage != LifecycleStageActive {
		return errInvalid("No tag with name: %s for experiment id %s in non-active lifecycle stage", key, experimentID)
	}
	existed, err := deleteLeafFile(ipath.ExperimentTagsDir(s.root, experimentID), key)
	if err != nil {
		return errInternal(err, "failed to delete tag %s on experiment %s", key, experimentID)
	}
	if !existed {
		return errInvalid("No tag with name: %s for experiment id %s", key, experimentID)
	}
	return nil
}

// artifactRootFor composes the default artifact_location for an
// experiment that did not receive one explicitly.
func (s *Store) artifactRootFor(experimentID string) string {
	root := s.opts.defaultArtifactRootURI
	if root == "" {
		root = s.root
	}
	return BuildExperimentArtifactURI(root, experimentID)
}
