package filestore

import "gopkg.in/yaml.v3"

// flexString unmarshals a YAML scalar verbatim as a string regardless of
// whether it was written quoted ("123") or bare (123); this is what lets
// the store accept experiment ids that look like integers on disk.
type flexString string

func (s *flexString) UnmarshalYAML(value *yaml.Node) error {
	*s = flexString(value.Value)
	return nil
}

func (s flexString) MarshalYAML() (any, error) {
	return string(s), nil
}

// experimentDoc is the on-disk shape of an experiment's meta.yaml. Tags
// live in a separate tags/ subdirectory and are not part of this
// document.
type experimentDoc struct {
	ExperimentID     flexString     `yaml:"experiment_id"`
	Name             string         `yaml:"name"`
	ArtifactLocation string         `yaml:"artifact_location"`
	CreationTime     *int64         `yaml:"creation_time,omitempty"`
	LastUpdateTime   *int64         `yaml:"last_update_time,omitempty"`
	LifecycleStage   LifecycleStage `yaml:"lifecycle_stage"`
}

func (d *experimentDoc) toExperiment() *Experiment {
	return &Experiment{
		ExperimentID:     string(d.ExperimentID),
		Name:             d.Name,
		ArtifactLocation: d.ArtifactLocation,
		CreationTime:     d.CreationTime,
		LastUpdateTime:   d.LastUpdateTime,
		LifecycleStage:   d.LifecycleStage,
	}
}

func experimentToDoc(e *Experiment) *experimentDoc {
	return &experimentDoc{
		ExperimentID:     flexString(e.ExperimentID),
		Name:             e.Name,
		ArtifactLocation: e.ArtifactLocation,
		CreationTime:     e.CreationTime,
		LastUpdateTime:   e.LastUpdateTime,
		LifecycleStage:   e.LifecycleStage,
	}
}

// runDoc is the on-disk shape of a run's meta.yaml. Params, tags, and
// metrics live in their own leaf-store subdirectories.
type runDoc struct {
	RunUUID        string         `yaml:"run_uuid"`
	RunID          string         `yaml:"run_id"`
	RunName        string         `yaml:"run_name,omitempty"`
	ExperimentID   flexString     `yaml:"experiment_id"`
	UserID         string         `yaml:"user_id,omitempty"`
	Status         RunStatus      `yaml:"status,omitempty"`
	StartTime      int64          `yaml:"start_time,omitempty"`
	EndTime        int64          `yaml:"end_time,omitempty"`
	DeletedTime    *int64         `yaml:"deleted_time,omitempty"`
	ArtifactURI    string         `yaml:"artifact_uri,omitempty"`
	LifecycleStage LifecycleStage `yaml:"lifecycle_stage,omitempty"`
}

func (d *runDoc) toRunInfo() RunInfo {
	return RunInfo{
		RunID:          d.RunID,
		RunUUID:        d.RunUUID,
		RunName:        d.RunName,
		ExperimentID:   string(d.ExperimentID),
		UserID:         d.UserID,
		Status:         d.Status,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		DeletedTime:    d.DeletedTime,
		ArtifactURI:    d.ArtifactURI,
		LifecycleStage: d.LifecycleStage,
	}
}

func runInfoToDoc(r *RunInfo) *runDoc {
	return &runDoc{
		RunUUID:        r.RunUUID,
		RunID:          r.RunID,
		RunName:        r.RunName,
		ExperimentID:   flexString(r.ExperimentID),
		UserID:         r.UserID,
		Status:         r.Status,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		DeletedTime:    r.DeletedTime,
		ArtifactURI:    r.ArtifactURI,
		LifecycleStage: r.LifecycleStage,
	}
}
