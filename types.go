package filestore

// LifecycleStage is the active/deleted state of an Experiment or Run.
type LifecycleStage string

const (
	LifecycleStageActive  LifecycleStage = "active"
	LifecycleStageDeleted LifecycleStage = "deleted"
)

// ViewType controls which lifecycle stages a search considers.
type ViewType string

const (
	ViewTypeActiveOnly  ViewType = "ACTIVE_ONLY"
	ViewTypeDeletedOnly ViewType = "DELETED_ONLY"
	ViewTypeAll         ViewType = "ALL"
)

// RunStatus is the execution status of a Run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusScheduled RunStatus = "SCHEDULED"
	RunStatusFinished  RunStatus = "FINISHED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusKilled    RunStatus = "KILLED"
)

// DefaultExperimentID is the well-known experiment that always exists
// and cannot be deleted.
const DefaultExperimentID = "0"

// ReservedRunNameTag mirrors a Run's RunName field and must stay in sync
// with it after every successful mutation.
const ReservedRunNameTag = "mlflow.runName"

// Experiment is a collection of runs used to track and/or document an
// experiment over time.
type Experiment struct {
	// ExperimentID is the unique, fixed-width opaque id for the
	// experiment. Computed by the store; never set by callers on create.
	ExperimentID string `yaml:"experiment_id"`
	// Name is a human readable identifier, unique among active
	// experiments. Must be set when creating a new experiment.
	Name string `yaml:"name"`
	// ArtifactLocation is the URI where run artifacts for this
	// experiment live.
	ArtifactLocation string `yaml:"artifact_location"`
	// CreationTime is milliseconds since epoch. Nil for legacy on-disk
	// records that predate the field.
	CreationTime *int64 `yaml:"creation_time,omitempty"`
	// LastUpdateTime is milliseconds since epoch, monotone
	// non-decreasing per experiment.
	LastUpdateTime *int64 `yaml:"last_update_time,omitempty"`
	// LifecycleStage is "active" or "deleted".
	LifecycleStage LifecycleStage `yaml:"lifecycle_stage"`
	// Tags is the set of key/value pairs attached to the experiment.
	// Not part of the metadata document; loaded from the tags/
	// subdirectory.
	Tags Tags `yaml:"-"`
}

// DeepCopy returns a deep copy of the Experiment.
func (e *Experiment) DeepCopy() *Experiment {
	out := &Experiment{}
	e.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the attributes of the Experiment into out.
func (e *Experiment) DeepCopyInto(out *Experiment) {
	*out = *e
	if e.CreationTime != nil {
		t := *e.CreationTime
		out.CreationTime = &t
	}
	if e.LastUpdateTime != nil {
		t := *e.LastUpdateTime
		out.LastUpdateTime = &t
	}
	out.Tags = make(Tags, len(e.Tags))
	for i := range e.Tags {
		out.Tags[i] = Tag{Key: e.Tags[i].Key, Value: e.Tags[i].Value}
	}
}

// GetExperimentID returns the experiment ID.
func (e *Experiment) GetExperimentID() string { return e.ExperimentID }

// GetName returns the experiment name.
func (e *Experiment) GetName() string { return e.Name }

// GetArtifactLocation returns the experiment artifact location.
func (e *Experiment) GetArtifactLocation() string { return e.ArtifactLocation }

// GetLifecycleStage returns the experiment lifecycle stage.
func (e *Experiment) GetLifecycleStage() LifecycleStage { return e.LifecycleStage }

// GetTags returns the experiment tags.
func (e *Experiment) GetTags() *Tags { return &e.Tags }

// IsActive reports whether the experiment's lifecycle stage is active.
func (e *Experiment) IsActive() bool { return e.LifecycleStage == LifecycleStageActive }

// RunInfo carries the fixed, non-metric/param/tag attributes of a run.
type RunInfo struct {
	RunID          string         `yaml:"run_id"`
	RunUUID        string         `yaml:"run_uuid"`
	RunName        string         `yaml:"run_name,omitempty"`
	ExperimentID   string         `yaml:"experiment_id"`
	UserID         string         `yaml:"user_id,omitempty"`
	Status         RunStatus      `yaml:"status,omitempty"`
	StartTime      int64          `yaml:"start_time,omitempty"`
	EndTime        int64          `yaml:"end_time,omitempty"`
	DeletedTime    *int64         `yaml:"deleted_time,omitempty"`
	ArtifactURI    string         `yaml:"artifact_uri,omitempty"`
	LifecycleStage LifecycleStage `yaml:"lifecycle_stage,omitempty"`
}

// IsActive reports whether the run's lifecycle stage is active.
func (r *RunInfo) IsActive() bool { return r.LifecycleStage == LifecycleStageActive }

// RunData carries the mutable, per-key data attached to a run: the
// latest value of every metric, every param, and every tag.
type RunData struct {
	Metrics map[string]float64
	Params  map[string]string
	Tags    map[string]string
}

// Run is one execution under an experiment, carrying its fixed info and
// its mutable data.
type Run struct {
	Info RunInfo
	Data RunData
}

// Metric is a single sample in a metric's append-only history.
type Metric struct {
	Key       string
	Value     float64
	Timestamp int64
	Step      int64
}

// Param is an immutable string key/value pair on a run.
type Param struct {
	Key   string
	Value string
}

// Tag is a key-value pair associated with an entity, such as an
// experiment or a run. Tags can be used for server-side filtering in
// search queries.
type Tag struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Tags is a list of Tag objects.
type Tags []Tag

// Contains returns true if the Tags list contains a Tag with the
// provided key. Otherwise, it returns false.
func (t *Tags) Contains(key string) bool {
	for _, tag := range *t {
		if tag.Key == key {
			return true
		}
	}
	return false
}

// Get returns the value of the Tag with the provided key. If the Tag is
// not found, then an empty string is returned.
func (t *Tags) Get(key string) string {
	for _, tag := range *t {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

// Set overwrites (or appends) the Tag with the provided key.
func (t *Tags) Set(key, value string) {
	for i, tag := range *t {
		if tag.Key == key {
			(*t)[i].Value = value
			return
		}
	}
	*t = append(*t, Tag{Key: key, Value: value})
}

// Len along with Less and Swap implements sort.Interface.
func (t *Tags) Len() int { return len(*t) }

// Less along with Len and Swap implements sort.Interface.
func (t *Tags) Less(i, j int) bool { return (*t)[i].Key < (*t)[j].Key }

// Swap along with Len and Less implements sort.Interface.
func (t *Tags) Swap(i, j int) { (*t)[i], (*t)[j] = (*t)[j], (*t)[i] }

// ExperimentPage is the result of a paginated experiment search.
type ExperimentPage struct {
	Experiments []*Experiment
	// Token is the opaque cursor for the next page, nil once the last
	// page has been returned.
	Token *string
}

// RunPage is the result of a paginated run search.
type RunPage struct {
	Runs []*Run
	// Token is the opaque cursor for the next page, nil once the last
	// page has been returned.
	Token *string
}
