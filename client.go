package filestore

import "strings"

// DeleteOptions are options that can be passed to DeleteExperiment.
type DeleteOptions struct {
	// IgnoreMissing suppresses the not-found error, leaving experiment
	// zeroed exactly as a successful delete would. Useful for
	// idempotent deletes where a missing experiment is not an error.
	IgnoreMissing bool

	// Namespace scopes the delete lookup. Ignored once ExperimentID is
	// set, since ids are global.
	Namespace string
}

// CreateOptions are options that can be passed to CreateExperiment.
type CreateOptions struct {
	// Namespace scopes the experiment's name, mirroring a multi-tenant
	// deployment where experiment names collide across tenants.
	Namespace string
	// IgnoreAlreadyExists suppresses the already-exists error and
	// instead populates experiment with the existing one.
	IgnoreAlreadyExists bool
}

// ListOptions scopes an experiment listing to a namespace. No Client
// method takes it.
type ListOptions struct {
	Namespace string
}

// GetOptions are options that can be passed to GetExperiment.
type GetOptions struct {
	// Namespace is only consulted when looking up by name; ignored
	// once ExperimentID is set.
	Namespace string
}

type CreateOption interface {
	ApplyToCreate(*CreateOptions)
}

type DeleteOption interface {
	ApplyToDelete(*DeleteOptions)
}

type GetOption interface {
	ApplyToGet(*GetOptions)
}

// InNamespace scopes a create/get/delete to a namespace.
type InNamespace string

func (i InNamespace) ApplyToCreate(o *CreateOptions) { o.Namespace = string(i) }
func (i InNamespace) ApplyToGet(o *GetOptions)       { o.Namespace = string(i) }
func (i InNamespace) ApplyToDelete(o *DeleteOptions) { o.Namespace = string(i) }

// IgnoreMissing is a DeleteOption that suppresses the not-found error.
type IgnoreMissing bool

func (i IgnoreMissing) ApplyToDelete(o *DeleteOptions) { o.IgnoreMissing = bool(i) }

// IgnoreAlreadyExists is a CreateOption that suppresses the
// already-exists error, returning the existing experiment instead.
type IgnoreAlreadyExists bool

func (i IgnoreAlreadyExists) ApplyToCreate(o *CreateOptions) { o.IgnoreAlreadyExists = bool(i) }

const namespaceTagKey = "metadata.namespace"
const defaultNamespace = "default"

// Client is a narrow, namespace-aware facade over a Store, sized to
// what a higher-level experiment-tracking server needs from its
// storage layer.
type Client interface {
	// CreateExperiment creates a new experiment. If the experiment
	// name already exists in the namespace, an error is returned
	// unless IgnoreAlreadyExists is set. experiment is populated with
	// every computed field on success.
	CreateExperiment(experiment *Experiment, opts ...CreateOption) error
	// DeleteExperiment deletes the experiment with the given ID. If the
	// experiment is not found, an error is returned unless
	// IgnoreMissing is set.
	DeleteExperiment(experiment *Experiment, opts ...DeleteOption) error
	// GetExperiment gets the experiment with the given ID or name. At
	// least one of ID or Name must be set on experiment; the remaining
	// fields are populated from the store.
	GetExperiment(experiment *Experiment, opts ...GetOption) error
	// UpdateExperiment updates the experiment with the given ID or
	// name. Name, Tags, and LifecycleStage can all be updated; all
	// other fields are ignored.
	UpdateExperiment(experiment *Experiment) error
}

// ClientOverStore implements Client directly against a *Store, with no
// network hop: the namespace convention (name prefixed "<ns>/", a
// reserved "metadata.namespace" tag) is preserved so callers written
// against a remote tracking server see the same shape from an in-process
// store.
type ClientOverStore struct {
	Store *Store
}

var _ Client = (*ClientOverStore)(nil)

func namespacedName(namespace, name string) string {
	return namespace + "/" + name
}

func stripNamespace(namespace, name string) string {
	return strings.TrimPrefix(name, namespace+"/")
}

// CreateExperiment implements Client.
func (c *ClientOverStore) CreateExperiment(experiment *Experiment, opts ...CreateOption) error {
	if experiment.Name == "" {
		return errInvalid("missing required attribute %q on experiment", "Name")
	}

	o := &CreateOptions{}
	for _, f := range opts {
		f.ApplyToCreate(o)
	}
	if o.Namespace == "" {
		o.Namespace = defaultNamespace
	}

	tags := make(Tags, len(experiment.Tags))
	copy(tags, experiment.Tags)
	tags.Set(namespaceTagKey, o.Namespace)

	id, err := c.Store.CreateExperiment(namespacedName(o.Namespace, experiment.Name), experiment.ArtifactLocation, tags)
	if err != nil {
		if o.IgnoreAlreadyExists && IsCode(err, CodeInvalidParameterValue) {
			return c.GetExperiment(experiment, InNamespace(o.Namespace))
		}
		return err
	}
	experiment.ExperimentID = id
	return c.GetExperiment(experiment, InNamespace(o.Namespace))
}

// GetExperiment implements Client.
func (c *ClientOverStore) GetExperiment(experiment *Experiment, opts ...GetOption) error {
	o := &GetOptions{}
	for _, f := range opts {
		f.ApplyToGet(o)
	}
	if o.Namespace == "" {
		o.Namespace = defaultNamespace
	}

	var exp *Experiment
	var err error
	switch {
	case experiment.ExperimentID != "":
		exp, err = c.Store.GetExperiment(experiment.ExperimentID)
	case experiment.Name != "":
		exp, err = c.Store.GetExperimentByName(namespacedName(o.Namespace, experiment.Name))
	default:
		return errInvalid("at least one of ExperimentID or Name must be set")
	}
	if err != nil {
		return err
	}

	exp.DeepCopyInto(experiment)
	if ns := experiment.Tags.Get(namespaceTagKey); ns != "" {
		experiment.Name = stripNamespace(ns, experiment.Name)
	}
	return nil
}

// DeleteExperiment implements Client.
func (c *ClientOverStore) DeleteExperiment(experiment *Experiment, opts ...DeleteOption) error {
	if experiment.ExperimentID == "" {
		return errInvalid("ExperimentID must be set")
	}

	o := &DeleteOptions{}
	for _, f := range opts {
		f.ApplyToDelete(o)
	}

	err := c.Store.DeleteExperiment(experiment.ExperimentID)
	if err != nil {
		if o.IgnoreMissing && IsCode(err, CodeResourceDoesNotExist) {
			*experiment = Experiment{}
			return nil
		}
		return err
	}
	*experiment = Experiment{}
	return nil
}

// UpdateExperiment implements Client.
func (c *ClientOverStore) UpdateExperiment(experiment *Experiment) error {
	if experiment.ExperimentID == "" && experiment.Name == "" {
		return errInvalid("at least one of ExperimentID or Name must be set")
	}

	current := &Experiment{ExperimentID: experiment.ExperimentID, Name: experiment.Name}
	if err := c.GetExperiment(current); err != nil {
		return err
	}

	if experiment.Name != "" && experiment.Name != current.Name {
		namespace := current.Tags.Get(namespaceTagKey)
		if namespace == "" {
			namespace = defaultNamespace
		}
		if err := c.Store.RenameExperiment(current.ExperimentID, namespacedName(namespace, experiment.Name)); err != nil {
			return err
		}
	}
	for _, tag := range experiment.Tags {
		if err := c.Store.SetExperimentTag(current.ExperimentID, tag.Key, tag.Value); err != nil {
			return err
		}
	}
	if experiment.LifecycleStage != "" && experiment.LifecycleStage != current.LifecycleStage {
		switch experiment.LifecycleStage {
		case LifecycleStageDeleted:
			if err := c.Store.DeleteExperiment(current.ExperimentID); err != nil {
				return err
			}
		case LifecycleStageActive:
			if err := c.Store.RestoreExperiment(current.ExperimentID); err != nil {
				return err
			}
		}
	}

	experiment.ExperimentID = current.ExperimentID
	return c.GetExperiment(experiment)
}
